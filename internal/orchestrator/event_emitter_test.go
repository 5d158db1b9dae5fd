package orchestrator

import (
	"testing"
	"time"
)

func TestEmitterDeliversEvents(t *testing.T) {
	emitter := NewEventEmitter(10)
	emitter.Emit(Event{Type: EventStepStarted, StepID: "a"})
	emitter.Emit(Event{Type: EventStepCompleted, StepID: "a"})
	emitter.Close()

	var got []Event
	for event := range emitter.Events() {
		got = append(got, event)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Type != EventStepStarted || got[1].Type != EventStepCompleted {
		t.Errorf("unexpected event order: %v, %v", got[0].Type, got[1].Type)
	}
	if got[0].Timestamp.IsZero() {
		t.Error("emitter should stamp events")
	}
}

func TestEmitterPreservesTimestamp(t *testing.T) {
	emitter := NewEventEmitter(1)
	stamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	emitter.Emit(Event{Type: EventRunDone, Timestamp: stamp})
	emitter.Close()

	event := <-emitter.Events()
	if !event.Timestamp.Equal(stamp) {
		t.Errorf("expected timestamp preserved, got %v", event.Timestamp)
	}
}

func TestEmitterDropsWhenFull(t *testing.T) {
	emitter := NewEventEmitter(1)
	emitter.Emit(Event{Type: EventStepStarted})

	// No reader; the second emit times out and is dropped.
	emitter.Emit(Event{Type: EventStepCompleted})

	if emitter.DroppedCount() != 1 {
		t.Errorf("expected 1 dropped event, got %d", emitter.DroppedCount())
	}
}
