// Package orchestrator coordinates plan generation, wave-based step
// execution, and result summarization for one task.
package orchestrator

import "time"

// EventType represents the type of orchestrator event.
type EventType string

const (
	// EventPlanGenerated indicates a plan was generated and validated.
	EventPlanGenerated EventType = "plan_generated"
	// EventWaveStarted indicates a wave of ready steps is starting.
	EventWaveStarted EventType = "wave_started"
	// EventStepQueued indicates a step is ready and queued for execution.
	EventStepQueued EventType = "step_queued"
	// EventStepStarted indicates a step has started execution.
	EventStepStarted EventType = "step_started"
	// EventStepCompleted indicates a step completed successfully.
	EventStepCompleted EventType = "step_completed"
	// EventStepFailed indicates a step failed.
	EventStepFailed EventType = "step_failed"
	// EventStepBlocked indicates a step is waiting on unfinished dependencies.
	EventStepBlocked EventType = "step_blocked"
	// EventSummaryStarted indicates result summarization has started.
	EventSummaryStarted EventType = "summary_started"
	// EventRunDone indicates the entire run is complete.
	EventRunDone EventType = "run_done"
)

// Event represents an event emitted by the orchestrator. Events feed the
// TUI and any other observer of run progress.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// RunID identifies the orchestrator run this event belongs to.
	RunID string
	// StepID is the id of the related step, if applicable.
	StepID string
	// StepName is the name of the related step, if applicable.
	StepName string
	// Capability is the capability assigned to the step, if applicable.
	Capability string
	// Wave is the wave number for wave and step events (1-based).
	Wave int
	// Message provides additional context about the event.
	Message string
	// Error contains error details for failure events.
	Error error
	// Timestamp is when the event occurred.
	Timestamp time.Time
}
