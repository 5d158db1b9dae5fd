package orchestrator

import (
	"errors"
	"testing"
	"time"
)

// waitForRun polls until the run leaves the running state.
func waitForRun(t *testing.T, pool *Pool, id string) Run {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		run, ok := pool.Get(id)
		if ok && run.State != RunStateRunning {
			return run
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("run %s did not finish in time", id)
	return Run{}
}

func TestPoolSubmit(t *testing.T) {
	pool := NewPool(func() (*Orchestrator, error) {
		reg, pl := newTestSetup(t, func(int) string { return testPlanJSON })
		return New(RequiredConfig{Registry: reg, Planner: pl})
	})
	go func() {
		for range pool.Events() {
		}
	}()
	defer pool.Stop()

	id, err := pool.Submit("write a report")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected a run id")
	}

	run := waitForRun(t, pool, id)
	if run.State != RunStateDone {
		t.Fatalf("expected done, got %s (%s)", run.State, run.Error)
	}
	if run.Answer != "final answer" {
		t.Errorf("expected final answer, got %q", run.Answer)
	}
	if run.Task != "write a report" {
		t.Errorf("expected task recorded, got %q", run.Task)
	}
	if run.FinishedAt == nil {
		t.Error("expected finished timestamp")
	}

	if len(pool.List()) != 1 {
		t.Errorf("expected 1 run listed, got %d", len(pool.List()))
	}
	if pool.Count() != 0 {
		t.Errorf("expected no running runs, got %d", pool.Count())
	}
}

func TestPoolSubmitFailedRun(t *testing.T) {
	pool := NewPool(func() (*Orchestrator, error) {
		reg, pl := newTestSetup(t, func(int) string { return "not a plan" })
		return New(RequiredConfig{Registry: reg, Planner: pl})
	})
	go func() {
		for range pool.Events() {
		}
	}()
	defer pool.Stop()

	id, err := pool.Submit("task")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	run := waitForRun(t, pool, id)
	if run.State != RunStateFailed {
		t.Fatalf("expected failed, got %s", run.State)
	}
	if run.Error == "" {
		t.Error("expected an error message")
	}
}

func TestPoolFactoryError(t *testing.T) {
	wantErr := errors.New("no api key")
	pool := NewPool(func() (*Orchestrator, error) {
		return nil, wantErr
	})
	defer pool.Stop()

	if _, err := pool.Submit("task"); !errors.Is(err, wantErr) {
		t.Fatalf("expected factory error, got %v", err)
	}
	if len(pool.List()) != 0 {
		t.Error("failed submissions should not be tracked")
	}
}

func TestPoolGetUnknown(t *testing.T) {
	pool := NewPool(func() (*Orchestrator, error) { return nil, nil })
	defer pool.Stop()

	if _, ok := pool.Get("ghost"); ok {
		t.Error("expected ok=false for unknown run id")
	}
}
