package orchestrator

import (
	"context"
	"sync"
	"time"
)

// RunState is the lifecycle state of a pooled run.
type RunState string

const (
	// RunStateRunning indicates the run is still executing.
	RunStateRunning RunState = "running"
	// RunStateDone indicates the run finished with an answer.
	RunStateDone RunState = "done"
	// RunStateFailed indicates the run finished with an error.
	RunStateFailed RunState = "failed"
)

// Run tracks one submitted task in a Pool.
type Run struct {
	// ID is the run identifier, shared with the orchestrator's events.
	ID string `json:"id"`
	// Task is the submitted task text.
	Task string `json:"task"`
	// State is the current lifecycle state.
	State RunState `json:"state"`
	// Answer is the final summary once State is done.
	Answer string `json:"answer,omitempty"`
	// Error is the failure message once State is failed.
	Error string `json:"error,omitempty"`
	// StartedAt is when the run was submitted.
	StartedAt time.Time `json:"started_at"`
	// FinishedAt is when the run reached a terminal state.
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Factory creates a fresh Orchestrator for one run. Each run gets its
// own plan, status table, and event stream.
type Factory func() (*Orchestrator, error)

// Pool manages multiple concurrent orchestrator runs and aggregates
// their events onto one channel.
type Pool struct {
	factory Factory

	mu   sync.RWMutex
	runs map[string]*Run

	events chan Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPool creates a Pool that builds orchestrators with the given factory.
func NewPool(factory Factory) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		factory: factory,
		runs:    make(map[string]*Run),
		events:  make(chan Event, 100),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Submit starts a new orchestrator run for the given task and returns
// its run ID.
func (p *Pool) Submit(task string) (string, error) {
	orch, err := p.factory()
	if err != nil {
		return "", err
	}

	run := &Run{
		ID:        orch.ID(),
		Task:      task,
		State:     RunStateRunning,
		StartedAt: time.Now(),
	}

	p.mu.Lock()
	p.runs[run.ID] = run
	p.mu.Unlock()

	p.wg.Add(1)
	go p.forwardEvents(orch)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		answer, err := orch.Run(p.ctx, task)

		now := time.Now()
		p.mu.Lock()
		defer p.mu.Unlock()
		run.FinishedAt = &now
		if err != nil {
			run.State = RunStateFailed
			run.Error = err.Error()
		} else {
			run.State = RunStateDone
			run.Answer = answer
		}
	}()

	return run.ID, nil
}

// forwardEvents forwards events from one orchestrator to the pool's
// aggregate channel. It exits when the run's event stream closes, so
// Stop can wait for forwarders before closing the aggregate channel.
func (p *Pool) forwardEvents(orch *Orchestrator) {
	defer p.wg.Done()
	for event := range orch.Events() {
		select {
		case p.events <- event:
		case <-p.ctx.Done():
			return
		}
	}
}

// Events returns the aggregated event channel for all runs.
func (p *Pool) Events() <-chan Event {
	return p.events
}

// Get returns a snapshot of the run with the given ID.
func (p *Pool) Get(id string) (Run, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	run, ok := p.runs[id]
	if !ok {
		return Run{}, false
	}
	return *run, true
}

// List returns a snapshot of all runs.
func (p *Pool) List() []Run {
	p.mu.RLock()
	defer p.mu.RUnlock()

	runs := make([]Run, 0, len(p.runs))
	for _, run := range p.runs {
		runs = append(runs, *run)
	}
	return runs
}

// Count returns the number of runs still executing.
func (p *Pool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	n := 0
	for _, run := range p.runs {
		if run.State == RunStateRunning {
			n++
		}
	}
	return n
}

// Stop cancels all running orchestrators and waits for them to finish.
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
	close(p.events)
}
