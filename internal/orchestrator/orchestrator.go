package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ShayCichocki/tandem/internal/planner"
	"github.com/ShayCichocki/tandem/internal/registry"
	"github.com/ShayCichocki/tandem/pkg/models"
)

// Mode selects the planning strategy for a run.
type Mode string

const (
	// ModeFull generates the entire plan before executing any step.
	ModeFull Mode = "full"
	// ModeIterative generates one step at a time, informed by prior
	// results.
	ModeIterative Mode = "iterative"
)

// Valid returns true if the mode is a known value.
func (m Mode) Valid() bool {
	return m == ModeFull || m == ModeIterative
}

// Orchestrator wires plan generation, wave execution, and summarization
// together for single task invocations. Capability resolution is
// injected at construction; a run holds no process-wide state and
// nothing persists across invocations.
type Orchestrator struct {
	registry      *registry.Registry
	planner       *planner.Planner
	executor      *Executor
	summarizer    *Summarizer
	emitter       *EventEmitter
	logger        *DebugLogger
	mode          Mode
	maxIterations int
	runID         string
}

// RequiredConfig contains the minimal required configuration for an
// Orchestrator. All fields are required and have no defaults.
type RequiredConfig struct {
	// Registry is the fixed set of capabilities for this process.
	Registry *registry.Registry
	// Planner generates plans for this run.
	Planner *planner.Planner
}

// New creates an Orchestrator from required config and options.
func New(req RequiredConfig, opts ...Option) (*Orchestrator, error) {
	if req.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if req.Planner == nil {
		return nil, fmt.Errorf("planner is required")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	// The summarizer capability defaults to the first registered one.
	var summaryCap registry.Capability
	var err error
	if options.summarizerName != "" {
		summaryCap, err = req.Registry.Resolve(options.summarizerName)
	} else {
		summaryCap, err = req.Registry.First()
	}
	if err != nil {
		return nil, fmt.Errorf("resolve summarizer capability: %w", err)
	}

	runID := uuid.New().String()[:8]
	emitter := NewEventEmitter(options.eventBuffer)

	return &Orchestrator{
		registry:      req.Registry,
		planner:       req.Planner,
		executor:      NewExecutor(req.Registry, emitter, runID, options.stepTimeout),
		summarizer:    NewSummarizer(summaryCap),
		emitter:       emitter,
		logger:        options.logger,
		mode:          options.mode,
		maxIterations: options.maxIterations,
		runID:         runID,
	}, nil
}

// ID returns the short run identifier.
func (o *Orchestrator) ID() string {
	return o.runID
}

// Events returns the channel of run events for subscribers such as the
// TUI. The channel is closed when Run returns.
func (o *Orchestrator) Events() <-chan Event {
	return o.emitter.Events()
}

// DroppedEventCount returns the number of events dropped because no
// subscriber drained the channel in time.
func (o *Orchestrator) DroppedEventCount() uint64 {
	return o.emitter.DroppedCount()
}

// Run executes one task end to end and returns the final summary text.
//
// Step failures never surface here directly; they are folded into the
// summary unless they starve the plan, in which case a DeadlockError is
// returned. Planning and summarization failures propagate as-is.
func (o *Orchestrator) Run(ctx context.Context, task string) (answer string, err error) {
	setPackageLogger(o.logger)
	defer o.emitter.Close()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		runsTotal.WithLabelValues(string(o.mode), status).Inc()
	}()

	o.logger.Log("[run %s] mode=%s task=%q", o.runID, o.mode, task)

	var plan *models.Plan
	var results []*models.StepResult

	switch o.mode {
	case ModeIterative:
		plan, results, err = o.executeIterative(ctx, task)
	default:
		plan, err = o.planner.GeneratePlan(ctx, task)
		if err != nil {
			return "", err
		}
		o.logger.Log("[run %s] plan generated with %d steps", o.runID, len(plan.Steps))
		o.emitter.Emit(Event{Type: EventPlanGenerated, RunID: o.runID, Message: fmt.Sprintf("%d steps", len(plan.Steps))})

		results, err = o.executor.ExecutePlan(ctx, task, plan)
	}
	if err != nil {
		return "", err
	}

	o.emitter.Emit(Event{Type: EventSummaryStarted, RunID: o.runID})
	summary, err := o.summarizer.Summarize(ctx, task, plan, results)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	o.logger.Log("[run %s] done, %d steps executed", o.runID, len(results))
	o.emitter.Emit(Event{Type: EventRunDone, RunID: o.runID})

	return summary, nil
}

// executeIterative drives the one-step-at-a-time planning loop. Each
// call to the planner yields either a completion signal or exactly one
// step, which runs through the same wave path as full plans. Steps are
// auto-numbered step1, step2, ... and carry no dependencies; ordering is
// inherent because each step is planned only after the previous result
// is known.
func (o *Orchestrator) executeIterative(ctx context.Context, task string) (*models.Plan, []*models.StepResult, error) {
	plan := &models.Plan{}
	var results []*models.StepResult

	for iteration := 1; ; iteration++ {
		if o.maxIterations > 0 && iteration > o.maxIterations {
			return plan, results, &MaxIterationsError{Limit: o.maxIterations}
		}

		next, err := o.planner.NextStep(ctx, task, plan, results)
		if err != nil {
			return plan, results, err
		}

		if next.IsComplete {
			plan.IsComplete = true
			o.logger.Log("[run %s] planner declared completion after %d steps", o.runID, len(plan.Steps))
			return plan, results, nil
		}

		// Only the first proposed task is honored.
		proposed := next.First()
		step := &models.PlanStep{
			ID:          fmt.Sprintf("step%d", len(plan.Steps)+1),
			Name:        fmt.Sprintf("Step %d", len(plan.Steps)+1),
			Description: proposed.Description,
			Capability:  proposed.Capability,
		}
		plan.Steps = append(plan.Steps, step)
		o.emitter.Emit(Event{Type: EventPlanGenerated, RunID: o.runID, StepID: step.ID, Message: next.Description})

		stepResults, err := o.executor.ExecutePlan(ctx, task, &models.Plan{Steps: []*models.PlanStep{step}})
		if err != nil {
			return plan, results, err
		}
		results = append(results, stepResults...)
	}
}
