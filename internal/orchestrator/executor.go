package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ShayCichocki/tandem/internal/registry"
	"github.com/ShayCichocki/tandem/pkg/models"
)

// Executor runs a plan's steps in dependency order. All currently
// unblocked steps execute concurrently as one wave; the next wave is not
// computed until every step in the current wave has finished.
type Executor struct {
	registry *registry.Registry
	emitter  *EventEmitter
	runID    string
	// stepTimeout bounds one step's completion call. Zero disables the
	// timeout and a hung completion call hangs its wave.
	stepTimeout time.Duration
}

// NewExecutor creates an Executor. The emitter may be nil when no
// observer is attached.
func NewExecutor(reg *registry.Registry, emitter *EventEmitter, runID string, stepTimeout time.Duration) *Executor {
	return &Executor{
		registry:    reg,
		emitter:     emitter,
		runID:       runID,
		stepTimeout: stepTimeout,
	}
}

// ExecutePlan executes every step of the plan and returns one result per
// step. Individual step failures are recorded in their results and never
// abort the run; the returned error is non-nil only when the plan cannot
// make progress (DeadlockError) or a capability cannot be resolved.
//
// A failed step does not fail its dependents. They stay blocked, and the
// deadlock check on the following scheduling pass reports them.
func (e *Executor) ExecutePlan(ctx context.Context, task string, plan *models.Plan) ([]*models.StepResult, error) {
	// Resolve every step's capability up front so an invalid plan fails
	// before any step runs.
	caps := make(map[string]registry.Capability, len(plan.Steps))
	for _, step := range plan.Steps {
		cap, err := e.registry.Resolve(step.Capability)
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", step.ID, err)
		}
		caps[step.ID] = cap
	}

	status := make(map[string]models.StepStatus, len(plan.Steps))
	for _, step := range plan.Steps {
		status[step.ID] = models.StepStatusPending
	}

	resultByID := make(map[string]*models.StepResult, len(plan.Steps))
	var results []*models.StepResult

	wave := 0
	for {
		var ready []*models.PlanStep
		var unfinished []string

		for _, step := range plan.Steps {
			if status[step.ID].Terminal() {
				continue
			}
			unfinished = append(unfinished, step.ID)

			satisfied := true
			for _, dep := range step.Dependencies {
				if status[dep] != models.StepStatusCompleted {
					satisfied = false
					break
				}
			}

			if satisfied {
				// A step may come back from blocked once siblings finish.
				status[step.ID] = models.StepStatusPending
				ready = append(ready, step)
				e.emit(Event{Type: EventStepQueued, StepID: step.ID, StepName: step.Name, Capability: step.Capability})
			} else if status[step.ID] != models.StepStatusBlocked {
				status[step.ID] = models.StepStatusBlocked
				debugLog("[executor] step %s blocked on unfinished dependencies", step.ID)
				e.emit(Event{Type: EventStepBlocked, StepID: step.ID, StepName: step.Name})
			}
		}

		if len(unfinished) == 0 {
			break
		}

		if len(ready) == 0 {
			debugLog("[executor] deadlock: %d unfinished steps, none ready: %v", len(unfinished), unfinished)
			return results, &DeadlockError{Blocked: unfinished}
		}

		wave++
		wavesTotal.Inc()
		debugLog("[executor] wave %d: executing %d ready steps", wave, len(ready))
		e.emit(Event{Type: EventWaveStarted, Wave: wave, Message: fmt.Sprintf("%d steps ready", len(ready))})

		// The status table is only written between waves; each goroutine
		// writes exactly its own result slot.
		waveResults := make([]*models.StepResult, len(ready))
		var wg sync.WaitGroup

		for i, step := range ready {
			status[step.ID] = models.StepStatusRunning
			e.emit(Event{Type: EventStepStarted, StepID: step.ID, StepName: step.Name, Capability: step.Capability, Wave: wave})

			wg.Add(1)
			go func(i int, step *models.PlanStep) {
				defer wg.Done()
				waveResults[i] = e.executeStep(ctx, task, step, caps[step.ID], resultByID)
			}(i, step)
		}

		wg.Wait()

		for i, res := range waveResults {
			step := ready[i]
			if res.Success {
				status[step.ID] = models.StepStatusCompleted
				e.emit(Event{Type: EventStepCompleted, StepID: step.ID, StepName: step.Name, Capability: step.Capability, Wave: wave, Message: res.Result})
			} else {
				status[step.ID] = models.StepStatusFailed
				debugLog("[executor] step %s failed: %s", step.ID, res.Error)
				e.emit(Event{Type: EventStepFailed, StepID: step.ID, StepName: step.Name, Capability: step.Capability, Wave: wave, Error: fmt.Errorf("%s", res.Error)})
			}
			resultByID[step.ID] = res
			results = append(results, res)
		}
	}

	return results, nil
}

// executeStep invokes one step's capability and records the outcome.
// It never returns an error; failures are captured in the result.
func (e *Executor) executeStep(ctx context.Context, task string, step *models.PlanStep, cap registry.Capability, resultByID map[string]*models.StepResult) *models.StepResult {
	if e.stepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.stepTimeout)
		defer cancel()
	}

	prompt := buildStepPrompt(task, step, resultByID)

	start := time.Now()
	text, err := cap.Complete(ctx, prompt, registry.CompleteOptions{})
	stepDuration.WithLabelValues(step.Capability).Observe(time.Since(start).Seconds())

	if err != nil {
		stepsTotal.WithLabelValues(step.Capability, "failed").Inc()
		return &models.StepResult{
			StepID:  step.ID,
			Success: false,
			Error:   err.Error(),
		}
	}

	stepsTotal.WithLabelValues(step.Capability, "completed").Inc()
	return &models.StepResult{
		StepID:  step.ID,
		Result:  text,
		Success: true,
	}
}

// buildStepPrompt renders the prompt for one step: the overall task, the
// step's own description, and the result text of each dependency.
func buildStepPrompt(task string, step *models.PlanStep, resultByID map[string]*models.StepResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Overall task:\n%s\n\n", task)
	fmt.Fprintf(&b, "Your step: %s\n%s\n", step.Name, step.Description)

	if len(step.Dependencies) > 0 {
		b.WriteString("\nOutput from completed dependency steps:\n")
		for _, dep := range step.Dependencies {
			if res, ok := resultByID[dep]; ok {
				fmt.Fprintf(&b, "\n[%s]\n%s\n", dep, res.Result)
			}
		}
	}

	b.WriteString("\nComplete your step and return its result as plain text.")
	return b.String()
}

func (e *Executor) emit(event Event) {
	if e.emitter == nil {
		return
	}
	event.RunID = e.runID
	e.emitter.Emit(event)
}
