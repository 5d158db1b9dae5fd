package models

import "fmt"

// StepStatus represents the current state of a plan step.
type StepStatus string

const (
	// StepStatusPending indicates the step has not started and no unmet
	// dependencies have been observed for it yet.
	StepStatusPending StepStatus = "pending"
	// StepStatusBlocked indicates at least one dependency has not completed.
	StepStatusBlocked StepStatus = "blocked"
	// StepStatusRunning indicates the step is executing.
	StepStatusRunning StepStatus = "running"
	// StepStatusCompleted indicates the step finished successfully.
	StepStatusCompleted StepStatus = "completed"
	// StepStatusFailed indicates the step finished with an error.
	StepStatusFailed StepStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s StepStatus) Valid() bool {
	switch s {
	case StepStatusPending, StepStatusBlocked, StepStatusRunning, StepStatusCompleted, StepStatusFailed:
		return true
	default:
		return false
	}
}

// Terminal returns true if the status is a final state.
func (s StepStatus) Terminal() bool {
	return s == StepStatusCompleted || s == StepStatusFailed
}

// PlanStep is one unit of work in a plan.
type PlanStep struct {
	// ID is the unique identifier for this step within its plan.
	ID string `json:"id"`
	// Name is the short human-readable name of the step.
	Name string `json:"name"`
	// Description provides detailed information about the step.
	Description string `json:"description,omitempty"`
	// Capability names the registered capability that must run this step.
	Capability string `json:"capability"`
	// Dependencies lists step IDs that must complete before this step.
	Dependencies []string `json:"dependencies,omitempty"`
}

// Plan is an ordered collection of steps forming a dependency graph.
type Plan struct {
	// Steps is the ordered list of plan steps.
	Steps []*PlanStep `json:"steps"`
	// IsComplete signals, in iterative mode, that no more steps are needed.
	IsComplete bool `json:"is_complete,omitempty"`
}

// Step returns the step with the given ID, or nil if not present.
func (p *Plan) Step(id string) *PlanStep {
	for _, s := range p.Steps {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// StepIDs returns the IDs of all steps in plan order.
func (p *Plan) StepIDs() []string {
	ids := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		ids[i] = s.ID
	}
	return ids
}

// ValidateDependencies checks that every dependency references a step
// in the same plan. It returns the first dangling reference found.
func (p *Plan) ValidateDependencies() error {
	known := make(map[string]bool, len(p.Steps))
	for _, s := range p.Steps {
		if known[s.ID] {
			return fmt.Errorf("duplicate step id %q", s.ID)
		}
		known[s.ID] = true
	}
	for _, s := range p.Steps {
		for _, dep := range s.Dependencies {
			if !known[dep] {
				return fmt.Errorf("step %s depends on unknown step %s", s.ID, dep)
			}
		}
	}
	return nil
}

// StepResult is the outcome of one executed step. It is written exactly
// once by the executor and read-only afterwards.
type StepResult struct {
	// StepID is the ID of the step this result belongs to.
	StepID string `json:"step_id"`
	// Result is the text produced by the step's capability.
	Result string `json:"result"`
	// Success indicates whether the step completed without error.
	Success bool `json:"success"`
	// Error contains the failure message if Success is false.
	Error string `json:"error,omitempty"`
}

// NextStepTask is a single task proposal inside a NextStep response.
type NextStepTask struct {
	// Description is what the task should accomplish.
	Description string `json:"description"`
	// Capability names the capability that should run the task.
	Capability string `json:"capability"`
}

// NextStep is the unit returned by one iterative planning call.
//
// Only the first entry of Tasks is acted upon; iterative planning is
// strictly linear, one step per call. Additional entries are ignored.
type NextStep struct {
	// Description summarizes the planner's reasoning for this step.
	Description string `json:"description"`
	// Tasks lists proposed tasks. Only Tasks[0] is executed.
	Tasks []NextStepTask `json:"tasks"`
	// IsComplete signals that the overall task is finished and no step
	// should be executed for this call.
	IsComplete bool `json:"is_complete"`
}

// First returns the first task, or nil if the planner proposed none.
func (n *NextStep) First() *NextStepTask {
	if len(n.Tasks) == 0 {
		return nil
	}
	return &n.Tasks[0]
}
