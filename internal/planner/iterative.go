package planner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ShayCichocki/tandem/internal/registry"
	"github.com/ShayCichocki/tandem/pkg/models"
)

// NextStep asks the planning capability for the single next step toward
// completing the task, given all prior step results. When the returned
// NextStep has IsComplete set, no step should be executed for this call.
//
// Only the first proposed task is validated and honored; iterative plans
// are strictly linear.
func (p *Planner) NextStep(ctx context.Context, task string, plan *models.Plan, results []*models.StepResult) (*models.NextStep, error) {
	prompt := fmt.Sprintf(nextStepPrompt, task, p.registry.CapabilityList(), FormatProgress(plan, results))

	response, err := p.capability.Complete(ctx, prompt, registry.CompleteOptions{
		Temperature: p.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("planning call: %w", err)
	}

	next, err := ParseNextStep(response)
	if err != nil {
		return nil, err
	}

	if next.IsComplete {
		return next, nil
	}

	first := next.First()
	if first == nil {
		return nil, &ParseError{Reason: "next step has no tasks and is not complete"}
	}
	if !p.registry.Has(first.Capability) {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("unknown capability %q", first.Capability),
		}
	}

	return next, nil
}

// ParseNextStep extracts and parses a NextStep from a completion
// response, using the same JSON extraction rules as ParsePlan.
func ParseNextStep(response string) (*models.NextStep, error) {
	raw, err := extractJSON(response)
	if err != nil {
		return nil, err
	}

	if err := validateAgainstSchema(nextStepSchema, raw); err != nil {
		return nil, err
	}

	var next models.NextStep
	if err := json.Unmarshal([]byte(raw), &next); err != nil {
		return nil, &ParseError{Reason: "unmarshal next step", Err: err}
	}

	return &next, nil
}
