// Package planner turns a natural-language task into an executable plan
// by prompting a designated planning capability and parsing its
// structured response.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ShayCichocki/tandem/internal/registry"
	"github.com/ShayCichocki/tandem/pkg/models"
)

// defaultTemperature favors deterministic planner output.
const defaultTemperature = 0.2

// Config contains configuration for a Planner.
type Config struct {
	// Capability is the name of the registered capability used for
	// planning calls.
	Capability string
	// Temperature is the sampling temperature for planning calls.
	// Zero means the default (0.2).
	Temperature float64
}

// Planner generates plans, either in one shot or one step at a time.
type Planner struct {
	registry    *registry.Registry
	capability  registry.Capability
	temperature float64
}

// New creates a Planner. The planning capability is resolved once here,
// not per call.
func New(reg *registry.Registry, cfg Config) (*Planner, error) {
	cap, err := reg.Resolve(cfg.Capability)
	if err != nil {
		return nil, fmt.Errorf("resolve planning capability: %w", err)
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}

	return &Planner{
		registry:    reg,
		capability:  cap,
		temperature: temperature,
	}, nil
}

// GeneratePlan produces a complete plan for the task in one planning
// call. The returned plan is fully validated: every step's capability is
// registered and every dependency id exists in the plan. No step has
// been executed when an error is returned.
func (p *Planner) GeneratePlan(ctx context.Context, task string) (*models.Plan, error) {
	prompt := fmt.Sprintf(fullPlanPrompt, task, p.registry.CapabilityList())

	response, err := p.capability.Complete(ctx, prompt, registry.CompleteOptions{
		Temperature: p.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("planning call: %w", err)
	}

	plan, err := ParsePlan(response)
	if err != nil {
		return nil, err
	}

	if err := p.validatePlan(plan); err != nil {
		return nil, err
	}

	return plan, nil
}

// ParsePlan extracts and parses a plan from a completion response.
// Raw JSON, fenced-block JSON, and JSON surrounded by prose all parse
// to the same plan.
func ParsePlan(response string) (*models.Plan, error) {
	raw, err := extractJSON(response)
	if err != nil {
		return nil, err
	}

	if err := validateAgainstSchema(planSchema, raw); err != nil {
		return nil, err
	}

	var plan models.Plan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, &ParseError{Reason: "unmarshal plan", Err: err}
	}

	if len(plan.Steps) == 0 {
		return nil, &ParseError{Reason: "plan contains no steps"}
	}

	return &plan, nil
}

// validatePlan checks capability names against the registry and
// dependency ids against the plan's own steps.
func (p *Planner) validatePlan(plan *models.Plan) error {
	ids := make(map[string]bool, len(plan.Steps))
	for _, step := range plan.Steps {
		if ids[step.ID] {
			return &ValidationError{StepID: step.ID, Reason: "duplicate step id"}
		}
		ids[step.ID] = true
	}

	for _, step := range plan.Steps {
		if !p.registry.Has(step.Capability) {
			return &ValidationError{
				StepID: step.ID,
				Reason: fmt.Sprintf("unknown capability %q", step.Capability),
			}
		}
		for _, dep := range step.Dependencies {
			if !ids[dep] {
				return &ValidationError{
					StepID: step.ID,
					Reason: fmt.Sprintf("unknown dependency id %q", dep),
				}
			}
		}
	}

	return nil
}

// FormatProgress renders prior step results into the progress block used
// by iterative planning prompts.
func FormatProgress(plan *models.Plan, results []*models.StepResult) string {
	if len(results) == 0 {
		return "(no steps executed yet)"
	}

	var b strings.Builder
	for _, res := range results {
		description := ""
		if plan != nil {
			if step := plan.Step(res.StepID); step != nil {
				description = step.Description
			}
		}

		status := models.StepStatusCompleted
		if !res.Success {
			status = models.StepStatusFailed
		}

		fmt.Fprintf(&b, "[%s] %s (%s)\n", res.StepID, description, status)
		if res.Success {
			fmt.Fprintf(&b, "  result: %s\n", res.Result)
		} else {
			fmt.Fprintf(&b, "  error: %s\n", res.Error)
		}
	}
	return b.String()
}
