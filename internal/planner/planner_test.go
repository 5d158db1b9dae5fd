package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ShayCichocki/tandem/internal/registry"
	"github.com/ShayCichocki/tandem/pkg/models"
)

type stubCapability struct {
	name        string
	description string
	complete    func(ctx context.Context, prompt string, opts registry.CompleteOptions) (string, error)
}

func (s *stubCapability) Name() string        { return s.name }
func (s *stubCapability) Description() string { return s.description }

func (s *stubCapability) Complete(ctx context.Context, prompt string, opts registry.CompleteOptions) (string, error) {
	if s.complete != nil {
		return s.complete(ctx, prompt, opts)
	}
	return "", nil
}

// newTestRegistry registers research and write capabilities, with
// research doubling as the planner. The planner capability replies with
// the given canned response.
func newTestRegistry(t *testing.T, response string) *registry.Registry {
	t.Helper()
	reg := registry.New()
	reg.Register(&stubCapability{
		name:        "research",
		description: "finds facts",
		complete: func(ctx context.Context, prompt string, opts registry.CompleteOptions) (string, error) {
			return response, nil
		},
	})
	reg.Register(&stubCapability{name: "write", description: "writes prose"})
	return reg
}

func TestNewUnknownCapability(t *testing.T) {
	reg := registry.New()
	_, err := New(reg, Config{Capability: "ghost"})
	if err == nil {
		t.Fatal("expected error for unknown planning capability")
	}
}

func TestGeneratePlan(t *testing.T) {
	reg := newTestRegistry(t, validPlanJSON)
	p, err := New(reg, Config{Capability: "research"})
	if err != nil {
		t.Fatalf("new planner: %v", err)
	}

	plan, err := p.GeneratePlan(context.Background(), "write a report")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(plan.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(plan.Steps))
	}
	if err := plan.ValidateDependencies(); err != nil {
		t.Errorf("plan has invalid dependencies: %v", err)
	}
}

func TestGeneratePlanPromptContainsCapabilities(t *testing.T) {
	var seenPrompt string
	reg := registry.New()
	reg.Register(&stubCapability{
		name:        "research",
		description: "finds facts",
		complete: func(ctx context.Context, prompt string, opts registry.CompleteOptions) (string, error) {
			seenPrompt = prompt
			return validPlanJSON, nil
		},
	})
	reg.Register(&stubCapability{name: "write", description: "writes prose"})

	p, err := New(reg, Config{Capability: "research"})
	if err != nil {
		t.Fatalf("new planner: %v", err)
	}
	if _, err := p.GeneratePlan(context.Background(), "write a report"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if !strings.Contains(seenPrompt, "write a report") {
		t.Error("prompt should contain the task")
	}
	if !strings.Contains(seenPrompt, "- research: finds facts") {
		t.Error("prompt should list registered capabilities")
	}
	if !strings.Contains(seenPrompt, "- write: writes prose") {
		t.Error("prompt should list all capabilities")
	}
}

func TestGeneratePlanUnknownStepCapability(t *testing.T) {
	response := `{"steps": [{"id": "a", "name": "A", "capability": "ghost"}]}`
	reg := newTestRegistry(t, response)
	p, _ := New(reg, Config{Capability: "research"})

	_, err := p.GeneratePlan(context.Background(), "task")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if validationErr.StepID != "a" {
		t.Errorf("expected step a, got %q", validationErr.StepID)
	}
}

func TestGeneratePlanUnknownDependency(t *testing.T) {
	response := `{"steps": [{"id": "a", "name": "A", "capability": "research", "dependencies": ["ghost"]}]}`
	reg := newTestRegistry(t, response)
	p, _ := New(reg, Config{Capability: "research"})

	_, err := p.GeneratePlan(context.Background(), "task")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestGeneratePlanDuplicateStepID(t *testing.T) {
	response := `{"steps": [
		{"id": "a", "name": "A", "capability": "research"},
		{"id": "a", "name": "B", "capability": "write"}
	]}`
	reg := newTestRegistry(t, response)
	p, _ := New(reg, Config{Capability: "research"})

	_, err := p.GeneratePlan(context.Background(), "task")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestGeneratePlanProviderError(t *testing.T) {
	wantErr := errors.New("api unavailable")
	reg := registry.New()
	reg.Register(&stubCapability{
		name: "research",
		complete: func(ctx context.Context, prompt string, opts registry.CompleteOptions) (string, error) {
			return "", wantErr
		},
	})

	p, _ := New(reg, Config{Capability: "research"})
	_, err := p.GeneratePlan(context.Background(), "task")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected provider error to propagate, got %v", err)
	}
}

func TestFormatProgress(t *testing.T) {
	plan := &models.Plan{
		Steps: []*models.PlanStep{
			{ID: "step1", Description: "gather facts"},
			{ID: "step2", Description: "write it up"},
		},
	}
	results := []*models.StepResult{
		{StepID: "step1", Result: "the facts", Success: true},
		{StepID: "step2", Error: "timed out", Success: false},
	}

	progress := FormatProgress(plan, results)
	if !strings.Contains(progress, "[step1] gather facts (completed)") {
		t.Errorf("missing completed line: %q", progress)
	}
	if !strings.Contains(progress, "result: the facts") {
		t.Errorf("missing result line: %q", progress)
	}
	if !strings.Contains(progress, "[step2] write it up (failed)") {
		t.Errorf("missing failed line: %q", progress)
	}
	if !strings.Contains(progress, "error: timed out") {
		t.Errorf("missing error line: %q", progress)
	}
}

func TestFormatProgressEmpty(t *testing.T) {
	progress := FormatProgress(&models.Plan{}, nil)
	if progress != "(no steps executed yet)" {
		t.Errorf("unexpected empty progress: %q", progress)
	}
}
