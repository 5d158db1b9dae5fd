package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ShayCichocki/tandem/internal/registry"
	"github.com/ShayCichocki/tandem/pkg/models"
)

func TestNextStepComplete(t *testing.T) {
	reg := newTestRegistry(t, `{"description": "done", "tasks": [], "is_complete": true}`)
	p, _ := New(reg, Config{Capability: "research"})

	next, err := p.NextStep(context.Background(), "task", &models.Plan{}, nil)
	if err != nil {
		t.Fatalf("next step failed: %v", err)
	}
	if !next.IsComplete {
		t.Error("expected completion signal")
	}
}

func TestNextStepReturnsTask(t *testing.T) {
	response := `{"description": "start with research",
		"tasks": [
			{"description": "find facts", "capability": "research"},
			{"description": "extra proposal", "capability": "write"}
		],
		"is_complete": false}`
	reg := newTestRegistry(t, response)
	p, _ := New(reg, Config{Capability: "research"})

	next, err := p.NextStep(context.Background(), "task", &models.Plan{}, nil)
	if err != nil {
		t.Fatalf("next step failed: %v", err)
	}
	if next.IsComplete {
		t.Error("expected is_complete false")
	}

	first := next.First()
	if first == nil {
		t.Fatal("expected a first task")
	}
	if first.Description != "find facts" || first.Capability != "research" {
		t.Errorf("unexpected first task: %+v", first)
	}
}

func TestNextStepNoTasksNotComplete(t *testing.T) {
	reg := newTestRegistry(t, `{"description": "hmm", "tasks": [], "is_complete": false}`)
	p, _ := New(reg, Config{Capability: "research"})

	_, err := p.NextStep(context.Background(), "task", &models.Plan{}, nil)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
}

func TestNextStepUnknownCapability(t *testing.T) {
	response := `{"description": "next",
		"tasks": [{"description": "do it", "capability": "ghost"}],
		"is_complete": false}`
	reg := newTestRegistry(t, response)
	p, _ := New(reg, Config{Capability: "research"})

	_, err := p.NextStep(context.Background(), "task", &models.Plan{}, nil)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestNextStepPromptIncludesProgress(t *testing.T) {
	var seenPrompt string
	reg := registry.New()
	reg.Register(&stubCapability{
		name:        "research",
		description: "finds facts",
		complete: func(ctx context.Context, prompt string, opts registry.CompleteOptions) (string, error) {
			seenPrompt = prompt
			return `{"description": "done", "tasks": [], "is_complete": true}`, nil
		},
	})

	p, _ := New(reg, Config{Capability: "research"})
	plan := &models.Plan{
		Steps: []*models.PlanStep{{ID: "step1", Description: "gather facts"}},
	}
	results := []*models.StepResult{
		{StepID: "step1", Result: "the facts", Success: true},
	}

	if _, err := p.NextStep(context.Background(), "my task", plan, results); err != nil {
		t.Fatalf("next step failed: %v", err)
	}

	if !strings.Contains(seenPrompt, "my task") {
		t.Error("prompt should contain the task")
	}
	if !strings.Contains(seenPrompt, "the facts") {
		t.Error("prompt should contain prior step results")
	}
}

func TestNextStepProviderError(t *testing.T) {
	wantErr := errors.New("connection reset")
	reg := registry.New()
	reg.Register(&stubCapability{
		name: "research",
		complete: func(ctx context.Context, prompt string, opts registry.CompleteOptions) (string, error) {
			return "", wantErr
		},
	})

	p, _ := New(reg, Config{Capability: "research"})
	_, err := p.NextStep(context.Background(), "task", &models.Plan{}, nil)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected provider error to propagate, got %v", err)
	}
}
