package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ShayCichocki/tandem/internal/registry"
	"github.com/ShayCichocki/tandem/pkg/models"
)

func TestSummarizePromptContents(t *testing.T) {
	var seenPrompt string
	cap := &stubCapability{
		name: "writer",
		complete: func(ctx context.Context, prompt string, opts registry.CompleteOptions) (string, error) {
			seenPrompt = prompt
			return "the summary", nil
		},
	}

	plan := &models.Plan{Steps: []*models.PlanStep{
		{ID: "step1", Name: "Research", Description: "Gather facts", Capability: "research"},
		{ID: "step2", Name: "Write", Description: "Write it up", Capability: "write"},
	}}
	results := []*models.StepResult{
		{StepID: "step1", Result: "facts found", Success: true},
		{StepID: "step2", Error: "ran out of tokens", Success: false},
	}

	s := NewSummarizer(cap)
	answer, err := s.Summarize(context.Background(), "write a report", plan, results)
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if answer != "the summary" {
		t.Errorf("expected capability output, got %q", answer)
	}

	if !strings.Contains(seenPrompt, "write a report") {
		t.Error("prompt should contain the task")
	}
	if !strings.Contains(seenPrompt, "step1 (Research, capability: research)") {
		t.Errorf("prompt should describe each step: %q", seenPrompt)
	}
	if !strings.Contains(seenPrompt, "facts found") {
		t.Error("prompt should contain successful results")
	}
	if !strings.Contains(seenPrompt, "[step2] FAILED: ran out of tokens") {
		t.Error("prompt should mark failed steps")
	}
}

func TestSummarizeEmptyPlan(t *testing.T) {
	var seenPrompt string
	cap := &stubCapability{
		name: "writer",
		complete: func(ctx context.Context, prompt string, opts registry.CompleteOptions) (string, error) {
			seenPrompt = prompt
			return "nothing happened", nil
		},
	}

	s := NewSummarizer(cap)
	if _, err := s.Summarize(context.Background(), "task", &models.Plan{}, nil); err != nil {
		t.Fatalf("summarize failed: %v", err)
	}

	if !strings.Contains(seenPrompt, "(no steps were executed)") {
		t.Error("prompt should note the empty step list")
	}
	if !strings.Contains(seenPrompt, "(no results)") {
		t.Error("prompt should note the empty result list")
	}
}

func TestSummarizeErrorPropagates(t *testing.T) {
	wantErr := errors.New("rate limited")
	cap := &stubCapability{
		name: "writer",
		complete: func(ctx context.Context, prompt string, opts registry.CompleteOptions) (string, error) {
			return "", wantErr
		},
	}

	s := NewSummarizer(cap)
	_, err := s.Summarize(context.Background(), "task", &models.Plan{}, nil)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected completion error to propagate, got %v", err)
	}
}
