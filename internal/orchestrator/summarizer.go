package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/ShayCichocki/tandem/internal/registry"
	"github.com/ShayCichocki/tandem/pkg/models"
)

// summaryPrompt is the template for folding a finished plan and its
// results into one answer. It takes the task, the rendered step list,
// and the rendered result list.
const summaryPrompt = `You coordinated a team of capabilities to work on a task. Synthesize their outputs into one final answer.

Task:
%s

Executed steps:
%s

Step results:
%s

Write the final answer to the task. Respond with the answer only, no preamble.`

// Summarizer folds a plan and its step results into one natural-language
// answer via a designated capability.
type Summarizer struct {
	capability registry.Capability
}

// NewSummarizer creates a Summarizer bound to the given capability.
func NewSummarizer(cap registry.Capability) *Summarizer {
	return &Summarizer{capability: cap}
}

// Summarize requests one free-form completion over the plan and all
// step results. Completion errors propagate to the caller; there is no
// retry.
func (s *Summarizer) Summarize(ctx context.Context, task string, plan *models.Plan, results []*models.StepResult) (string, error) {
	var steps strings.Builder
	for _, step := range plan.Steps {
		fmt.Fprintf(&steps, "- %s (%s, capability: %s): %s\n", step.ID, step.Name, step.Capability, step.Description)
	}
	if len(plan.Steps) == 0 {
		steps.WriteString("(no steps were executed)\n")
	}

	var rendered strings.Builder
	for _, res := range results {
		if res.Success {
			fmt.Fprintf(&rendered, "[%s]\n%s\n\n", res.StepID, res.Result)
		} else {
			fmt.Fprintf(&rendered, "[%s] FAILED: %s\n\n", res.StepID, res.Error)
		}
	}
	if len(results) == 0 {
		rendered.WriteString("(no results)\n")
	}

	prompt := fmt.Sprintf(summaryPrompt, task, steps.String(), rendered.String())

	return s.capability.Complete(ctx, prompt, registry.CompleteOptions{})
}
