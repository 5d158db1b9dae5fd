package planner

import (
	"errors"
	"testing"
)

const validPlanJSON = `{
  "steps": [
    {"id": "step1", "name": "Research", "description": "Gather facts", "capability": "research"},
    {"id": "step2", "name": "Write", "description": "Write it up", "capability": "write", "dependencies": ["step1"]}
  ]
}`

func TestParsePlanRawJSON(t *testing.T) {
	plan, err := ParsePlan(validPlanJSON)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(plan.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(plan.Steps))
	}
	if plan.Steps[0].ID != "step1" {
		t.Errorf("expected step1, got %q", plan.Steps[0].ID)
	}
	if len(plan.Steps[1].Dependencies) != 1 || plan.Steps[1].Dependencies[0] != "step1" {
		t.Errorf("unexpected dependencies: %v", plan.Steps[1].Dependencies)
	}
}

func TestParsePlanFencedJSON(t *testing.T) {
	fenced := "```json\n" + validPlanJSON + "\n```"
	plan, err := ParsePlan(fenced)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(plan.Steps) != 2 {
		t.Errorf("expected 2 steps, got %d", len(plan.Steps))
	}
}

func TestParsePlanBareFence(t *testing.T) {
	fenced := "```\n" + validPlanJSON + "\n```"
	plan, err := ParsePlan(fenced)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(plan.Steps) != 2 {
		t.Errorf("expected 2 steps, got %d", len(plan.Steps))
	}
}

func TestParsePlanSurroundingProse(t *testing.T) {
	wrapped := "Here is the plan you asked for:\n" + validPlanJSON + "\nLet me know if you need changes."
	plan, err := ParsePlan(wrapped)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(plan.Steps) != 2 {
		t.Errorf("expected 2 steps, got %d", len(plan.Steps))
	}
}

func TestParsePlanNoJSON(t *testing.T) {
	_, err := ParsePlan("I could not come up with a plan, sorry.")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
}

func TestParsePlanMalformedJSON(t *testing.T) {
	_, err := ParsePlan(`{"steps": [{"id": "a", "name": }`)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
}

func TestParsePlanSchemaViolation(t *testing.T) {
	// Steps missing the required capability field.
	_, err := ParsePlan(`{"steps": [{"id": "a", "name": "A"}]}`)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
}

func TestParsePlanEmptySteps(t *testing.T) {
	_, err := ParsePlan(`{"steps": []}`)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
}

func TestParseNextStepComplete(t *testing.T) {
	next, err := ParseNextStep(`{"description": "all done", "tasks": [], "is_complete": true}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !next.IsComplete {
		t.Error("expected is_complete true")
	}
}

func TestParseNextStepTask(t *testing.T) {
	next, err := ParseNextStep("```json\n" +
		`{"description": "research first", "tasks": [{"description": "find facts", "capability": "research"}], "is_complete": false}` +
		"\n```")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if next.IsComplete {
		t.Error("expected is_complete false")
	}
	first := next.First()
	if first == nil || first.Capability != "research" {
		t.Errorf("unexpected first task: %+v", first)
	}
}

func TestParseNextStepMissingIsComplete(t *testing.T) {
	_, err := ParseNextStep(`{"description": "something", "tasks": []}`)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
}
