package planner

import "fmt"

// ParseError indicates the planning capability's response could not be
// turned into well-formed structured data (no JSON found, invalid JSON,
// or JSON that does not match the expected schema).
type ParseError struct {
	// Reason describes what went wrong.
	Reason string
	// Err is the underlying error, if any.
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse planner response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse planner response: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError indicates a well-formed plan that is internally
// inconsistent: it names a capability that is not registered, or a
// dependency id that does not exist in the plan.
type ValidationError struct {
	// StepID is the offending step, if known.
	StepID string
	// Reason describes the inconsistency.
	Reason string
}

func (e *ValidationError) Error() string {
	if e.StepID != "" {
		return fmt.Sprintf("invalid plan: step %s: %s", e.StepID, e.Reason)
	}
	return fmt.Sprintf("invalid plan: %s", e.Reason)
}
