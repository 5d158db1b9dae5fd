package planner

import (
	_ "embed"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/plan.schema.json
var planSchemaJSON string

//go:embed schemas/nextstep.schema.json
var nextStepSchemaJSON string

var (
	planSchema     = jsonschema.MustCompileString("plan.schema.json", planSchemaJSON)
	nextStepSchema = jsonschema.MustCompileString("nextstep.schema.json", nextStepSchemaJSON)
)

// validateAgainstSchema checks the raw JSON document against the given
// compiled schema before unmarshaling into typed structs. Schema
// violations are parse failures, not plan validation failures.
func validateAgainstSchema(schema *jsonschema.Schema, raw string) error {
	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return &ParseError{Reason: "invalid JSON", Err: err}
	}
	if err := schema.Validate(doc); err != nil {
		return &ParseError{Reason: "response does not match expected schema", Err: err}
	}
	return nil
}
