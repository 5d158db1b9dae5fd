package planner

import "strings"

// extractJSON pulls a single JSON object out of a free-text completion.
// It handles responses wrapped in markdown code fences as well as JSON
// preceded or followed by prose, by taking the span from the first '{'
// to the last '}'.
func extractJSON(response string) (string, error) {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
		if idx := strings.LastIndex(response, "```"); idx != -1 {
			response = response[:idx]
		}
		response = strings.TrimSpace(response)
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
		if idx := strings.LastIndex(response, "```"); idx != -1 {
			response = response[:idx]
		}
		response = strings.TrimSpace(response)
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		preview := response
		if len(preview) > 200 {
			preview = preview[:200] + "... (truncated)"
		}
		return "", &ParseError{Reason: "no JSON object found in response: " + preview}
	}

	return response[start : end+1], nil
}
