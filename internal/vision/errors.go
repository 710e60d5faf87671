package vision

import (
	"fmt"
	"strings"
)

// StatusError reports a non-2xx HTTP response from the model API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("model api returned status %d: %s", e.StatusCode, Snippet(e.Body))
}

// ParseError reports model output that is not valid JSON.
type ParseError struct {
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("model response is not valid JSON (%v): %s", e.Err, e.Snippet)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports a syntactically valid JSON document that is missing
// required fields or carries out-of-range values.
type SchemaError struct {
	Fields []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("model response missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

// Snippet condenses raw model output for error and log messages: whitespace
// collapsed and truncated to a readable length.
func Snippet(raw string) string {
	condensed := strings.Join(strings.Fields(raw), " ")
	const max = 160
	if len(condensed) > max {
		return condensed[:max] + "..."
	}
	return condensed
}
