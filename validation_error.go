package formguard

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/dmitrymomot/formguard/pkg/validation"
)

// ValidationError maps field names to their failure messages.
// It's based on url.Values to reuse its string slice handling.
type ValidationError url.Values

// Error lists the first message of every field, sorted by field name.
func (e ValidationError) Error() string {
	if len(e) == 0 {
		return "Validation failed"
	}

	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		if messages := e[field]; len(messages) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", field, messages[0]))
		}
	}
	return fmt.Sprintf("validation error: %s", strings.Join(parts, ", "))
}

// NewValidationError creates an empty validation error.
func NewValidationError() ValidationError {
	return make(ValidationError)
}

// FromSubmission collects the failed fields of a submission. A field without
// a message, such as one missing from the form, is reported by its status.
// Returns nil when the submission has no failed fields.
func FromSubmission(sub *validation.Submission) ValidationError {
	if sub == nil {
		return nil
	}
	failed := sub.Failed()
	if len(failed) == 0 {
		return nil
	}
	e := NewValidationError()
	for _, res := range failed {
		msg := res.Message
		if msg == "" {
			msg = string(res.Status)
		}
		e.Add(res.Field, msg)
	}
	return e
}

// Add appends a message for a field.
func (e ValidationError) Add(field, message string) {
	url.Values(e).Add(field, message)
}

// Get returns the first message for a field.
func (e ValidationError) Get(field string) string {
	return url.Values(e).Get(field)
}

// Has reports whether a field has any messages.
func (e ValidationError) Has(field string) bool {
	return len(e[field]) > 0
}

// IsEmpty reports whether there are no messages at all.
func (e ValidationError) IsEmpty() bool {
	return len(e) == 0
}
