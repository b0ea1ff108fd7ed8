package usecase

import (
	"fmt"
	"strings"
)

// ValidationError is a single field-level validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every field failure of one request so the
// caller can report them as a single batch
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "; ")
}

// FieldMap groups the messages per field for the 400 response body
func (e ValidationErrors) FieldMap() map[string][]string {
	fields := make(map[string][]string, len(e))
	for _, v := range e {
		fields[v.Field] = append(fields[v.Field], v.Message)
	}
	return fields
}
