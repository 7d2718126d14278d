package changeset

import (
	"sort"
	"strings"

	"nightlife/internal/model"
)

// FieldError explains why one change-set key was refused.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is the aggregate failure of a change set. It lists every bad key,
// not only the first one found.
type ValidationError struct {
	EntityType model.EntityType `json:"entity_type"`
	Errors     []FieldError     `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "invalid change set for " + strings.ToLower(string(e.EntityType)) + ": " + strings.Join(parts, "; ")
}

// Fields returns the names of the rejected keys.
func (e *ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		out = append(out, fe.Field)
	}
	return out
}

func (e *ValidationError) add(field, msg string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: msg})
}

func (e *ValidationError) orNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	sort.SliceStable(e.Errors, func(i, j int) bool { return e.Errors[i].Field < e.Errors[j].Field })
	return e
}
