package participant

import (
	"errors"
	"strings"
)

// ErrValidation is the kind matched by errors.Is for every ValidationError.
var ErrValidation = errors.New("participant validation failed")

// FieldError names one field and the rule it broke.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func (e FieldError) String() string {
	switch e.Rule {
	case "required", "min":
		return e.Field + " is required"
	default:
		return e.Field + " failed " + e.Rule
	}
}

// ValidationError lists every invalid field of a participant payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, ", ")
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
