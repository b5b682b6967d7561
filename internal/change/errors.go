package change

import (
	"errors"
	"fmt"
)

// ErrInvalidField matches any InvalidFieldError via errors.Is.
var ErrInvalidField = errors.New("invalid field")

// InvalidFieldError reports a change-set key that is not a client field.
type InvalidFieldError struct {
	Field string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %q: must be one of %v", e.Field, fieldNames())
}

// Is reports whether target is ErrInvalidField.
func (e *InvalidFieldError) Is(target error) bool {
	return target == ErrInvalidField
}

// TypeError reports a known field given a value of the wrong shape.
type TypeError struct {
	Field Field
	Value any
	Want  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("field %q: expected %s, got %T", e.Field, e.Want, e.Value)
}
