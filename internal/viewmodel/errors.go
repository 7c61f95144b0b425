package viewmodel

import (
	"errors"
	"fmt"
)

// ErrMissingMandatoryField is wrapped by MissingFieldError.
var ErrMissingMandatoryField = errors.New("viewmodel: missing mandatory field")

// MissingFieldError reports an absent or empty identity field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("viewmodel: missing mandatory field %q", e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingMandatoryField
}

// Issue describes an optional section that was dropped or partially used
// because its shape did not match what the shaper expects.
type Issue struct {
	Section string
	Reason  string
}

func (i Issue) String() string {
	return i.Section + ": " + i.Reason
}
