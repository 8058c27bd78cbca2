package tryit

import (
	"errors"
	"strings"
)

var (
	ErrMissingRequired = errors.New("missing required input")
	ErrInvalidBody     = errors.New("invalid JSON in request body")
)

// InputError lists every required input left blank.
type InputError struct {
	Fields []string
}

func (e *InputError) Error() string {
	return ErrMissingRequired.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *InputError) Is(target error) bool {
	return target == ErrMissingRequired
}
