package service

import "errors"

var (
	ErrNotFound   = errors.New("error not found")
	ErrValidation = errors.New("error validation")
)

// ValidationError is input rejected before any request is made. Its message
// is meant for the visitor.
type ValidationError struct {
	Msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
