package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// UpstreamError reports a failure while talking to an external service.
// Its message carries the root cause, not our wrapping, and is meant to reach the API client as is.
type UpstreamError struct {
	Op  string // e.g. "fetch courses"; empty surfaces Err as is
	Err error
}

func NewUpstreamError(op string, err error) error {
	return &UpstreamError{Op: op, Err: err}
}

func (err UpstreamError) Error() string {
	cause := errors.Cause(err.Err)
	if err.Op == "" {
		return cause.Error()
	}
	return fmt.Sprintf("Failed to %s: %v", err.Op, cause)
}

func (err UpstreamError) Unwrap() error {
	return err.Err
}
