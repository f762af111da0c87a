// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrSummaryUnavailable = errors.New("market summary unavailable")
	ErrSuperseded         = errors.New("superseded by a newer request")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrRateLimited        = errors.New("rate limited")
)

// InputReason describes why a field was rejected.
type InputReason string

const (
	ReasonUnparseable  InputReason = "unparseable"
	ReasonOutOfRange   InputReason = "out_of_range"
	ReasonUnknownValue InputReason = "unknown_value"
)

// InvalidInputError reports a single rejected analysis field.
type InvalidInputError struct {
	Field   string
	Value   interface{}
	Reason  InputReason
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s (%v): %s", e.Field, e.Value, e.Message)
}

// Is lets errors.Is match ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewInvalidInputError creates a new InvalidInputError.
func NewInvalidInputError(field string, value interface{}, reason InputReason, message string) *InvalidInputError {
	return &InvalidInputError{
		Field:   field,
		Value:   value,
		Reason:  reason,
		Message: message,
	}
}

// SummaryError represents a failure of the market summary collaborator.
type SummaryError struct {
	Provider  string
	Operation string
	Err       error
}

func (e *SummaryError) Error() string {
	return fmt.Sprintf("summary error [%s] %s: %v", e.Provider, e.Operation, e.Err)
}

func (e *SummaryError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrSummaryUnavailable.
func (e *SummaryError) Is(target error) bool {
	return target == ErrSummaryUnavailable
}

// NewSummaryError creates a new SummaryError.
func NewSummaryError(provider, operation string, err error) *SummaryError {
	return &SummaryError{
		Provider:  provider,
		Operation: operation,
		Err:       err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
