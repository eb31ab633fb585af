// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Transport errors.
	ErrMissingFigure   = errors.New("response has no figure")
	ErrMalformedBody   = errors.New("malformed response body")
	ErrMalformedFigure = errors.New("figure is not valid JSON")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// TransportError is returned when the chart service answers with a non-2xx status.
type TransportError struct {
	Status     string
	Detail     string
	StatusCode int
}

func (e *TransportError) Error() string {
	return e.Status
}

// ApplicationError is returned when the service answers 2xx but reports a failed operation.
type ApplicationError struct {
	Endpoint string
	Status   string
	Message  string
}

func (e *ApplicationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s failed (status %q): %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("%s failed (status %q)", e.Endpoint, e.Status)
}

// ValidationError is a local input failure. It never reaches the network.
type ValidationError struct {
	Rule    error
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Rule
}

// NewValidationError creates a validation error for the violated rule.
func NewValidationError(rule error, message string) error {
	return &ValidationError{
		Rule:    rule,
		Message: message,
	}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
