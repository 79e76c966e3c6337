// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrCacheCorrupted signals an advice cache invariant violation. It is a bug, never retried.
	ErrCacheCorrupted = errors.New("advice cache corrupted")

	// ErrEmptyCompletion is returned when the model answers with no text.
	ErrEmptyCompletion = errors.New("model returned an empty completion")
)

// DataError reports that financial records could not be read or failed shape checks.
type DataError struct {
	Err        error
	Collection string
}

func (e *DataError) Error() string {
	if e.Collection != "" {
		return fmt.Sprintf("financial data unavailable (%s): %v", e.Collection, e.Err)
	}
	return fmt.Sprintf("financial data unavailable: %v", e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// ValidationError reports a prompt that cannot be sent to the model.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid prompt input %s: %s", e.Field, e.Reason)
	}
	return "invalid prompt input: " + e.Reason
}

// ModelError reports a failed call to the external advice model.
type ModelError struct {
	Err      error
	Provider string
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%s model request failed: %v", e.Provider, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
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

// IsRetryable reports whether WithRetry tries again after err. An explicit
// RetryableError classification wins. Cancellation never retries; anything
// unclassified, such as a transport failure, does.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return !errors.Is(err, context.Canceled)
}
