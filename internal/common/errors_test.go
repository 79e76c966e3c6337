package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "rate limit", err: fmt.Errorf("provider: %w", ErrRateLimit), want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "retryable wrapper", err: &RetryableError{Err: errors.New("503"), Retryable: true}, want: true},
		{name: "non-retryable wrapper", err: &RetryableError{Err: errors.New("400"), Retryable: false}, want: false},
		{name: "unclassified error", err: errors.New("connection reset"), want: true},
		{name: "canceled", err: fmt.Errorf("read: %w", context.Canceled), want: false},
		{name: "classification wins over cause", err: &RetryableError{Err: context.Canceled, Retryable: true}, want: true},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestTypedErrors(t *testing.T) {
	cause := errors.New("disk I/O error")

	dataErr := &DataError{Err: cause, Collection: "assets"}
	assert.Equal(t, "financial data unavailable (assets): disk I/O error", dataErr.Error())
	assert.ErrorIs(t, dataErr, cause)
	assert.Equal(t, "financial data unavailable: disk I/O error", (&DataError{Err: cause}).Error())

	valErr := &ValidationError{Field: "snapshot", Reason: "is nil"}
	assert.Equal(t, "invalid prompt input snapshot: is nil", valErr.Error())
	assert.Equal(t, "invalid prompt input: too long", (&ValidationError{Reason: "too long"}).Error())

	modelErr := &ModelError{Err: ErrEmptyCompletion, Provider: "anthropic"}
	assert.ErrorIs(t, modelErr, ErrEmptyCompletion)
	assert.Contains(t, modelErr.Error(), "anthropic model request failed")

	var target *ModelError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", modelErr), &target))
	assert.Equal(t, "anthropic", target.Provider)
}

func TestUserError(t *testing.T) {
	cause := errors.New("no such file")
	err := NewUserError("Import failed", cause)

	assert.Equal(t, "Import failed: no such file", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Import failed", NewUserError("Import failed", nil).Error())
}
