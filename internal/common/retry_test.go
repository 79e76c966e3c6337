package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-spice-must-advise/internal/service"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry(t *testing.T) {
	errTransient := errors.New("transient")

	tests := []struct {
		wantIs    error
		failures  []error
		name      string
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{
			name:      "succeeds first time",
			attempts:  3,
			wantCalls: 1,
		},
		{
			name:      "succeeds after transient failures",
			failures:  []error{errTransient, errTransient},
			attempts:  3,
			wantCalls: 3,
		},
		{
			name:      "gives up after max attempts",
			failures:  []error{errTransient, errTransient, errTransient},
			attempts:  3,
			wantCalls: 3,
			wantErr:   true,
			wantIs:    ErrMaxRetries,
		},
		{
			name:      "keeps the last error in the chain",
			failures:  []error{errTransient, errTransient},
			attempts:  2,
			wantCalls: 2,
			wantErr:   true,
			wantIs:    errTransient,
		},
		{
			name:      "stops on non-retryable error",
			failures:  []error{&RetryableError{Err: errTransient, Retryable: false}},
			attempts:  3,
			wantCalls: 1,
			wantErr:   true,
			wantIs:    errTransient,
		},
		{
			name:      "stops on cancellation from the operation",
			failures:  []error{fmt.Errorf("request: %w", context.Canceled)},
			attempts:  3,
			wantCalls: 1,
			wantErr:   true,
			wantIs:    context.Canceled,
		},
		{
			name:      "retries rate limits",
			failures:  []error{&RetryableError{Err: fmt.Errorf("429: %w", ErrRateLimit), Retryable: true}},
			attempts:  3,
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			}, fastRetry(tt.attempts))

			assert.Equal(t, tt.wantCalls, calls)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantIs)
		})
	}
}

func TestWithRetryContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := WithRetry(ctx, func() error {
		calls++
		cancel()
		return errors.New("boom")
	}, service.RetryOptions{MaxAttempts: 5, InitialDelay: time.Second, MaxDelay: time.Second})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestWithRetryDefaults(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return &RetryableError{Err: errors.New("bad request"), Retryable: false}
	}, service.RetryOptions{})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
