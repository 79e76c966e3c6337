package llm

import (
	"fmt"
	"net/http"

	"github.com/Veraticus/the-spice-must-advise/internal/common"
)

// classifyStatus turns a non-2xx provider response into an error WithRetry understands.
func classifyStatus(provider string, status int, body string) error {
	if len(body) > 512 {
		body = body[:512] + "..."
	}
	err := fmt.Errorf("%s API error (status %d): %s", provider, status, body)

	switch {
	case status == http.StatusTooManyRequests:
		return &common.RetryableError{Err: fmt.Errorf("%w: %w", common.ErrRateLimit, err), Retryable: true}
	case status >= http.StatusInternalServerError:
		return &common.RetryableError{Err: err, Retryable: true}
	default:
		return &common.RetryableError{Err: err, Retryable: false}
	}
}

func emptyCompletion(provider string) error {
	return &common.RetryableError{
		Err:       fmt.Errorf("%s: %w", provider, common.ErrEmptyCompletion),
		Retryable: false,
	}
}
