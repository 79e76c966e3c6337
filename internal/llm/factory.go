package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/the-spice-must-advise/internal/common"
	"github.com/Veraticus/the-spice-must-advise/internal/service"
)

// ManagedClient wraps a provider with rate limiting and retry. Every failure it
// returns is a *common.ModelError.
type ManagedClient struct {
	provider Client
	limiter  *rateLimiter
	logger   *slog.Logger
	name     string
	retry    service.RetryOptions
}

// NewClient creates the configured provider and wraps it.
func NewClient(cfg Config, logger *slog.Logger) (*ManagedClient, error) {
	name := strings.ToLower(cfg.Provider)

	var (
		provider Client
		err      error
	)
	switch name {
	case "openai":
		provider, err = newOpenAIClient(cfg)
	case "anthropic":
		provider, err = newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s", common.ErrInvalidConfig, cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrMissingConfig, err)
	}

	return Wrap(name, provider, cfg, logger), nil
}

// Wrap applies the rate limit and retry policy from cfg to an existing client.
func Wrap(name string, provider Client, cfg Config, logger *slog.Logger) *ManagedClient {
	attempts := cfg.MaxRetries
	if attempts <= 0 {
		attempts = 3
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = time.Second
	}

	return &ManagedClient{
		provider: provider,
		limiter:  newRateLimiter(cfg.RateLimit),
		logger:   common.LoggerOrDefault(logger),
		name:     name,
		retry: service.RetryOptions{
			MaxAttempts:  attempts,
			InitialDelay: delay,
			MaxDelay:     30 * delay,
			Multiplier:   2.0,
		},
	}
}

// Name is the provider name.
func (m *ManagedClient) Name() string {
	return m.name
}

// Invoke waits for a rate limit token and calls the provider, retrying transient failures.
func (m *ManagedClient) Invoke(ctx context.Context, prompt string, params Params) (Completion, error) {
	var completion Completion
	start := time.Now()

	err := common.WithRetry(ctx, func() error {
		if err := m.limiter.wait(ctx); err != nil {
			return &common.RetryableError{Err: err, Retryable: false}
		}
		var err error
		completion, err = m.provider.Invoke(ctx, prompt, params)
		return err
	}, m.retry)
	if err != nil {
		m.logger.Warn("model request failed",
			"provider", m.name,
			"elapsed", time.Since(start),
			"error", err)
		return Completion{}, &common.ModelError{Provider: m.name, Err: err}
	}

	m.logger.Debug("model request completed",
		"provider", m.name,
		"model", completion.ModelID,
		"input_tokens", completion.InputTokens,
		"output_tokens", completion.OutputTokens,
		"elapsed", time.Since(start))

	return completion, nil
}

// Close stops the rate limiter.
func (m *ManagedClient) Close() {
	m.limiter.Close()
}
