package llm

import (
	"context"
	"time"
)

// Client is an external text-generation model.
type Client interface {
	Invoke(ctx context.Context, prompt string, params Params) (Completion, error)
}

// Params are the generation parameters sent with each request.
type Params struct {
	System      string
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// DefaultParams returns the generation parameters used for recommendations.
func DefaultParams() Params {
	return Params{
		Temperature: 0.7,
		TopP:        0.9,
		MaxTokens:   1000,
	}
}

// Completion is the model's answer.
type Completion struct {
	Content      string
	ModelID      string
	InputTokens  int
	OutputTokens int
}

// Config selects and configures a provider.
type Config struct {
	Provider   string
	APIKey     string
	Model      string
	BaseURL    string
	MaxRetries int
	RetryDelay time.Duration
	RateLimit  int
	Timeout    time.Duration
}
