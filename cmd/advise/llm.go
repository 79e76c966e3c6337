package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/the-spice-must-advise/internal/common"
	"github.com/Veraticus/the-spice-must-advise/internal/config"
	"github.com/Veraticus/the-spice-must-advise/internal/llm"
)

// createLLMClient creates the advice model client from configuration.
func createLLMClient(cfg *config.Config) (*llm.ManagedClient, error) {
	client, err := llm.NewClient(llm.Config{
		Provider:   cfg.LLM.Provider,
		APIKey:     cfg.LLM.APIKey,
		Model:      cfg.LLM.Model,
		BaseURL:    cfg.LLM.BaseURL,
		MaxRetries: cfg.LLM.MaxRetries,
		RetryDelay: cfg.LLM.RetryDelay,
		RateLimit:  cfg.LLM.RateLimit,
		Timeout:    cfg.LLM.Timeout,
	}, slog.Default())
	if err != nil {
		if errors.Is(err, common.ErrMissingConfig) {
			return nil, common.NewUserError(
				fmt.Sprintf("No API key for %s: set llm.api_key or the provider's API key environment variable", cfg.LLM.Provider), err)
		}
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}
