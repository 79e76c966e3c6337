package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const openAIDefaultModel = "gpt-4o-mini"

// openAIClient implements Client for OpenAI and OpenAI-compatible chat endpoints.
type openAIClient struct {
	client *openai.Client
	model  string
}

// newOpenAIClient creates a chat completion client. BaseURL points it at a
// compatible provider such as DeepSeek.
func newOpenAIClient(cfg Config) (*openAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = openAIDefaultModel
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &openAIClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

// Invoke sends a chat completion request with an optional system message.
func (c *openAIClient) Invoke(ctx context.Context, prompt string, params Params) (Completion, error) {
	var messages []openai.ChatCompletionMessage
	if params.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: params.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   params.MaxTokens,
		Temperature: float32(params.Temperature),
		TopP:        float32(params.TopP),
	})
	if err != nil {
		return Completion{}, classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return Completion{}, emptyCompletion("openai")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return Completion{}, emptyCompletion("openai")
	}

	modelID := resp.Model
	if modelID == "" {
		modelID = c.model
	}

	return Completion{
		Content:      content,
		ModelID:      modelID,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus("openai", apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus("openai", reqErr.HTTPStatusCode, reqErr.Error())
	}
	return fmt.Errorf("openai request failed: %w", err)
}
