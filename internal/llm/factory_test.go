package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-spice-must-advise/internal/common"
)

type scriptedClient struct {
	errs  []error
	calls atomic.Int32
}

func (s *scriptedClient) Invoke(context.Context, string, Params) (Completion, error) {
	n := int(s.calls.Add(1)) - 1
	if n < len(s.errs) && s.errs[n] != nil {
		return Completion{}, s.errs[n]
	}
	return Completion{Content: "advice", ModelID: "scripted"}, nil
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "anthropic", cfg: Config{Provider: "anthropic", APIKey: "k"}},
		{name: "openai upper case", cfg: Config{Provider: "OpenAI", APIKey: "k"}},
		{name: "unknown provider", cfg: Config{Provider: "ollama", APIKey: "k"}, wantErr: common.ErrInvalidConfig},
		{name: "missing key", cfg: Config{Provider: "anthropic"}, wantErr: common.ErrMissingConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg, nil)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer client.Close()
		})
	}
}

func TestManagedClient_RetriesTransientFailures(t *testing.T) {
	provider := &scriptedClient{errs: []error{
		&common.RetryableError{Err: errors.New("502"), Retryable: true},
		&common.RetryableError{Err: errors.New("503"), Retryable: true},
	}}
	client := Wrap("scripted", provider, Config{MaxRetries: 3, RetryDelay: time.Millisecond}, nil)
	defer client.Close()

	completion, err := client.Invoke(context.Background(), "p", DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, "advice", completion.Content)
	assert.Equal(t, int32(3), provider.calls.Load())
}

func TestManagedClient_PermanentFailure(t *testing.T) {
	provider := &scriptedClient{errs: []error{
		&common.RetryableError{Err: errors.New("400 bad request"), Retryable: false},
	}}
	client := Wrap("scripted", provider, Config{MaxRetries: 3, RetryDelay: time.Millisecond}, nil)
	defer client.Close()

	_, err := client.Invoke(context.Background(), "p", DefaultParams())

	var modelErr *common.ModelError
	require.ErrorAs(t, err, &modelErr)
	assert.Equal(t, "scripted", modelErr.Provider)
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestManagedClient_RateLimitedUpstream(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewClient(Config{
		Provider:   "anthropic",
		APIKey:     "k",
		BaseURL:    server.URL,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	}, nil)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Invoke(context.Background(), "p", DefaultParams())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRateLimit)
	assert.ErrorIs(t, err, common.ErrMaxRetries)
	assert.Equal(t, int32(2), hits.Load())
}

func TestManagedClient_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	// Close waits for active handlers, so they must be released first.
	defer server.Close()
	defer close(release)

	client, err := NewClient(Config{Provider: "anthropic", APIKey: "k", BaseURL: server.URL, MaxRetries: 1}, nil)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = client.Invoke(ctx, "p", DefaultParams())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}
