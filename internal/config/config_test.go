package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-spice-must-advise/internal/common"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "env-key")

		cfg, err := Load(viper.New())
		require.NoError(t, err)

		assert.Equal(t, "anthropic", cfg.LLM.Provider)
		assert.Equal(t, "env-key", cfg.LLM.APIKey)
		assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-9)
		assert.InDelta(t, 0.9, cfg.LLM.TopP, 1e-9)
		assert.Equal(t, 1000, cfg.LLM.MaxTokens)
		assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
		assert.Equal(t, 100, cfg.Cache.MaxSize)
		assert.Equal(t, 12000, cfg.Prompt.MaxChars)
		assert.False(t, strings.HasPrefix(cfg.Database.Path, "$HOME"))
	})

	t.Run("yaml overrides", func(t *testing.T) {
		v := viper.New()
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(strings.NewReader(`
owner: alice
llm:
  provider: OpenAI
  api_key: file-key
  timeout: 15s
cache:
  ttl: 5m
  max_size: 10
email:
  smtp_host: smtp.example.com
  from: advisor@example.com
  to: [alice@example.com]
`)))

		cfg, err := Load(v)
		require.NoError(t, err)

		assert.Equal(t, "alice", cfg.Owner)
		assert.Equal(t, "openai", cfg.LLM.Provider)
		assert.Equal(t, "file-key", cfg.LLM.APIKey)
		assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
		assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
		assert.Equal(t, 10, cfg.Cache.MaxSize)
		assert.True(t, cfg.Email.Enabled())
	})

	t.Run("invalid provider", func(t *testing.T) {
		v := viper.New()
		v.Set("llm.provider", "carrier-pigeon")

		_, err := Load(v)
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})

	t.Run("invalid cache size", func(t *testing.T) {
		v := viper.New()
		v.Set("cache.max_size", -1)

		_, err := Load(v)
		require.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func TestExpandPath(t *testing.T) {
	t.Setenv("ADVISE_TEST_DIR", "/tmp/advise")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "/tmp/advise/db.sqlite", ExpandPath("$ADVISE_TEST_DIR/db.sqlite"))
	assert.False(t, strings.HasPrefix(ExpandPath("~/x"), "~"))
}
