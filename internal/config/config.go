package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/the-spice-must-advise/internal/common"
)

// Config is the complete application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Owner    string         `mapstructure:"owner"`
	Email    EmailConfig    `mapstructure:"email"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Prompt   PromptConfig   `mapstructure:"prompt"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig locates the SQLite record store.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LLMConfig configures the external advice model.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Temperature float64       `mapstructure:"temperature"`
	TopP        float64       `mapstructure:"top_p"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	MaxRetries  int           `mapstructure:"max_retries"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
	RateLimit   int           `mapstructure:"rate_limit"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// CacheConfig configures the advice cache.
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	MaxSize         int           `mapstructure:"max_size"`
	JanitorInterval time.Duration `mapstructure:"janitor_interval"`
}

// PromptConfig bounds rendered prompts.
type PromptConfig struct {
	MaxChars int `mapstructure:"max_chars"`
}

// ScheduleConfig drives the scheduled digest command.
type ScheduleConfig struct {
	Cron        string `mapstructure:"cron"`
	MetricsFile string `mapstructure:"metrics_file"`
	OutputDir   string `mapstructure:"output_dir"`
}

// EmailConfig configures the optional SMTP digest.
type EmailConfig struct {
	SMTPHost string   `mapstructure:"smtp_host"`
	SMTPPort string   `mapstructure:"smtp_port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// Enabled reports whether enough is configured to send mail.
func (e EmailConfig) Enabled() bool {
	return e.SMTPHost != "" && e.From != "" && len(e.To) > 0
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.path", "$HOME/.local/share/advise/advise.db")

	v.SetDefault("llm.provider", "anthropic")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.top_p", 0.9)
	v.SetDefault("llm.max_tokens", 1000)
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay", time.Second)
	v.SetDefault("llm.rate_limit", 60)
	v.SetDefault("llm.timeout", 60*time.Second)

	v.SetDefault("cache.ttl", 30*time.Minute)
	v.SetDefault("cache.max_size", 100)

	v.SetDefault("prompt.max_chars", 12000)

	v.SetDefault("schedule.cron", "0 8 * * *")
	v.SetDefault("email.smtp_port", "587")
}

// Load decodes the configuration held by v, applies environment fallbacks and validates it.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	cfg.Database.Path = ExpandPath(cfg.Database.Path)
	cfg.Schedule.MetricsFile = ExpandPath(cfg.Schedule.MetricsFile)
	cfg.Schedule.OutputDir = ExpandPath(cfg.Schedule.OutputDir)
	cfg.LLM.Provider = strings.ToLower(cfg.LLM.Provider)

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = providerAPIKey(cfg.LLM.Provider)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges that would otherwise fail deep inside a component.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "anthropic", "openai":
	default:
		return fmt.Errorf("%w: unsupported LLM provider %q", common.ErrInvalidConfig, c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("%w: llm.temperature must be within [0, 2]", common.ErrInvalidConfig)
	}
	if c.LLM.TopP < 0 || c.LLM.TopP > 1 {
		return fmt.Errorf("%w: llm.top_p must be within [0, 1]", common.ErrInvalidConfig)
	}
	if c.Cache.MaxSize <= 0 {
		return fmt.Errorf("%w: cache.max_size must be positive", common.ErrInvalidConfig)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("%w: cache.ttl must be positive", common.ErrInvalidConfig)
	}
	return nil
}

// providerAPIKey falls back to the provider's conventional environment variable.
func providerAPIKey(provider string) string {
	switch provider {
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	}
	return ""
}
