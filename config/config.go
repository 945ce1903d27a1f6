package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Database struct {
		DSN string `mapstructure:"dsn"` // "memory" or a SQLite file path
	} `mapstructure:"database"`
	Telegram struct {
		Token              string `mapstructure:"token"`
		PollTimeoutSeconds int    `mapstructure:"poll_timeout_seconds"`
	} `mapstructure:"telegram"`
	AI struct {
		APIKey         string   `mapstructure:"api_key"`
		BaseURL        string   `mapstructure:"base_url"`
		Model          string   `mapstructure:"model"`
		AllowedModels  []string `mapstructure:"allowed_models"`
		SystemPrompt   string   `mapstructure:"system_prompt"`
		TimeoutSeconds int      `mapstructure:"timeout_seconds"`
	} `mapstructure:"ai"`
	Limits struct {
		DailyRequests    int `mapstructure:"daily_requests"`
		ContextWindow    int `mapstructure:"context_window"`
		MaxMessageLength int `mapstructure:"max_message_length"`
	} `mapstructure:"limits"`
}

// Load reads configuration from config.yaml (if present) and environment
// variables. Secrets (bot token, API key) are expected in the environment;
// everything else has a working default.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetDefault("server.port", "8080")
	v.SetDefault("database.dsn", "memory")
	// Secrets default to empty so AutomaticEnv can fill them in: viper only
	// resolves environment values for keys it already knows about.
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.poll_timeout_seconds", 30)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.allowed_models", []string{"gpt-4o-mini", "gpt-4o", "gpt-3.5-turbo"})
	v.SetDefault("ai.system_prompt", "You are a helpful assistant. Don't write your message role in response.")
	v.SetDefault("ai.timeout_seconds", 60)
	v.SetDefault("limits.daily_requests", 20)
	v.SetDefault("limits.context_window", 10)
	v.SetDefault("limits.max_message_length", 4096)

	// Environment overrides: TELEGRAM_TOKEN, AI_API_KEY, DATABASE_DSN, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
		// No config file is fine: environment variables and defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if !c.ModelAllowed(c.AI.Model) {
		return fmt.Errorf("model %q is not in the allowed model list %v", c.AI.Model, c.AI.AllowedModels)
	}
	if c.Limits.DailyRequests <= 0 {
		return fmt.Errorf("limits.daily_requests must be positive, got %d", c.Limits.DailyRequests)
	}
	if c.Limits.ContextWindow <= 0 {
		return fmt.Errorf("limits.context_window must be positive, got %d", c.Limits.ContextWindow)
	}
	if c.Limits.MaxMessageLength <= 0 {
		return fmt.Errorf("limits.max_message_length must be positive, got %d", c.Limits.MaxMessageLength)
	}
	return nil
}

// ModelAllowed reports whether the model identifier is on the allow-list.
func (c *Config) ModelAllowed(model string) bool {
	for _, m := range c.AI.AllowedModels {
		if m == model {
			return true
		}
	}
	return false
}
