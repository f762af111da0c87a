// Package config provides configuration management for the advisor.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	apperrors "btc-advisor/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	UI       UIConfig       `mapstructure:"ui"`
}

// AnalysisConfig holds analysis defaults.
type AnalysisConfig struct {
	Asset string `mapstructure:"asset"`
}

// LLMConfig holds the market summary provider configuration.
type LLMConfig struct {
	Provider        string        `mapstructure:"provider"`
	BaseURL         string        `mapstructure:"base_url"`
	Model           string        `mapstructure:"model"`
	APIKey          string        `mapstructure:"api_key" json:"-"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	Temperature     float32       `mapstructure:"temperature"`
	Retries         int           `mapstructure:"retries"`
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerCooldown time.Duration `mapstructure:"breaker_cooldown"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr                 string        `mapstructure:"addr"`
	ReadTimeout          time.Duration `mapstructure:"read_timeout"`
	WriteTimeout         time.Duration `mapstructure:"write_timeout"`
	SummaryRatePerMinute float64       `mapstructure:"summary_rate_per_minute"`
	SummaryBurst         int           `mapstructure:"summary_burst"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// UIConfig holds CLI output configuration.
type UIConfig struct {
	ColorEnabled bool `mapstructure:"color_enabled"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/btc-advisor"
	}
	return filepath.Join(home, ".config", "btc-advisor")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config.toml is replaced by a commented template and defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, apperrors.Wrap(err, "reading config.toml")
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, apperrors.Wrap(err, "creating config template")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.Wrap(err, "decoding config")
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.Wrap(err, "validating config")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("analysis.asset", "BTC/USD")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.base_url", GeminiOpenAIBaseURL)
	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.max_tokens", 800)
	v.SetDefault("llm.temperature", 0.4)
	v.SetDefault("llm.retries", 2)
	v.SetDefault("llm.breaker_failures", 3)
	v.SetDefault("llm.breaker_cooldown", 60*time.Second)

	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 45*time.Second)
	v.SetDefault("server.summary_rate_per_minute", 6.0)
	v.SetDefault("server.summary_burst", 2)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", false)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "advisor.log"))
	v.SetDefault("logging.max_size", 50)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age", 30)

	v.SetDefault("ui.color_enabled", true)
}

// GeminiOpenAIBaseURL is Gemini's OpenAI-compatible endpoint.
const GeminiOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

func applyEnvOverrides(cfg *Config) {
	// Provider keys; the advisor-specific variable wins.
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("ADVISOR_LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}

	if v := os.Getenv("ADVISOR_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("ADVISOR_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("ADVISOR_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("ADVISOR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level %q (must be debug, info, warn or error)", apperrors.ErrConfigInvalid, c.Logging.Level)
	}

	if c.LLM.Model == "" {
		return fmt.Errorf("%w: llm.model must be set", apperrors.ErrConfigInvalid)
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("%w: llm.timeout must be non-negative", apperrors.ErrConfigInvalid)
	}
	if c.LLM.Retries < 0 || c.LLM.Retries > 10 {
		return fmt.Errorf("%w: llm.retries must be between 0 and 10", apperrors.ErrConfigInvalid)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("%w: llm.temperature must be between 0 and 2", apperrors.ErrConfigInvalid)
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr must be set", apperrors.ErrConfigInvalid)
	}
	if c.Server.SummaryRatePerMinute <= 0 {
		return fmt.Errorf("%w: server.summary_rate_per_minute must be positive", apperrors.ErrConfigInvalid)
	}
	if c.Server.SummaryBurst < 1 {
		return fmt.Errorf("%w: server.summary_burst must be at least 1", apperrors.ErrConfigInvalid)
	}

	return nil
}

// HasLLMKey reports whether a summary provider key is configured.
func (c *Config) HasLLMKey() bool {
	return c.LLM.APIKey != ""
}
