package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "btc-advisor/internal/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY", "GEMINI_API_KEY", "ADVISOR_LLM_API_KEY",
		"ADVISOR_LLM_MODEL", "ADVISOR_LLM_BASE_URL", "ADVISOR_SERVER_ADDR", "ADVISOR_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_CreatesTemplateWithDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "config.toml"))
	assert.Equal(t, "BTC/USD", cfg.Analysis.Asset)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.Equal(t, GeminiOpenAIBaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, uint32(3), cfg.LLM.BreakerFailures)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, 2, cfg.Server.SummaryBurst)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.HasLLMKey())

	// The generated template must load back to the same values.
	reloaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := `
[llm]
model = "gpt-4o-mini"
base_url = ""
timeout = "5s"
retries = 0

[server]
addr = "0.0.0.0:9090"

[logging]
level = "debug"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("ADVISOR_SERVER_ADDR", "127.0.0.1:7000")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "", cfg.LLM.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 0, cfg.LLM.Retries)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, "sk-openai", cfg.LLM.APIKey)

	t.Setenv("ADVISOR_LLM_API_KEY", "advisor-key")
	cfg, err = Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "advisor-key", cfg.LLM.APIKey)
}

func TestLoad_InvalidConfig(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[logging]\nlevel = \"loud\"\n"), 0600))

	_, err := Load(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConfigInvalid)
	assert.Contains(t, err.Error(), "validating config: ")
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[logging\nlevel = "), 0600))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config.toml: ")
}

func TestLoad_ConfigDirIsFile(t *testing.T) {
	clearEnv(t)
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0600))
	dir := filepath.Join(file, "nested")

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating config template: creating config directory "+dir)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			LLM:     LLMConfig{Model: "m", Retries: 1, Temperature: 0.5},
			Server:  ServerConfig{Addr: ":8080", SummaryRatePerMinute: 1, SummaryBurst: 1},
			Logging: LoggingConfig{Level: "info"},
		}
	}

	require.NoError(t, valid().Validate())

	tests := map[string]func(*Config){
		"empty model":      func(c *Config) { c.LLM.Model = "" },
		"negative timeout": func(c *Config) { c.LLM.Timeout = -time.Second },
		"too many retries": func(c *Config) { c.LLM.Retries = 11 },
		"hot temperature":  func(c *Config) { c.LLM.Temperature = 3 },
		"empty addr":       func(c *Config) { c.Server.Addr = "" },
		"zero rate":        func(c *Config) { c.Server.SummaryRatePerMinute = 0 },
		"zero burst":       func(c *Config) { c.Server.SummaryBurst = 0 },
		"bad level":        func(c *Config) { c.Logging.Level = "trace" },
	}
	for name, modify := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), apperrors.ErrConfigInvalid)
		})
	}
}
