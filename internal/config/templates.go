package config

import (
	"os"
	"path/filepath"

	apperrors "btc-advisor/internal/errors"
)

const configTemplate = `# BTC Advisor Configuration

[analysis]
# Market covered by the summary prompt
asset = "BTC/USD"

[llm]
# Label used in logs and errors
provider = "gemini"
# Any OpenAI-compatible endpoint; leave empty for api.openai.com
base_url = "https://generativelanguage.googleapis.com/v1beta/openai"
model = "gemini-2.0-flash"
# API key is read from ADVISOR_LLM_API_KEY, GEMINI_API_KEY or OPENAI_API_KEY
timeout = "30s"
max_tokens = 800
temperature = 0.4
# Retries for 'advisor summary' (0 disables)
retries = 2
# Consecutive failures before summary calls are short-circuited
breaker_failures = 3
breaker_cooldown = "60s"

[server]
addr = "127.0.0.1:8080"
read_timeout = "10s"
write_timeout = "45s"
# Summary refreshes allowed per minute across all clients
summary_rate_per_minute = 6.0
summary_burst = 2

[logging]
# debug, info, warn, error
level = "info"
# Write a rotated log file next to this config
file = false
max_size = 50
max_backups = 5
max_age = 30

[ui]
color_enabled = true
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return apperrors.Wrapf(err, "creating config directory %s", configDir)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(configTemplate), 0600)
}
