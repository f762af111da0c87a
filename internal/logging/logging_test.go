package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"verbose": zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRequestIDContext(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	ctx := WithRequestID(context.Background(), base, "abc123")
	if RequestID(ctx) != "abc123" {
		t.Errorf("RequestID() = %q", RequestID(ctx))
	}

	logger := FromContext(ctx)
	logger.Info().Msg("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decoding log line: %v", err)
	}
	if entry["request_id"] != "abc123" {
		t.Errorf("request_id = %v", entry["request_id"])
	}
}

func TestFromContextWithoutLogger(t *testing.T) {
	logger := FromContext(context.Background())
	if logger.GetLevel() != zerolog.Disabled {
		t.Errorf("expected a disabled logger, got level %v", logger.GetLevel())
	}
}

func TestLogRecommendation(t *testing.T) {
	var buf bytes.Buffer
	LogRecommendation(zerolog.New(&buf), "BUY", 7, 2, 1, 4)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decoding log line: %v", err)
	}
	if entry["signal"] != "BUY" || entry["confidence"] != float64(7) {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNewLoggerWithFile(t *testing.T) {
	cfg := LogConfig{
		Level:    "debug",
		File:     true,
		FilePath: filepath.Join(t.TempDir(), "logs", "advisor.log"),
		MaxSize:  1,
	}
	logger := NewLoggerWithConfig(cfg)
	logger.Debug().Msg("written to file")
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func TestMaskCredential(t *testing.T) {
	tests := map[string]string{
		"":                  "",
		"abc":               "***",
		"abcdefg":           "ab*****",
		"sk-1234567890abcd": "sk-1*********abcd",
	}
	for in, want := range tests {
		if got := MaskCredential(in); got != want {
			t.Errorf("MaskCredential(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRedactSecrets(t *testing.T) {
	googleKey := "AIza" + strings.Repeat("x", 35)
	openaiKey := "sk-" + strings.Repeat("a", 24)

	tests := []string{
		"request failed: https://host/v1?key=" + googleKey,
		"invalid api key " + openaiKey,
		"Authorization: Bearer " + openaiKey,
	}
	for _, in := range tests {
		got := RedactSecrets(in)
		if strings.Contains(got, googleKey) || strings.Contains(got, openaiKey) {
			t.Errorf("RedactSecrets(%q) = %q, secret not masked", in, got)
		}
	}

	if got := RedactSecrets("connection refused"); got != "connection refused" {
		t.Errorf("RedactSecrets() changed plain text: %q", got)
	}
}

func TestLogAPICall_MasksError(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	key := "sk-" + strings.Repeat("b", 24)

	LogAPICall(logger, "POST", "chat/completions", 0, errors.New("bad key "+key))
	if strings.Contains(buf.String(), key) {
		t.Errorf("log line leaked credential: %s", buf.String())
	}
}
