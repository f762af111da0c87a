package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	apperrors "btc-advisor/internal/errors"
	"btc-advisor/internal/logging"
)

// ClientConfig holds settings for the OpenAI-compatible summary client.
type ClientConfig struct {
	APIKey      string
	BaseURL     string // empty means api.openai.com
	Model       string
	Provider    string // label used in errors and logs
	Timeout     time.Duration
	MaxTokens   int
	Temperature float32

	// Consecutive failures that open the breaker, and how long it stays open.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// OpenAIClient implements Summarizer using a chat completion endpoint.
type OpenAIClient struct {
	client  *openai.Client
	cfg     ClientConfig
	breaker *gobreaker.CircuitBreaker
	logger  zerolog.Logger
}

// NewOpenAIClient creates a new summary client.
func NewOpenAIClient(cfg ClientConfig, logger zerolog.Logger) *OpenAIClient {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 3
	}
	if cfg.BreakerCooldown == 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}

	failures := cfg.BreakerFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "summary-" + cfg.Provider,
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// A superseded refresh is not a provider failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Summary circuit breaker state changed")
		},
	})

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(oc),
		cfg:     cfg,
		breaker: breaker,
		logger:  logging.WithComponent(logger, "summary"),
	}
}

// FetchSummary sends prompt as a single user message and returns the reply.
func (c *OpenAIClient) FetchSummary(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", apperrors.NewSummaryError(c.cfg.Provider, "fetch", errors.New("api key not configured"))
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.complete(ctx, prompt)
	})
	logging.LogAPICall(c.logger, "POST", "chat/completions", time.Since(start), err)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", apperrors.NewSummaryError(c.cfg.Provider, "fetch", err)
	}
	return out.(string), nil
}

func (c *OpenAIClient) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("unexpected response: no summary text")
	}
	return resp.Choices[0].Message.Content, nil
}

// BreakerState reports the circuit breaker state.
func (c *OpenAIClient) BreakerState() gobreaker.State {
	return c.breaker.State()
}
