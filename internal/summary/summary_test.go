package summary

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	apperrors "btc-advisor/internal/errors"
)

func TestBuildPrompt(t *testing.T) {
	asOf := time.Date(2025, time.July, 14, 0, 0, 0, 0, time.UTC)

	prompt := BuildPrompt("", asOf)
	if !strings.Contains(prompt, "analysis for BTC/USD.") {
		t.Errorf("prompt should default to BTC/USD: %q", prompt)
	}
	if !strings.HasSuffix(prompt, "Please provide data as of July 2025.") {
		t.Errorf("prompt should end with the as-of month: %q", prompt)
	}

	if got := BuildPrompt("ETH/USD", asOf); !strings.Contains(got, "headed based") || !strings.Contains(got, "ETH/USD is generally") {
		t.Errorf("prompt should mention the asset twice: %q", got)
	}
}

// fakeCompletions serves the chat completions endpoint.
func fakeCompletions(t *testing.T, status int, content string, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("expected a single user message, got %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "upstream exploded", "type": "server_error"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1720000000,
			"model":   req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
	}))
}

func TestOpenAIClient_FetchSummary(t *testing.T) {
	var calls int32
	srv := fakeCompletions(t, http.StatusOK, "BTC is consolidating above the 50-day average.", &calls)
	defer srv.Close()

	client := NewOpenAIClient(ClientConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1/",
		Model:   "gemini-2.0-flash",
		Timeout: 5 * time.Second,
	}, zerolog.Nop())

	text, err := client.FetchSummary(context.Background(), "summarize")
	if err != nil {
		t.Fatalf("FetchSummary() error = %v", err)
	}
	if text != "BTC is consolidating above the 50-day average." {
		t.Errorf("text = %q", text)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestOpenAIClient_ErrorsAndBreaker(t *testing.T) {
	var calls int32
	srv := fakeCompletions(t, http.StatusInternalServerError, "", &calls)
	defer srv.Close()

	client := NewOpenAIClient(ClientConfig{
		APIKey:          "test-key",
		BaseURL:         srv.URL + "/v1",
		Model:           "gemini-2.0-flash",
		Provider:        "gemini",
		BreakerFailures: 2,
		BreakerCooldown: time.Minute,
	}, zerolog.Nop())

	for i := 0; i < 2; i++ {
		_, err := client.FetchSummary(context.Background(), "summarize")
		var summaryErr *apperrors.SummaryError
		if !errors.As(err, &summaryErr) {
			t.Fatalf("attempt %d: expected SummaryError, got %v", i, err)
		}
		if summaryErr.Provider != "gemini" {
			t.Errorf("provider = %q, want gemini", summaryErr.Provider)
		}
	}

	if client.BreakerState() != gobreaker.StateOpen {
		t.Fatalf("breaker state = %s, want open", client.BreakerState())
	}

	_, err := client.FetchSummary(context.Background(), "summarize")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected open-state error, got %v", err)
	}
	if !errors.Is(err, apperrors.ErrSummaryUnavailable) {
		t.Errorf("expected ErrSummaryUnavailable, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("calls = %d, want 2 (open breaker must short-circuit)", calls)
	}
}

func TestOpenAIClient_MissingKey(t *testing.T) {
	client := NewOpenAIClient(ClientConfig{Model: "gpt-4o-mini"}, zerolog.Nop())
	if _, err := client.FetchSummary(context.Background(), "summarize"); !errors.Is(err, apperrors.ErrSummaryUnavailable) {
		t.Errorf("expected ErrSummaryUnavailable, got %v", err)
	}
}

func TestRefresher_PublishesLatest(t *testing.T) {
	fixed := time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)
	r := NewRefresher(SummarizerFunc(func(ctx context.Context, prompt string) (string, error) {
		return "summary for " + prompt, nil
	}), func() time.Time { return fixed })

	if _, ok := r.Latest(); ok {
		t.Fatal("Latest() should be empty before the first refresh")
	}

	snap, err := r.Refresh(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if snap.Text != "summary for p1" || !snap.FetchedAt.Equal(fixed) {
		t.Errorf("snapshot = %+v", snap)
	}

	latest, ok := r.Latest()
	if !ok || latest.Text != "summary for p1" {
		t.Errorf("Latest() = %+v, %v", latest, ok)
	}
}

func TestRefresher_FailureKeepsPreviousSummary(t *testing.T) {
	fail := false
	r := NewRefresher(SummarizerFunc(func(ctx context.Context, prompt string) (string, error) {
		if fail {
			return "", apperrors.NewSummaryError("fake", "fetch", errors.New("boom"))
		}
		return "first", nil
	}), nil)

	if _, err := r.Refresh(context.Background(), "p"); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	fail = true
	if _, err := r.Refresh(context.Background(), "p"); !errors.Is(err, apperrors.ErrSummaryUnavailable) {
		t.Fatalf("expected ErrSummaryUnavailable, got %v", err)
	}
	if latest, _ := r.Latest(); latest.Text != "first" {
		t.Errorf("Latest() = %q, want first", latest.Text)
	}
}

func TestRefresher_NewRequestSupersedesInFlight(t *testing.T) {
	started := make(chan struct{})
	r := NewRefresher(SummarizerFunc(func(ctx context.Context, prompt string) (string, error) {
		if prompt == "slow" {
			close(started)
			<-ctx.Done()
			return "", ctx.Err()
		}
		return "fresh", nil
	}), nil)

	slowErr := make(chan error, 1)
	go func() {
		_, err := r.Refresh(context.Background(), "slow")
		slowErr <- err
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("slow refresh never started")
	}

	snap, err := r.Refresh(context.Background(), "fast")
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if snap.Text != "fresh" {
		t.Errorf("text = %q, want fresh", snap.Text)
	}

	select {
	case err := <-slowErr:
		if !errors.Is(err, apperrors.ErrSuperseded) {
			t.Errorf("superseded refresh error = %v, want ErrSuperseded", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("superseded refresh was not cancelled")
	}

	if latest, _ := r.Latest(); latest.Text != "fresh" {
		t.Errorf("Latest() = %q, want fresh", latest.Text)
	}
}
