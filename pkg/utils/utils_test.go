package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFormatUSD(t *testing.T) {
	tests := map[float64]string{
		0:          "$0.00",
		999.5:      "$999.50",
		1000:       "$1,000.00",
		115000:     "$115,000.00",
		1234567.89: "$1,234,567.89",
		-2500.1:    "-$2,500.10",
	}
	for in, want := range tests {
		if got := FormatUSD(in); got != want {
			t.Errorf("FormatUSD(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatCompactUSD(t *testing.T) {
	tests := map[float64]string{
		50_000_000:     "$50.00M",
		-12_000_000:    "-$12.00M",
		35_000_000_000: "$35.00B",
		2_500:          "$2.50K",
		12:             "$12.00",
	}
	for in, want := range tests {
		if got := FormatCompactUSD(in); got != want {
			t.Errorf("FormatCompactUSD(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatScore(t *testing.T) {
	if FormatScore(3) != "+3" || FormatScore(0) != "0" || FormatScore(-2) != "-2" {
		t.Error("unexpected score formatting")
	}
}

func TestRetryWithResult_SucceedsAfterFailures(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, BackoffFactor: 2}

	var retries []int
	cfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		retries = append(retries, attempt)
	}

	calls := 0
	got, err := RetryWithResult(context.Background(), cfg, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil || got != "ok" {
		t.Fatalf("RetryWithResult() = %q, %v", got, err)
	}
	if calls != 3 || len(retries) != 2 {
		t.Errorf("calls = %d, retries = %v", calls, retries)
	}
}

func TestRetry_StopsOnNonRetryable(t *testing.T) {
	permanent := errors.New("permanent")
	cfg := RetryConfig{
		MaxAttempts:  5,
		InitialDelay: time.Millisecond,
		Retryable:    func(err error) bool { return !errors.Is(err, permanent) },
	}

	calls := 0
	_, err := RetryWithResult(context.Background(), cfg, func(ctx context.Context) (int, error) {
		calls++
		return 0, permanent
	})
	if !errors.Is(err, permanent) || calls != 1 {
		t.Errorf("err = %v, calls = %d", err, calls)
	}
}

func TestRetry_HonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{MaxAttempts: 5, InitialDelay: time.Hour}

	_, err := RetryWithResult(ctx, cfg, func(ctx context.Context) (string, error) {
		cancel()
		return "", errors.New("fail")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestCalculateBackoff(t *testing.T) {
	if got := CalculateBackoff(0, time.Second, time.Minute, 2); got != time.Second {
		t.Errorf("attempt 0 = %v", got)
	}
	if got := CalculateBackoff(3, time.Second, time.Minute, 2); got != 8*time.Second {
		t.Errorf("attempt 3 = %v", got)
	}
	if got := CalculateBackoff(10, time.Second, time.Minute, 2); got != time.Minute {
		t.Errorf("attempt 10 = %v, want capped", got)
	}
}
