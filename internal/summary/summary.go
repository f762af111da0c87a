// Package summary fetches a prose market summary from a generative-text API.
// It is independent of the scoring pipeline: a failure here never affects
// recommendations.
package summary

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Summarizer fetches free-form summary text for a prompt.
type Summarizer interface {
	FetchSummary(ctx context.Context, prompt string) (string, error)
}

// SummarizerFunc adapts a function to Summarizer.
type SummarizerFunc func(ctx context.Context, prompt string) (string, error)

// FetchSummary calls f.
func (f SummarizerFunc) FetchSummary(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// DefaultAsset is the market the summary covers when none is given.
const DefaultAsset = "BTC/USD"

const promptTemplate = `Provide a concise summary of the *most recent* fundamental, sentiment, and statistical analysis for %[1]s. ` +
	`Focus on key drivers, market mood (e.g., Fear & Greed Index implications, institutional vs. retail), ` +
	`and significant technical/statistical observations (e.g., major moving average positions, RSI levels, volatility trends). ` +
	`Conclude with a brief outlook on where %[1]s is generally headed based on this combined analysis. ` +
	`Please provide data as of %[2]s.`

// BuildPrompt returns the summary prompt for asset as of the given month.
// The caller supplies asOf so the prompt stays a pure function of its inputs.
func BuildPrompt(asset string, asOf time.Time) string {
	asset = strings.TrimSpace(asset)
	if asset == "" {
		asset = DefaultAsset
	}
	return fmt.Sprintf(promptTemplate, asset, asOf.Format("January 2006"))
}
