package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sony/gobreaker"
	"github.com/spf13/cobra"

	apperrors "btc-advisor/internal/errors"
	"btc-advisor/internal/summary"
	"btc-advisor/pkg/utils"
)

// addSummaryCommands adds market summary commands.
func addSummaryCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newSummaryCmd(app))
}

func newSummaryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Fetch a prose market summary",
		Long: `Ask the configured generative-text provider for a summary of the most
recent fundamental, sentiment and statistical picture of an asset.

The provider key is read from ADVISOR_LLM_API_KEY, GEMINI_API_KEY or
OPENAI_API_KEY. The summary is informational and has no effect on
'advisor analyze'.`,
		Example: `  advisor summary
  advisor summary --asset ETH/USD --retries 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if app.Summarizer == nil {
				output.Error("No LLM API key configured. Set ADVISOR_LLM_API_KEY or GEMINI_API_KEY.")
				return fmt.Errorf("%w: api key not configured", apperrors.ErrSummaryUnavailable)
			}

			asset, _ := cmd.Flags().GetString("asset")
			if asset == "" {
				asset = app.Config.Analysis.Asset
			}
			retries, _ := cmd.Flags().GetInt("retries")
			if !cmd.Flags().Changed("retries") {
				retries = app.Config.LLM.Retries
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			now := time.Now()
			prompt := summary.BuildPrompt(asset, now)
			if !output.IsJSON() {
				output.Info("Fetching market summary for %s...", asset)
			}

			text, err := fetchWithRetry(ctx, app, prompt, retries)
			if err != nil {
				output.Error("Market summary unavailable: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"asset":      asset,
					"summary":    text,
					"fetched_at": now.UTC().Format(time.RFC3339),
				})
			}
			output.Println()
			output.Bold("%s market summary (%s)", asset, now.Format("January 2006"))
			output.Println(text)
			return nil
		},
	}

	cmd.Flags().String("asset", "", "asset to summarize (default from config)")
	cmd.Flags().Int("retries", 0, "retries on transient failure (default from config)")

	return cmd
}

// fetchWithRetry retries transient provider failures. An open breaker or a
// cancelled context ends the attempt immediately.
func fetchWithRetry(ctx context.Context, app *App, prompt string, retries int) (string, error) {
	cfg := utils.DefaultRetryConfig()
	cfg.MaxAttempts = retries + 1
	cfg.Retryable = summaryRetryable
	cfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		app.Logger.Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("Retrying market summary")
	}

	return utils.RetryWithResult(ctx, cfg, func(ctx context.Context) (string, error) {
		return app.Summarizer.FetchSummary(ctx, prompt)
	})
}

func summaryRetryable(err error) bool {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}
