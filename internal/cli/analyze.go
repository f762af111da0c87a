package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"btc-advisor/internal/analysis"
	"btc-advisor/internal/analysis/scoring"
	apperrors "btc-advisor/internal/errors"
	"btc-advisor/internal/logging"
	"btc-advisor/internal/models"
	"btc-advisor/pkg/utils"
)

// addAnalysisCommands adds analysis commands.
func addAnalysisCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newAnalyzeCmd(app))
}

// analyzeFlag binds one form field to a string flag. Values are parsed by
// the scoring validator so the CLI and HTTP surfaces reject the same inputs.
// field is the name the validator reports, empty for optional inputs.
type analyzeFlag struct {
	name  string
	field string
	usage string
	dest  func(*models.RawInputs) *string
}

var analyzeFlags = []analyzeFlag{
	{"price", scoring.FieldPrice, "current price (required)", func(r *models.RawInputs) *string { return &r.Price }},
	{"fear-greed", scoring.FieldFearGreedIndex, "Fear & Greed index, 0-100 (required)", func(r *models.RawInputs) *string { return &r.FearGreedIndex }},
	{"outlook", scoring.FieldFundamentalOutlook, "fundamental outlook: Bullish, Neutral or Bearish", func(r *models.RawInputs) *string { return &r.FundamentalOutlook }},
	{"rates", scoring.FieldInterestRateOutlook, "interest rate outlook: Hawkish, Neutral or Dovish", func(r *models.RawInputs) *string { return &r.InterestRateOutlook }},
	{"regulatory", scoring.FieldRegulatoryEnvironment, "regulatory environment: Positive, Neutral or Negative", func(r *models.RawInputs) *string { return &r.RegulatoryEnvironment }},
	{"inst-flows", "", "net institutional flows in USD", func(r *models.RawInputs) *string { return &r.InstitutionalFlowsUSD }},
	{"funding-rate", "", "perpetual funding rate in percent", func(r *models.RawInputs) *string { return &r.FundingRatePercent }},
	{"open-interest", "", "open interest in USD", func(r *models.RawInputs) *string { return &r.OpenInterestUSD }},
	{"prev-open-interest", "", "previous open interest sample in USD", func(r *models.RawInputs) *string { return &r.PreviousOpenInterestUSD }},
	{"sma50", scoring.FieldSMA50, "50-period simple moving average (required)", func(r *models.RawInputs) *string { return &r.SMA50 }},
	{"sma200", scoring.FieldSMA200, "200-period simple moving average (required)", func(r *models.RawInputs) *string { return &r.SMA200 }},
	{"rsi", scoring.FieldRSI, "relative strength index, 0-100 (required)", func(r *models.RawInputs) *string { return &r.RSI }},
	{"adx", scoring.FieldADX, "average directional index, 0-100 (required)", func(r *models.RawInputs) *string { return &r.ADX }},
	{"macd", scoring.FieldMACDLine, "MACD line (required)", func(r *models.RawInputs) *string { return &r.MACDLine }},
	{"macd-signal", scoring.FieldMACDSignalLine, "MACD signal line (required)", func(r *models.RawInputs) *string { return &r.MACDSignalLine }},
	{"volume", scoring.FieldVolume24h, "24h volume (required)", func(r *models.RawInputs) *string { return &r.Volume24h }},
	{"avg-volume", "", "average 24h volume", func(r *models.RawInputs) *string { return &r.AverageVolume24h }},
	{"atr", scoring.FieldATR, "average true range, > 0 (required)", func(r *models.RawInputs) *string { return &r.ATR }},
}

// flagForField returns the flag that feeds a validator field.
func flagForField(field string) string {
	for _, f := range analyzeFlags {
		if f.field != "" && f.field == field {
			return f.name
		}
	}
	return field
}

func newAnalyzeCmd(app *App) *cobra.Command {
	var raw models.RawInputs

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score a market snapshot and recommend BUY, SELL or HOLD",
		Long: `Score a market snapshot across three groups:
- Fundamental: outlook, interest rates, regulation, institutional flows
- Sentiment: Fear & Greed, funding rate, open interest change
- Technical: moving averages, RSI, ADX, MACD, volume surge

A positive total is a BUY, a negative total a SELL, zero a HOLD.
Stop-loss and take-profit are placed 2 and 4 ATR from price.`,
		Example: `  advisor analyze --price 120000 --fear-greed 65 --outlook Bullish \
    --sma50 118000 --sma200 110000 --rsi 60 --adx 30 \
    --macd 1500 --macd-signal 1400 --volume 35000000000 --atr 2500`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			result, err := scoring.AnalyzeRaw(raw)
			if err != nil {
				var inputErr *apperrors.InvalidInputError
				if apperrors.As(err, &inputErr) {
					logging.LogInvalidInput(app.Logger, inputErr.Field, string(inputErr.Reason))
					output.Error("Invalid %s (--%s): %s", inputErr.Field, flagForField(inputErr.Field), inputErr.Message)
				}
				return err
			}

			rec := result.Recommendation
			b := result.Breakdown
			logging.LogRecommendation(app.Logger, string(rec.Signal), rec.Confidence, b.Fundamental, b.Sentiment, b.Technical)

			if output.IsJSON() {
				return output.JSON(result)
			}
			displayResult(output, result)
			return nil
		},
	}

	for _, f := range analyzeFlags {
		cmd.Flags().StringVar(f.dest(&raw), f.name, "", f.usage)
	}

	return cmd
}

func displayResult(output *Output, result *analysis.Result) {
	b := result.Breakdown
	rec := result.Recommendation

	lines := []string{
		fmt.Sprintf("Price:        %s", utils.FormatUSD(result.Inputs.Price)),
		"",
		fmt.Sprintf("Fundamental:  %s", output.Score(b.Fundamental)),
		fmt.Sprintf("Sentiment:    %s", output.Score(b.Sentiment)),
		fmt.Sprintf("Technical:    %s", output.Score(b.Technical)),
		fmt.Sprintf("Total:        %s", output.Score(b.Total)),
		"",
		fmt.Sprintf("Signal:       %s", output.Signal(rec.Signal)),
		fmt.Sprintf("Confidence:   %d", rec.Confidence),
	}
	if rec.HasLevels() {
		lines = append(lines,
			fmt.Sprintf("Stop Loss:    %s", utils.FormatUSD(*rec.StopLoss)),
			fmt.Sprintf("Take Profit:  %s", utils.FormatUSD(*rec.TakeProfit)),
		)
	}

	output.Box("BTC Recommendation", lines)

	if flows := result.Inputs.InstitutionalFlowsUSD; flows != nil {
		output.Dim("Institutional flows: %s", utils.FormatCompactUSD(*flows))
	}
}
