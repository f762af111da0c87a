// Package models provides the input records shared by the analysis pipeline.
package models

import "strings"

// FundamentalOutlook represents the overall fundamental view.
type FundamentalOutlook string

const (
	OutlookBullish FundamentalOutlook = "Bullish"
	OutlookNeutral FundamentalOutlook = "Neutral"
	OutlookBearish FundamentalOutlook = "Bearish"
)

// RateOutlook represents the USD interest rate outlook.
type RateOutlook string

const (
	RatesHawkish RateOutlook = "Hawkish"
	RatesNeutral RateOutlook = "Neutral"
	RatesDovish  RateOutlook = "Dovish"
)

// RegulatoryEnvironment represents the regulatory climate.
type RegulatoryEnvironment string

const (
	RegulatoryPositive RegulatoryEnvironment = "Positive"
	RegulatoryNeutral  RegulatoryEnvironment = "Neutral"
	RegulatoryNegative RegulatoryEnvironment = "Negative"
)

// Valid reports whether o is a known outlook.
func (o FundamentalOutlook) Valid() bool {
	return o == OutlookBullish || o == OutlookNeutral || o == OutlookBearish
}

// Valid reports whether r is a known rate outlook.
func (r RateOutlook) Valid() bool {
	return r == RatesHawkish || r == RatesNeutral || r == RatesDovish
}

// Valid reports whether r is a known regulatory environment.
func (r RegulatoryEnvironment) Valid() bool {
	return r == RegulatoryPositive || r == RegulatoryNeutral || r == RegulatoryNegative
}

// ParseFundamentalOutlook matches s case-insensitively. Empty means Neutral.
func ParseFundamentalOutlook(s string) (FundamentalOutlook, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bullish":
		return OutlookBullish, true
	case "", "neutral":
		return OutlookNeutral, true
	case "bearish":
		return OutlookBearish, true
	}
	return "", false
}

// ParseRateOutlook matches s case-insensitively. Empty means Neutral.
func ParseRateOutlook(s string) (RateOutlook, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hawkish":
		return RatesHawkish, true
	case "", "neutral":
		return RatesNeutral, true
	case "dovish":
		return RatesDovish, true
	}
	return "", false
}

// ParseRegulatoryEnvironment matches s case-insensitively. Empty means Neutral.
func ParseRegulatoryEnvironment(s string) (RegulatoryEnvironment, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return RegulatoryPositive, true
	case "", "neutral":
		return RegulatoryNeutral, true
	case "negative":
		return RegulatoryNegative, true
	}
	return "", false
}

// AnalysisInputs is the validated snapshot of one analysis run.
// Optional fields are nil when the value was absent or non-numeric.
type AnalysisInputs struct {
	Price          float64 `json:"price"`
	FearGreedIndex int     `json:"fear_greed_index"`

	FundamentalOutlook    FundamentalOutlook    `json:"fundamental_outlook"`
	InterestRateOutlook   RateOutlook           `json:"interest_rate_outlook"`
	RegulatoryEnvironment RegulatoryEnvironment `json:"regulatory_environment"`
	InstitutionalFlowsUSD *float64              `json:"institutional_flows_usd,omitempty"`

	FundingRatePercent      *float64 `json:"funding_rate_percent,omitempty"`
	OpenInterestUSD         *float64 `json:"open_interest_usd,omitempty"`
	PreviousOpenInterestUSD *float64 `json:"previous_open_interest_usd,omitempty"`

	SMA50            float64  `json:"sma50"`
	SMA200           float64  `json:"sma200"`
	RSI              float64  `json:"rsi"`
	ADX              float64  `json:"adx"`
	MACDLine         float64  `json:"macd_line"`
	MACDSignalLine   float64  `json:"macd_signal_line"`
	Volume24h        float64  `json:"volume_24h"`
	AverageVolume24h *float64 `json:"average_volume_24h,omitempty"`
	ATR              float64  `json:"atr"`
}

// RawInputs holds form field values as entered, before parsing.
type RawInputs struct {
	Price                   string `json:"price"`
	FearGreedIndex          string `json:"fear_greed_index"`
	FundamentalOutlook      string `json:"fundamental_outlook"`
	InterestRateOutlook     string `json:"interest_rate_outlook"`
	RegulatoryEnvironment   string `json:"regulatory_environment"`
	InstitutionalFlowsUSD   string `json:"institutional_flows_usd"`
	FundingRatePercent      string `json:"funding_rate_percent"`
	OpenInterestUSD         string `json:"open_interest_usd"`
	PreviousOpenInterestUSD string `json:"previous_open_interest_usd"`
	SMA50                   string `json:"sma50"`
	SMA200                  string `json:"sma200"`
	RSI                     string `json:"rsi"`
	ADX                     string `json:"adx"`
	MACDLine                string `json:"macd_line"`
	MACDSignalLine          string `json:"macd_signal_line"`
	Volume24h               string `json:"volume_24h"`
	AverageVolume24h        string `json:"average_volume_24h"`
	ATR                     string `json:"atr"`
}

// Float returns a pointer to v, for populating optional fields.
func Float(v float64) *float64 {
	return &v
}
