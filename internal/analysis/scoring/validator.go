package scoring

import (
	"math"
	"strconv"
	"strings"

	apperrors "btc-advisor/internal/errors"
	"btc-advisor/internal/models"
)

// Field names as reported in InvalidInputError. They match the JSON keys
// of models.RawInputs.
const (
	FieldPrice                 = "price"
	FieldFearGreedIndex        = "fear_greed_index"
	FieldFundamentalOutlook    = "fundamental_outlook"
	FieldInterestRateOutlook   = "interest_rate_outlook"
	FieldRegulatoryEnvironment = "regulatory_environment"
	FieldSMA50                 = "sma50"
	FieldSMA200                = "sma200"
	FieldRSI                   = "rsi"
	FieldADX                   = "adx"
	FieldMACDLine              = "macd_line"
	FieldMACDSignalLine        = "macd_signal_line"
	FieldVolume24h             = "volume_24h"
	FieldATR                   = "atr"
)

// ParseInputs converts raw form values into a validated AnalysisInputs.
// The first rejected field is reported as *errors.InvalidInputError.
func ParseInputs(raw models.RawInputs) (models.AnalysisInputs, error) {
	var in models.AnalysisInputs
	p := parser{}

	in.Price = p.required(FieldPrice, raw.Price)
	fg := p.required(FieldFearGreedIndex, raw.FearGreedIndex)
	in.SMA50 = p.required(FieldSMA50, raw.SMA50)
	in.SMA200 = p.required(FieldSMA200, raw.SMA200)
	in.RSI = p.required(FieldRSI, raw.RSI)
	in.ADX = p.required(FieldADX, raw.ADX)
	in.MACDLine = p.required(FieldMACDLine, raw.MACDLine)
	in.MACDSignalLine = p.required(FieldMACDSignalLine, raw.MACDSignalLine)
	in.Volume24h = p.required(FieldVolume24h, raw.Volume24h)
	in.ATR = p.required(FieldATR, raw.ATR)
	if p.err != nil {
		return models.AnalysisInputs{}, p.err
	}

	// The index is an integer; fractional input is truncated toward zero.
	fg = math.Trunc(fg)
	if fg < 0 || fg > 100 {
		return models.AnalysisInputs{}, outOfRange(FieldFearGreedIndex, fg, "must be between 0 and 100")
	}
	in.FearGreedIndex = int(fg)

	var ok bool
	if in.FundamentalOutlook, ok = models.ParseFundamentalOutlook(raw.FundamentalOutlook); !ok {
		return models.AnalysisInputs{}, unknownValue(FieldFundamentalOutlook, raw.FundamentalOutlook)
	}
	if in.InterestRateOutlook, ok = models.ParseRateOutlook(raw.InterestRateOutlook); !ok {
		return models.AnalysisInputs{}, unknownValue(FieldInterestRateOutlook, raw.InterestRateOutlook)
	}
	if in.RegulatoryEnvironment, ok = models.ParseRegulatoryEnvironment(raw.RegulatoryEnvironment); !ok {
		return models.AnalysisInputs{}, unknownValue(FieldRegulatoryEnvironment, raw.RegulatoryEnvironment)
	}

	in.InstitutionalFlowsUSD = optional(raw.InstitutionalFlowsUSD)
	in.FundingRatePercent = optional(raw.FundingRatePercent)
	in.OpenInterestUSD = optional(raw.OpenInterestUSD)
	in.PreviousOpenInterestUSD = optional(raw.PreviousOpenInterestUSD)
	in.AverageVolume24h = optional(raw.AverageVolume24h)

	if err := Validate(in); err != nil {
		return models.AnalysisInputs{}, err
	}
	return in, nil
}

// Validate checks the domain ranges of an already typed AnalysisInputs.
func Validate(in models.AnalysisInputs) error {
	required := []struct {
		field string
		value float64
	}{
		{FieldPrice, in.Price},
		{FieldSMA50, in.SMA50},
		{FieldSMA200, in.SMA200},
		{FieldRSI, in.RSI},
		{FieldADX, in.ADX},
		{FieldMACDLine, in.MACDLine},
		{FieldMACDSignalLine, in.MACDSignalLine},
		{FieldVolume24h, in.Volume24h},
		{FieldATR, in.ATR},
	}
	for _, r := range required {
		if !finite(r.value) {
			return apperrors.NewInvalidInputError(r.field, r.value, apperrors.ReasonUnparseable, "must be a finite number")
		}
	}

	if in.Price <= 0 {
		return outOfRange(FieldPrice, in.Price, "must be a positive value")
	}
	if in.FearGreedIndex < 0 || in.FearGreedIndex > 100 {
		return outOfRange(FieldFearGreedIndex, in.FearGreedIndex, "must be between 0 and 100")
	}
	if in.RSI < 0 || in.RSI > 100 {
		return outOfRange(FieldRSI, in.RSI, "must be between 0 and 100")
	}
	if in.ADX < 0 || in.ADX > 100 {
		return outOfRange(FieldADX, in.ADX, "must be between 0 and 100")
	}
	if in.ATR <= 0 {
		return outOfRange(FieldATR, in.ATR, "must be a positive value")
	}

	if !in.FundamentalOutlook.Valid() {
		return unknownValue(FieldFundamentalOutlook, string(in.FundamentalOutlook))
	}
	if !in.InterestRateOutlook.Valid() {
		return unknownValue(FieldInterestRateOutlook, string(in.InterestRateOutlook))
	}
	if !in.RegulatoryEnvironment.Valid() {
		return unknownValue(FieldRegulatoryEnvironment, string(in.RegulatoryEnvironment))
	}
	return nil
}

// parser records the first unparseable required field.
type parser struct {
	err error
}

func (p *parser) required(field, raw string) float64 {
	if p.err != nil {
		return 0
	}
	v, ok := parseFloat(raw)
	if !ok {
		p.err = apperrors.NewInvalidInputError(field, raw, apperrors.ReasonUnparseable, "must be a valid number")
		return 0
	}
	return v
}

func optional(raw string) *float64 {
	v, ok := parseFloat(raw)
	if !ok {
		return nil
	}
	return &v
}

func parseFloat(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return 0, false
	}
	return v, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func outOfRange(field string, value interface{}, msg string) error {
	return apperrors.NewInvalidInputError(field, value, apperrors.ReasonOutOfRange, msg)
}

func unknownValue(field, value string) error {
	return apperrors.NewInvalidInputError(field, value, apperrors.ReasonUnknownValue, "unknown option")
}
