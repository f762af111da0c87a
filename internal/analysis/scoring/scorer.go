// Package scoring turns a snapshot of fundamental, sentiment and technical
// inputs into a composite score and a trade recommendation.
package scoring

import (
	"btc-advisor/internal/analysis"
	"btc-advisor/internal/models"
)

// Thresholds used by the score rules.
const (
	largeFlowUSD = 10_000_000

	extremeFear  = 20
	extremeGreed = 80
	neutralMood  = 50

	fundingRateLimit = 0.05

	oiRiseFactor = 1.05
	oiFallFactor = 0.95

	oversoldRSI    = 30
	overboughtRSI  = 70
	strongTrendADX = 25

	volumeSurgeFactor = 1.2
)

// ScoreEngine computes the three independent sub-scores.
type ScoreEngine struct{}

// NewScoreEngine creates a new score engine.
func NewScoreEngine() *ScoreEngine {
	return &ScoreEngine{}
}

// Score returns the breakdown for in. in must already be validated.
func (e *ScoreEngine) Score(in models.AnalysisInputs) analysis.ScoreBreakdown {
	return analysis.NewScoreBreakdown(
		e.fundamentalScore(in),
		e.sentimentScore(in),
		e.technicalScore(in),
	)
}

func (e *ScoreEngine) fundamentalScore(in models.AnalysisInputs) int {
	score := 0

	switch in.FundamentalOutlook {
	case models.OutlookBullish:
		score += 2
	case models.OutlookBearish:
		score -= 2
	}

	// Lower rates are generally bullish for crypto.
	switch in.InterestRateOutlook {
	case models.RatesDovish:
		score++
	case models.RatesHawkish:
		score--
	}

	switch in.RegulatoryEnvironment {
	case models.RegulatoryPositive:
		score++
	case models.RegulatoryNegative:
		score--
	}

	if flows := in.InstitutionalFlowsUSD; flows != nil {
		switch {
		case *flows > largeFlowUSD:
			score += 2
		case *flows > 0:
			score++
		case *flows < -largeFlowUSD:
			score -= 2
		case *flows < 0:
			score--
		}
	}

	return score
}

func (e *ScoreEngine) sentimentScore(in models.AnalysisInputs) int {
	score := 0

	// Extremes are read contrarian, the middle bands trend-following.
	fg := in.FearGreedIndex
	switch {
	case fg <= extremeFear:
		score += 2
	case fg >= extremeGreed:
		score -= 2
	case fg > neutralMood:
		score++
	case fg < neutralMood:
		score--
	}

	if rate := in.FundingRatePercent; rate != nil {
		switch {
		case *rate > fundingRateLimit:
			score--
		case *rate < -fundingRateLimit:
			score++
		}
	}

	score += openInterestConfirmation(in)

	return score
}

// openInterestConfirmation compares open interest against the previous
// sample. Without a previous sample it contributes nothing.
func openInterestConfirmation(in models.AnalysisInputs) int {
	if in.OpenInterestUSD == nil || in.PreviousOpenInterestUSD == nil || in.Volume24h <= 0 {
		return 0
	}
	oi, prev := *in.OpenInterestUSD, *in.PreviousOpenInterestUSD

	switch {
	case in.Price > in.SMA50 && oi > prev*oiRiseFactor:
		return 1
	case in.Price < in.SMA50 && oi < prev*oiFallFactor:
		return -1
	}
	return 0
}

func (e *ScoreEngine) technicalScore(in models.AnalysisInputs) int {
	score := 0

	uptrend := in.SMA50 > in.SMA200
	downtrend := in.SMA50 < in.SMA200

	if uptrend {
		score += 2
		if in.Price > in.SMA50 {
			score++
		}
	} else if downtrend {
		score -= 2
		if in.Price < in.SMA50 {
			score--
		}
	}

	if in.RSI < oversoldRSI {
		score++
	} else if in.RSI > overboughtRSI {
		score--
	}

	if in.ADX > strongTrendADX {
		if uptrend {
			score++
		} else if downtrend {
			score--
		}
	}

	// Crossovers only count on the far side of the zero line.
	if in.MACDLine > in.MACDSignalLine && in.MACDLine < 0 {
		score++
	} else if in.MACDLine < in.MACDSignalLine && in.MACDLine > 0 {
		score--
	}

	score += volumeConfirmation(in, score)

	return score
}

// volumeConfirmation strengthens the technical direction on a volume surge
// relative to the average volume.
func volumeConfirmation(in models.AnalysisInputs, technical int) int {
	avg := in.AverageVolume24h
	if avg == nil || *avg <= 0 || in.Volume24h <= *avg*volumeSurgeFactor {
		return 0
	}
	switch {
	case technical > 0:
		return 1
	case technical < 0:
		return -1
	}
	return 0
}
