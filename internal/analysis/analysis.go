// Package analysis provides the result types of the recommendation pipeline.
package analysis

import (
	"btc-advisor/internal/models"
)

// Signal represents the trade signal.
type Signal string

const (
	Buy  Signal = "BUY"
	Sell Signal = "SELL"
	Hold Signal = "HOLD"
)

// ScoreBreakdown holds the sub-scores of one run. Total is their sum.
type ScoreBreakdown struct {
	Fundamental int `json:"fundamental_score"`
	Sentiment   int `json:"sentiment_score"`
	Technical   int `json:"technical_score"`
	Total       int `json:"total_score"`
}

// NewScoreBreakdown builds a breakdown with Total filled in.
func NewScoreBreakdown(fundamental, sentiment, technical int) ScoreBreakdown {
	return ScoreBreakdown{
		Fundamental: fundamental,
		Sentiment:   sentiment,
		Technical:   technical,
		Total:       fundamental + sentiment + technical,
	}
}

// TradeRecommendation is the categorical output of a run.
// StopLoss and TakeProfit are set iff Signal is not HOLD.
type TradeRecommendation struct {
	Signal     Signal   `json:"signal"`
	Confidence int      `json:"confidence"`
	StopLoss   *float64 `json:"stop_loss,omitempty"`
	TakeProfit *float64 `json:"take_profit,omitempty"`
}

// HasLevels reports whether stop-loss and take-profit are present.
func (r TradeRecommendation) HasLevels() bool {
	return r.StopLoss != nil && r.TakeProfit != nil
}

// Result bundles everything a display surface needs.
type Result struct {
	Inputs         models.AnalysisInputs `json:"inputs"`
	Breakdown      ScoreBreakdown        `json:"breakdown"`
	Recommendation TradeRecommendation   `json:"recommendation"`
}
