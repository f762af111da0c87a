package scoring

import (
	"btc-advisor/internal/analysis"
	"btc-advisor/internal/models"
)

var defaultEngine = NewScoreEngine()

// Analyze validates in, scores it and derives the recommendation.
// It is pure: identical inputs always give an identical result.
func Analyze(in models.AnalysisInputs) (*analysis.Result, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	breakdown := defaultEngine.Score(in)
	signal, confidence := Classify(breakdown.Total)

	rec := analysis.TradeRecommendation{
		Signal:     signal,
		Confidence: confidence,
	}
	if sl, tp, ok := RiskLevels(signal, in.Price, in.ATR); ok {
		rec.StopLoss = &sl
		rec.TakeProfit = &tp
	}

	return &analysis.Result{
		Inputs:         in,
		Breakdown:      breakdown,
		Recommendation: rec,
	}, nil
}

// ComputeRecommendation returns the trade recommendation for in, or an
// *errors.InvalidInputError when a field is out of its domain.
func ComputeRecommendation(in models.AnalysisInputs) (analysis.TradeRecommendation, error) {
	res, err := Analyze(in)
	if err != nil {
		return analysis.TradeRecommendation{}, err
	}
	return res.Recommendation, nil
}

// AnalyzeRaw parses raw form values and analyzes them.
func AnalyzeRaw(raw models.RawInputs) (*analysis.Result, error) {
	in, err := ParseInputs(raw)
	if err != nil {
		return nil, err
	}
	return Analyze(in)
}
