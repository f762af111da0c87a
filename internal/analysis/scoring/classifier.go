package scoring

import (
	"math"

	"btc-advisor/internal/analysis"
)

// ATR multipliers for the risk levels, giving 2:1 reward to risk.
const (
	StopLossATRMultiplier   = 2.0
	TakeProfitATRMultiplier = StopLossATRMultiplier * 2
)

// Classify maps a total score to a signal and confidence.
// Strong and mild bands collapse into the same outcome.
func Classify(total int) (analysis.Signal, int) {
	switch {
	case total >= 1:
		return analysis.Buy, total
	case total <= -1:
		return analysis.Sell, -total
	default:
		return analysis.Hold, 0
	}
}

// RiskLevels returns stop-loss and take-profit for a directional signal,
// rounded to the cent. A level that rounds onto or across price moves one
// cent further out, so stop-loss and take-profit always bracket price.
// ok is false for HOLD.
func RiskLevels(signal analysis.Signal, price, atr float64) (stopLoss, takeProfit float64, ok bool) {
	switch signal {
	case analysis.Buy:
		return below(price, price-atr*StopLossATRMultiplier), above(price, price+atr*TakeProfitATRMultiplier), true
	case analysis.Sell:
		return above(price, price+atr*StopLossATRMultiplier), below(price, price-atr*TakeProfitATRMultiplier), true
	}
	return 0, 0, false
}

// below rounds v, which is under price, to a cent strictly under price.
func below(price, v float64) float64 {
	if r := round2(v); r < price {
		return r
	}
	if r := round2(round2(v) - 0.01); r < price {
		return r
	}
	// cents are not representable at this magnitude
	return math.Nextafter(price, math.Inf(-1))
}

// above rounds v, which is over price, to a cent strictly over price.
func above(price, v float64) float64 {
	if r := round2(v); r > price {
		return r
	}
	if r := round2(round2(v) + 0.01); r > price {
		return r
	}
	return math.Nextafter(price, math.Inf(1))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
