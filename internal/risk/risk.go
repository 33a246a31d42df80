// Package risk provides shared stop-loss, take-profit and risk/reward math
// used by all strategies.
package risk

import (
	"math"

	"crypto-trader/internal/models"
)

// StopLoss computes an ATR-anchored stop for the given side.
// BUY stops below the entry, SELL stops above it.
func StopLoss(price float64, side models.SignalAction, atr, multiplier float64) float64 {
	if side == models.ActionSell {
		return price + atr*multiplier
	}
	return price - atr*multiplier
}

// TakeProfit computes an ATR-anchored target for the given side.
// BUY targets above the entry, SELL targets below it.
func TakeProfit(price float64, side models.SignalAction, atr, multiplier float64) float64 {
	if side == models.ActionSell {
		return price - atr*multiplier
	}
	return price + atr*multiplier
}

// RiskReward returns reward distance divided by risk distance, or 0 when
// the risk distance is zero.
func RiskReward(entry, stopLoss, takeProfit float64) float64 {
	riskDist := math.Abs(entry - stopLoss)
	if riskDist == 0 {
		return 0
	}
	return math.Abs(takeProfit-entry) / riskDist
}

// CapStopLoss tightens a stop so the implied risk never exceeds
// maxRiskPercent of the entry price. The stop moves toward the entry, never
// away from it.
func CapStopLoss(entry, stopLoss float64, side models.SignalAction, maxRiskPercent float64) float64 {
	if maxRiskPercent <= 0 {
		return stopLoss
	}

	maxRisk := entry * maxRiskPercent / 100
	if math.Abs(entry-stopLoss) <= maxRisk {
		return stopLoss
	}

	if side == models.ActionSell {
		return entry + maxRisk
	}
	return entry - maxRisk
}

// TargetFromStop derives a take-profit from the (possibly capped) stop so
// the reward is rewardMultiple times the risk distance. Deriving the target
// after the cap preserves the configured reward multiple.
func TargetFromStop(entry, stopLoss float64, side models.SignalAction, rewardMultiple float64) float64 {
	riskDist := math.Abs(entry - stopLoss)
	if side == models.ActionSell {
		return entry - riskDist*rewardMultiple
	}
	return entry + riskDist*rewardMultiple
}

// PercentStop computes a fixed-percentage stop for the given side.
func PercentStop(price float64, side models.SignalAction, percent float64) float64 {
	if side == models.ActionSell {
		return price * (1 + percent/100)
	}
	return price * (1 - percent/100)
}

// PercentTarget computes a fixed-percentage target for the given side.
func PercentTarget(price float64, side models.SignalAction, percent float64) float64 {
	if side == models.ActionSell {
		return price * (1 - percent/100)
	}
	return price * (1 + percent/100)
}
