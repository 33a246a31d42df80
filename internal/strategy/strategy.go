// Package strategy implements the signal-generation strategies and the
// registry that selects among them.
package strategy

import (
	"fmt"
	"math"
	"time"

	"crypto-trader/internal/models"
)

// Strategy converts an OHLCV window into a trading decision. Implementations
// hold only immutable configuration, so a single instance is safe for
// concurrent Analyze calls.
type Strategy interface {
	// Name returns the registry name of the strategy.
	Name() string
	// MinBars returns the minimum window length the strategy accepts.
	MinBars() int
	// Analyze produces a signal for the window. It never panics and never
	// returns an error: every failure mode is a WAIT signal with a
	// diagnostic reason.
	Analyze(candles []models.Candle, symbol string) models.TradingSignal
}

// validateWindow checks a candle window before any indicator math runs.
// The returned error message doubles as the WAIT reason.
func validateWindow(candles []models.Candle, minBars int) error {
	if len(candles) < minBars {
		return fmt.Errorf("insufficient data: need at least %d bars, got %d", minBars, len(candles))
	}

	for i, c := range candles {
		if math.IsNaN(c.Open) || math.IsNaN(c.High) || math.IsNaN(c.Low) ||
			math.IsNaN(c.Close) || math.IsNaN(c.Volume) {
			return fmt.Errorf("invalid data: NaN value at bar %d", i)
		}
		if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
			return fmt.Errorf("invalid data: non-positive price at bar %d", i)
		}
		if c.Volume < 0 {
			return fmt.Errorf("invalid data: negative volume at bar %d", i)
		}
		if i > 0 && !candles[i].Timestamp.After(candles[i-1].Timestamp) {
			return fmt.Errorf("invalid data: non-increasing timestamp at bar %d", i)
		}
	}

	return nil
}

// lastClose returns the final close of the window, or 0 for an empty window.
func lastClose(candles []models.Candle) float64 {
	if len(candles) == 0 {
		return 0
	}
	return candles[len(candles)-1].Close
}

// signalTime returns the closing bar time of the window, or the current
// time for an empty window. Anchoring signals to the window makes repeated
// analysis of the same window value-identical.
func signalTime(candles []models.Candle) time.Time {
	if len(candles) == 0 {
		return time.Now()
	}
	return candles[len(candles)-1].Timestamp
}

// stampTime sets the signal timestamp from the window. Every Analyze defers
// it so all return paths, the panic recovery path included, carry the
// window's closing time.
func stampTime(sig *models.TradingSignal, candles []models.Candle) {
	sig.Timestamp = signalTime(candles)
}

// recoverToWait converts an unexpected panic inside Analyze into a WAIT
// signal so the polling loop driving the strategy never dies.
func recoverToWait(sig *models.TradingSignal, symbol, strategy string, price float64) {
	if r := recover(); r != nil {
		*sig = models.WaitSignal(symbol, strategy, price, fmt.Sprintf("internal error: %v", r))
	}
}

// clamp restricts a value to the given range.
func clamp(value, minVal, maxVal float64) float64 {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}
