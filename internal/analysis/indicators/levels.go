package indicators

import (
	"crypto-trader/internal/models"
)

// SwingLevels represents the most recent swing high and low.
type SwingLevels struct {
	Support    float64 // lowest low over the lookback
	Resistance float64 // highest high over the lookback
}

// SwingLevelFinder locates recent support/resistance from raw highs and lows.
type SwingLevelFinder struct {
	lookback int
}

// NewSwingLevelFinder creates a new SwingLevelFinder.
func NewSwingLevelFinder(lookback int) *SwingLevelFinder {
	return &SwingLevelFinder{lookback: lookback}
}

func (f *SwingLevelFinder) Name() string {
	return "SwingLevels"
}

func (f *SwingLevelFinder) Period() int {
	return f.lookback
}

// Calculate finds the swing high/low over the trailing lookback window.
func (f *SwingLevelFinder) Calculate(candles []models.Candle) (*SwingLevels, error) {
	if f.lookback <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < f.lookback {
		return nil, ErrInsufficientData
	}

	window := candles[len(candles)-f.lookback:]

	return &SwingLevels{
		Support:    lowest(lowPrices(window)),
		Resistance: highest(highPrices(window)),
	}, nil
}
