// Package models provides domain models for the signal engine.
package models

import (
	"time"
)

// SignalAction represents the decision emitted by a strategy.
type SignalAction string

const (
	ActionBuy  SignalAction = "BUY"
	ActionSell SignalAction = "SELL"
	ActionWait SignalAction = "WAIT"
)

// TrendRegime classifies the prevailing market trend.
type TrendRegime string

const (
	TrendUp       TrendRegime = "UPTREND"
	TrendDown     TrendRegime = "DOWNTREND"
	TrendSideways TrendRegime = "SIDEWAYS"
)

// Candle represents OHLCV data for a time period.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Body returns the absolute size of the candle body.
func (c Candle) Body() float64 {
	body := c.Close - c.Open
	if body < 0 {
		return -body
	}
	return body
}

// UpperWick returns the length of the upper shadow.
func (c Candle) UpperWick() float64 {
	top := c.Close
	if c.Open > top {
		top = c.Open
	}
	return c.High - top
}

// LowerWick returns the length of the lower shadow.
func (c Candle) LowerWick() float64 {
	bottom := c.Close
	if c.Open < bottom {
		bottom = c.Open
	}
	return bottom - c.Low
}

// IsBullish reports whether the candle closed above its open.
func (c Candle) IsBullish() bool {
	return c.Close > c.Open
}
