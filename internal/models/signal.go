package models

import "time"

// TradingSignal is the immutable result of a strategy analysis. Strategies
// construct a fresh value on every call; consumers must not mutate it.
type TradingSignal struct {
	Symbol     string             `json:"symbol"`
	Strategy   string             `json:"strategy"`
	Action     SignalAction       `json:"action"`
	Confidence float64            `json:"confidence"` // [0, 1]
	Price      float64            `json:"price"`      // reference price the signal was computed at
	StopLoss   float64            `json:"stop_loss,omitempty"`
	TakeProfit float64            `json:"take_profit,omitempty"`
	RiskReward float64            `json:"risk_reward,omitempty"`
	EntryType  string             `json:"entry_type,omitempty"` // e.g. "band_bounce", "vwap_breakout"
	Reason     string             `json:"reason"`               // diagnostic only, never parsed by consumers
	Indicators map[string]float64 `json:"indicators,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
}

// WaitSignal builds a WAIT signal with zero confidence and the given reason.
func WaitSignal(symbol, strategy string, price float64, reason string) TradingSignal {
	return TradingSignal{
		Symbol:     symbol,
		Strategy:   strategy,
		Action:     ActionWait,
		Confidence: 0,
		Price:      price,
		Reason:     reason,
		Timestamp:  time.Now(),
	}
}

// IsActionable reports whether the signal calls for a trade.
func (s TradingSignal) IsActionable() bool {
	return s.Action == ActionBuy || s.Action == ActionSell
}
