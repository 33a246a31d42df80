package strategy

import (
	"fmt"

	"crypto-trader/internal/analysis/indicators"
	"crypto-trader/internal/models"
	"crypto-trader/internal/risk"
)

// MomentumConfig holds the tunable parameters of the momentum strategy.
// Every threshold is a configuration default, not an invariant.
type MomentumConfig struct {
	MinBars          int     `mapstructure:"min_bars"`
	FastPeriod       int     `mapstructure:"fast_period"`
	SlowPeriod       int     `mapstructure:"slow_period"`
	RSIPeriod        int     `mapstructure:"rsi_period"`
	Oversold         float64 `mapstructure:"oversold"`
	Overbought       float64 `mapstructure:"overbought"`
	VolumePeriod     int     `mapstructure:"volume_period"`
	VolumeMultiplier float64 `mapstructure:"volume_multiplier"`
	ATRPeriod        int     `mapstructure:"atr_period"`
	StopATRMult      float64 `mapstructure:"stop_atr_mult"`
	RewardMultiple   float64 `mapstructure:"reward_multiple"`
	MaxRiskPercent   float64 `mapstructure:"max_risk_percent"`
	MinRiskReward    float64 `mapstructure:"min_risk_reward"`
	BaseConfidence   float64 `mapstructure:"base_confidence"`
	ConfidenceScale  float64 `mapstructure:"confidence_scale"`
	MaxConfidence    float64 `mapstructure:"max_confidence"`
}

// DefaultMomentumConfig returns the default momentum parameters.
func DefaultMomentumConfig() MomentumConfig {
	return MomentumConfig{
		MinBars:          50,
		FastPeriod:       9,
		SlowPeriod:       21,
		RSIPeriod:        14,
		Oversold:         30,
		Overbought:       70,
		VolumePeriod:     20,
		VolumeMultiplier: 1.2,
		ATRPeriod:        14,
		StopATRMult:      2.0,
		RewardMultiple:   1.5,
		MaxRiskPercent:   3.0,
		MinRiskReward:    1.2,
		BaseConfidence:   0.4,
		ConfidenceScale:  0.4,
		MaxConfidence:    0.8,
	}
}

// Momentum is a trend-following strategy: fast/slow EMA crossover filtered
// by an RSI band and confirmed by above-average volume.
type Momentum struct {
	cfg MomentumConfig
}

// NewMomentum creates a momentum strategy with default parameters.
func NewMomentum() *Momentum {
	return NewMomentumWithConfig(DefaultMomentumConfig())
}

// NewMomentumWithConfig creates a momentum strategy with custom parameters.
func NewMomentumWithConfig(cfg MomentumConfig) *Momentum {
	return &Momentum{cfg: cfg}
}

func (m *Momentum) Name() string {
	return "momentum"
}

func (m *Momentum) MinBars() int {
	return m.cfg.MinBars
}

// Analyze implements the Strategy interface.
func (m *Momentum) Analyze(candles []models.Candle, symbol string) (sig models.TradingSignal) {
	defer stampTime(&sig, candles)
	defer recoverToWait(&sig, symbol, m.Name(), lastClose(candles))

	if err := validateWindow(candles, m.cfg.MinBars); err != nil {
		return models.WaitSignal(symbol, m.Name(), lastClose(candles), err.Error())
	}

	price := lastClose(candles)

	fastEMA, err := indicators.NewEMA(m.cfg.FastPeriod).Calculate(candles)
	if err != nil {
		return models.WaitSignal(symbol, m.Name(), price, err.Error())
	}
	slowEMA, err := indicators.NewEMA(m.cfg.SlowPeriod).Calculate(candles)
	if err != nil {
		return models.WaitSignal(symbol, m.Name(), price, err.Error())
	}
	rsiValues, err := indicators.NewRSI(m.cfg.RSIPeriod).Calculate(candles)
	if err != nil {
		return models.WaitSignal(symbol, m.Name(), price, err.Error())
	}
	atrValues, err := indicators.NewATR(m.cfg.ATRPeriod).Calculate(candles)
	if err != nil {
		return models.WaitSignal(symbol, m.Name(), price, err.Error())
	}

	fast := indicators.Last(fastEMA)
	slow := indicators.Last(slowEMA)
	rsi := indicators.Last(rsiValues)
	atr := indicators.Last(atrValues)
	volRatio := indicators.VolumeRatio(candles, m.cfg.VolumePeriod)

	snapshot := map[string]float64{
		"ema_fast":     fast,
		"ema_slow":     slow,
		"rsi":          rsi,
		"atr":          atr,
		"volume_ratio": volRatio,
	}

	side := m.direction(fast, slow, rsi)
	if side == models.ActionWait {
		sig = models.WaitSignal(symbol, m.Name(), price,
			fmt.Sprintf("no directional signal: ema_fast=%.4f ema_slow=%.4f rsi=%.1f", fast, slow, rsi))
		sig.Indicators = snapshot
		return sig
	}

	if volRatio < m.cfg.VolumeMultiplier {
		sig = models.WaitSignal(symbol, m.Name(), price,
			fmt.Sprintf("no directional signal: volume ratio %.2f below %.2f confirmation threshold",
				volRatio, m.cfg.VolumeMultiplier))
		sig.Indicators = snapshot
		return sig
	}

	stop := risk.StopLoss(price, side, atr, m.cfg.StopATRMult)
	stop = risk.CapStopLoss(price, stop, side, m.cfg.MaxRiskPercent)
	target := risk.TargetFromStop(price, stop, side, m.cfg.RewardMultiple)
	rr := risk.RiskReward(price, stop, target)

	if rr < m.cfg.MinRiskReward {
		sig = models.WaitSignal(symbol, m.Name(), price,
			fmt.Sprintf("risk/reward %.2f below minimum %.2f", rr, m.cfg.MinRiskReward))
		sig.Indicators = snapshot
		return sig
	}

	return models.TradingSignal{
		Symbol:     symbol,
		Strategy:   m.Name(),
		Action:     side,
		Confidence: m.confidence(volRatio),
		Price:      price,
		StopLoss:   stop,
		TakeProfit: target,
		RiskReward: rr,
		EntryType:  "ema_cross",
		Reason: fmt.Sprintf("%s: EMA%d/%d cross, rsi=%.1f, volume %.2fx average",
			side, m.cfg.FastPeriod, m.cfg.SlowPeriod, rsi, volRatio),
		Indicators: snapshot,
	}
}

// direction applies the EMA-cross plus RSI-band entry filter. BUY only when
// RSI sits between the oversold threshold and 50, SELL only between 50 and
// the overbought threshold.
func (m *Momentum) direction(fast, slow, rsi float64) models.SignalAction {
	if fast > slow && rsi > m.cfg.Oversold && rsi < 50 {
		return models.ActionBuy
	}
	if fast < slow && rsi > 50 && rsi < m.cfg.Overbought {
		return models.ActionSell
	}
	return models.ActionWait
}

// confidence scales with the volume ratio and is capped at MaxConfidence.
func (m *Momentum) confidence(volRatio float64) float64 {
	conf := m.cfg.BaseConfidence + volRatio*m.cfg.ConfidenceScale
	return clamp(conf, 0, m.cfg.MaxConfidence)
}
