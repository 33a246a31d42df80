package strategy

import (
	"fmt"
	"math"

	"crypto-trader/internal/analysis/indicators"
	"crypto-trader/internal/models"
	"crypto-trader/internal/risk"
)

// ConservativeConfig holds the tunable parameters of the conservative strategy.
type ConservativeConfig struct {
	MinBars         int     `mapstructure:"min_bars"`
	SMAFastPeriod   int     `mapstructure:"sma_fast_period"`
	SMASlowPeriod   int     `mapstructure:"sma_slow_period"`
	RSIPeriod       int     `mapstructure:"rsi_period"`
	BuyZoneLow      float64 `mapstructure:"buy_zone_low"`
	BuyZoneHigh     float64 `mapstructure:"buy_zone_high"`
	SellZoneLow     float64 `mapstructure:"sell_zone_low"`
	SellZoneHigh    float64 `mapstructure:"sell_zone_high"`
	ATRPeriod       int     `mapstructure:"atr_period"`
	MaxATRPercent   float64 `mapstructure:"max_atr_percent"`
	VolumePeriod    int     `mapstructure:"volume_period"`
	VolumeStableLow float64 `mapstructure:"volume_stable_low"`
	VolumeStableHi  float64 `mapstructure:"volume_stable_high"`
	SwingLookback   int     `mapstructure:"swing_lookback"`
	MaxRiskPercent  float64 `mapstructure:"max_risk_percent"`
	RewardMultiple  float64 `mapstructure:"reward_multiple"`
	MinRiskReward   float64 `mapstructure:"min_risk_reward"`
	MinConfidence   float64 `mapstructure:"min_confidence"`
	MaxConfidence   float64 `mapstructure:"max_confidence"`
}

// DefaultConservativeConfig returns the default conservative parameters.
func DefaultConservativeConfig() ConservativeConfig {
	return ConservativeConfig{
		MinBars:         200,
		SMAFastPeriod:   50,
		SMASlowPeriod:   200,
		RSIPeriod:       14,
		BuyZoneLow:      40,
		BuyZoneHigh:     55,
		SellZoneLow:     45,
		SellZoneHigh:    60,
		ATRPeriod:       14,
		MaxATRPercent:   5.0,
		VolumePeriod:    20,
		VolumeStableLow: 0.5,
		VolumeStableHi:  2.0,
		SwingLookback:   20,
		MaxRiskPercent:  3.0,
		RewardMultiple:  3.0,
		MinRiskReward:   2.5,
		MinConfidence:   0.7,
		MaxConfidence:   0.85,
	}
}

// Conservative trades only clear trend regimes with multi-filter
// confirmation: SMA50/SMA200 ordering, an RSI pullback zone, an ATR
// volatility ceiling and a volume-trend stability band. Stops anchor to
// recent swing levels, risk is capped, and the target enforces a 1:3 reward
// ratio after the stop adjustment.
type Conservative struct {
	cfg ConservativeConfig
}

// NewConservative creates a conservative strategy with default parameters.
func NewConservative() *Conservative {
	return NewConservativeWithConfig(DefaultConservativeConfig())
}

// NewConservativeWithConfig creates a conservative strategy with custom parameters.
func NewConservativeWithConfig(cfg ConservativeConfig) *Conservative {
	return &Conservative{cfg: cfg}
}

func (c *Conservative) Name() string {
	return "conservative"
}

func (c *Conservative) MinBars() int {
	return c.cfg.MinBars
}

// Analyze implements the Strategy interface.
func (c *Conservative) Analyze(candles []models.Candle, symbol string) (sig models.TradingSignal) {
	defer stampTime(&sig, candles)
	defer recoverToWait(&sig, symbol, c.Name(), lastClose(candles))

	if err := validateWindow(candles, c.cfg.MinBars); err != nil {
		return models.WaitSignal(symbol, c.Name(), lastClose(candles), err.Error())
	}

	price := lastClose(candles)

	// Volatility ceiling disqualifies the market before any trend logic.
	atrPct := indicators.ATRPercent(candles, c.cfg.ATRPeriod)
	if atrPct > c.cfg.MaxATRPercent {
		return models.WaitSignal(symbol, c.Name(), price,
			fmt.Sprintf("market conditions unsuitable: atr %.2f%% above %.2f%% ceiling",
				atrPct, c.cfg.MaxATRPercent))
	}

	smaFast, err := indicators.NewSMA(c.cfg.SMAFastPeriod).Calculate(candles)
	if err != nil {
		return models.WaitSignal(symbol, c.Name(), price, err.Error())
	}
	smaSlow, err := indicators.NewSMA(c.cfg.SMASlowPeriod).Calculate(candles)
	if err != nil {
		return models.WaitSignal(symbol, c.Name(), price, err.Error())
	}
	rsiValues, err := indicators.NewRSI(c.cfg.RSIPeriod).Calculate(candles)
	if err != nil {
		return models.WaitSignal(symbol, c.Name(), price, err.Error())
	}

	fast := indicators.Last(smaFast)
	slow := indicators.Last(smaSlow)
	rsi := indicators.Last(rsiValues)

	snapshot := map[string]float64{
		"sma_fast":    fast,
		"sma_slow":    slow,
		"rsi":         rsi,
		"atr_percent": atrPct,
	}

	regime := c.Regime(price, fast, slow)
	snapshot["regime"] = regimeScore(regime)
	if regime == models.TrendSideways {
		sig = models.WaitSignal(symbol, c.Name(), price,
			fmt.Sprintf("no directional signal: sideways regime (price=%.4f sma%d=%.4f sma%d=%.4f)",
				price, c.cfg.SMAFastPeriod, fast, c.cfg.SMASlowPeriod, slow))
		sig.Indicators = snapshot
		return sig
	}

	volStability := c.volumeStability(candles)
	snapshot["volume_stability"] = volStability
	if volStability < c.cfg.VolumeStableLow || volStability > c.cfg.VolumeStableHi {
		sig = models.WaitSignal(symbol, c.Name(), price,
			fmt.Sprintf("no directional signal: volume trend %.2f outside stability band [%.2f, %.2f]",
				volStability, c.cfg.VolumeStableLow, c.cfg.VolumeStableHi))
		sig.Indicators = snapshot
		return sig
	}

	side := c.pullbackEntry(regime, rsi)
	if side == models.ActionWait {
		sig = models.WaitSignal(symbol, c.Name(), price,
			fmt.Sprintf("no directional signal: rsi %.1f outside pullback zone for %s", rsi, regime))
		sig.Indicators = snapshot
		return sig
	}

	stop, err := c.anchoredStop(candles, price, side)
	if err != nil {
		sig = models.WaitSignal(symbol, c.Name(), price, err.Error())
		sig.Indicators = snapshot
		return sig
	}

	stop = risk.CapStopLoss(price, stop, side, c.cfg.MaxRiskPercent)
	target := risk.TargetFromStop(price, stop, side, c.cfg.RewardMultiple)
	rr := risk.RiskReward(price, stop, target)

	if rr < c.cfg.MinRiskReward {
		sig = models.WaitSignal(symbol, c.Name(), price,
			fmt.Sprintf("risk/reward %.2f below minimum %.2f", rr, c.cfg.MinRiskReward))
		sig.Indicators = snapshot
		return sig
	}

	return models.TradingSignal{
		Symbol:     symbol,
		Strategy:   c.Name(),
		Action:     side,
		Confidence: c.confidence(fast, slow),
		Price:      price,
		StopLoss:   stop,
		TakeProfit: target,
		RiskReward: rr,
		EntryType:  "trend_pullback",
		Reason: fmt.Sprintf("%s pullback in %s: rsi=%.1f atr=%.2f%% volume trend %.2f",
			side, regime, rsi, atrPct, volStability),
		Indicators: snapshot,
	}
}

// Regime classifies the trend from SMA ordering relative to price.
func (c *Conservative) Regime(price, smaFast, smaSlow float64) models.TrendRegime {
	if price > smaFast && smaFast > smaSlow {
		return models.TrendUp
	}
	if price < smaFast && smaFast < smaSlow {
		return models.TrendDown
	}
	return models.TrendSideways
}

// pullbackEntry requires RSI inside the regime's pullback zone: a dip in an
// uptrend, a bounce in a downtrend.
func (c *Conservative) pullbackEntry(regime models.TrendRegime, rsi float64) models.SignalAction {
	if regime == models.TrendUp && rsi >= c.cfg.BuyZoneLow && rsi <= c.cfg.BuyZoneHigh {
		return models.ActionBuy
	}
	if regime == models.TrendDown && rsi >= c.cfg.SellZoneLow && rsi <= c.cfg.SellZoneHigh {
		return models.ActionSell
	}
	return models.ActionWait
}

// volumeStability compares the current rolling volume average against the
// preceding window's average. A dead or erratic volume trend disqualifies
// the setup. Returns 1 when history is too short or volume is zero.
func (c *Conservative) volumeStability(candles []models.Candle) float64 {
	p := c.cfg.VolumePeriod
	n := len(candles)
	if n < 2*p {
		return 1
	}

	var current, previous float64
	for _, candle := range candles[n-p:] {
		current += candle.Volume
	}
	for _, candle := range candles[n-2*p : n-p] {
		previous += candle.Volume
	}

	if previous == 0 {
		return 1
	}
	return current / previous
}

// anchoredStop places the stop at the recent swing level: the swing low for
// longs, the swing high for shorts.
func (c *Conservative) anchoredStop(candles []models.Candle, price float64, side models.SignalAction) (float64, error) {
	levels, err := indicators.NewSwingLevelFinder(c.cfg.SwingLookback).Calculate(candles)
	if err != nil {
		return 0, err
	}

	var stop float64
	if side == models.ActionBuy {
		stop = levels.Support
		if stop >= price {
			return 0, fmt.Errorf("no directional signal: support %.4f not below price %.4f", stop, price)
		}
	} else {
		stop = levels.Resistance
		if stop <= price {
			return 0, fmt.Errorf("no directional signal: resistance %.4f not above price %.4f", stop, price)
		}
	}

	return stop, nil
}

// confidence starts at the strategy floor and grows with trend separation.
func (c *Conservative) confidence(smaFast, smaSlow float64) float64 {
	conf := c.cfg.MinConfidence
	if smaSlow != 0 {
		separation := math.Abs(smaFast-smaSlow) / smaSlow * 100
		if separation > 2 {
			conf += 0.1
		} else if separation > 1 {
			conf += 0.05
		}
	}
	return clamp(conf, 0, c.cfg.MaxConfidence)
}

// regimeScore encodes a regime into the indicator snapshot.
func regimeScore(regime models.TrendRegime) float64 {
	switch regime {
	case models.TrendUp:
		return 1
	case models.TrendDown:
		return -1
	default:
		return 0
	}
}
