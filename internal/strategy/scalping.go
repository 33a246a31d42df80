package strategy

import (
	"fmt"

	"crypto-trader/internal/analysis/indicators"
	"crypto-trader/internal/models"
	"crypto-trader/internal/risk"
)

// ScalpingConfig holds the tunable parameters of the scalping strategy.
type ScalpingConfig struct {
	MinBars          int     `mapstructure:"min_bars"`
	BBPeriod         int     `mapstructure:"bb_period"`
	BBStdDev         float64 `mapstructure:"bb_std_dev"`
	RSIPeriod        int     `mapstructure:"rsi_period"`
	Oversold         float64 `mapstructure:"oversold"`
	Overbought       float64 `mapstructure:"overbought"`
	ATRPeriod        int     `mapstructure:"atr_period"`
	MinVolatility    float64 `mapstructure:"min_volatility"` // ATR percent floor
	MaxVolatility    float64 `mapstructure:"max_volatility"` // ATR percent ceiling
	WickBodyRatio    float64 `mapstructure:"wick_body_ratio"`
	LowerBandEntry   float64 `mapstructure:"lower_band_entry"` // %B at or below triggers a bounce look
	UpperBandEntry   float64 `mapstructure:"upper_band_entry"`
	VolumePeriod     int     `mapstructure:"volume_period"`
	VolumeMultiplier float64 `mapstructure:"volume_multiplier"`
	StopPercent      float64 `mapstructure:"stop_percent"`
	TargetPercent    float64 `mapstructure:"target_percent"`
	MinRiskReward    float64 `mapstructure:"min_risk_reward"`
	BounceConfidence float64 `mapstructure:"bounce_confidence"`
	VWAPConfidence   float64 `mapstructure:"vwap_confidence"`
}

// DefaultScalpingConfig returns the default scalping parameters. The
// risk/reward floor is deliberately lower than the other strategies,
// reflecting scalping's tight targets.
func DefaultScalpingConfig() ScalpingConfig {
	return ScalpingConfig{
		MinBars:          50,
		BBPeriod:         20,
		BBStdDev:         2.0,
		RSIPeriod:        14,
		Oversold:         30,
		Overbought:       70,
		ATRPeriod:        14,
		MinVolatility:    0.1,
		MaxVolatility:    3.0,
		WickBodyRatio:    1.5,
		LowerBandEntry:   0.2,
		UpperBandEntry:   0.8,
		VolumePeriod:     20,
		VolumeMultiplier: 1.5,
		StopPercent:      0.4,
		TargetPercent:    0.6,
		MinRiskReward:    0.6,
		BounceConfidence: 0.8,
		VWAPConfidence:   0.7,
	}
}

// Scalping is a short-horizon strategy trading Bollinger band bounces and
// VWAP breakouts with tight fixed-percentage stops. Trades only inside an
// acceptable ATR volatility band: too low means no opportunity, too high is
// unsafe for tight stops.
type Scalping struct {
	cfg ScalpingConfig
}

// NewScalping creates a scalping strategy with default parameters.
func NewScalping() *Scalping {
	return NewScalpingWithConfig(DefaultScalpingConfig())
}

// NewScalpingWithConfig creates a scalping strategy with custom parameters.
func NewScalpingWithConfig(cfg ScalpingConfig) *Scalping {
	return &Scalping{cfg: cfg}
}

func (s *Scalping) Name() string {
	return "scalping"
}

func (s *Scalping) MinBars() int {
	return s.cfg.MinBars
}

// Analyze implements the Strategy interface.
func (s *Scalping) Analyze(candles []models.Candle, symbol string) (sig models.TradingSignal) {
	defer stampTime(&sig, candles)
	defer recoverToWait(&sig, symbol, s.Name(), lastClose(candles))

	if err := validateWindow(candles, s.cfg.MinBars); err != nil {
		return models.WaitSignal(symbol, s.Name(), lastClose(candles), err.Error())
	}

	price := lastClose(candles)

	atrPct := indicators.ATRPercent(candles, s.cfg.ATRPeriod)
	if atrPct < s.cfg.MinVolatility || atrPct > s.cfg.MaxVolatility {
		return models.WaitSignal(symbol, s.Name(), price,
			fmt.Sprintf("market conditions unsuitable: atr %.2f%% outside [%.2f%%, %.2f%%]",
				atrPct, s.cfg.MinVolatility, s.cfg.MaxVolatility))
	}

	bb, err := indicators.NewBollingerBands(s.cfg.BBPeriod, s.cfg.BBStdDev).Calculate(candles)
	if err != nil {
		return models.WaitSignal(symbol, s.Name(), price, err.Error())
	}
	rsiValues, err := indicators.NewRSI(s.cfg.RSIPeriod).Calculate(candles)
	if err != nil {
		return models.WaitSignal(symbol, s.Name(), price, err.Error())
	}
	vwapValues, err := indicators.NewVWAP().Calculate(candles)
	if err != nil {
		return models.WaitSignal(symbol, s.Name(), price, err.Error())
	}

	last := candles[len(candles)-1]
	prev := candles[len(candles)-2]

	percentB := indicators.Last(bb["percent_b"])
	rsi := indicators.Last(rsiValues)
	vwap := indicators.Last(vwapValues)
	prevVWAP := vwapValues[len(vwapValues)-2]
	volRatio := indicators.VolumeRatio(candles, s.cfg.VolumePeriod)

	snapshot := map[string]float64{
		"bb_percent":   percentB,
		"rsi":          rsi,
		"vwap":         vwap,
		"atr_percent":  atrPct,
		"volume_ratio": volRatio,
	}

	side, entryType, confidence := s.entry(last, prev, percentB, rsi, vwap, prevVWAP, volRatio)
	if side == models.ActionWait {
		sig = models.WaitSignal(symbol, s.Name(), price,
			fmt.Sprintf("no directional signal: bb_percent=%.2f rsi=%.1f vwap=%.4f", percentB, rsi, vwap))
		sig.Indicators = snapshot
		return sig
	}

	stop := risk.PercentStop(price, side, s.cfg.StopPercent)
	target := risk.PercentTarget(price, side, s.cfg.TargetPercent)
	rr := risk.RiskReward(price, stop, target)

	if rr < s.cfg.MinRiskReward {
		sig = models.WaitSignal(symbol, s.Name(), price,
			fmt.Sprintf("risk/reward %.2f below minimum %.2f", rr, s.cfg.MinRiskReward))
		sig.Indicators = snapshot
		return sig
	}

	return models.TradingSignal{
		Symbol:     symbol,
		Strategy:   s.Name(),
		Action:     side,
		Confidence: confidence,
		Price:      price,
		StopLoss:   stop,
		TakeProfit: target,
		RiskReward: rr,
		EntryType:  entryType,
		Reason: fmt.Sprintf("%s %s: bb_percent=%.2f rsi=%.1f volume %.2fx average",
			side, entryType, percentB, rsi, volRatio),
		Indicators: snapshot,
	}
}

// entry evaluates the scalping entry conditions in priority order: band
// bounces with a rejection wick first, then VWAP breakouts with volume.
func (s *Scalping) entry(last, prev models.Candle, percentB, rsi, vwap, prevVWAP, volRatio float64) (models.SignalAction, string, float64) {
	// Band bounce: price pinned at a band extreme, RSI at an extreme, and a
	// long wick relative to the body signalling rejection of the extreme.
	if percentB <= s.cfg.LowerBandEntry && rsi <= s.cfg.Oversold && s.rejectionWick(last.LowerWick(), last.Body()) {
		return models.ActionBuy, "band_bounce", s.cfg.BounceConfidence
	}
	if percentB >= s.cfg.UpperBandEntry && rsi >= s.cfg.Overbought && s.rejectionWick(last.UpperWick(), last.Body()) {
		return models.ActionSell, "band_bounce", s.cfg.BounceConfidence
	}

	// VWAP breakout with volume confirmation.
	if volRatio >= s.cfg.VolumeMultiplier {
		if prev.Close <= prevVWAP && last.Close > vwap {
			return models.ActionBuy, "vwap_breakout", s.cfg.VWAPConfidence
		}
		if prev.Close >= prevVWAP && last.Close < vwap {
			return models.ActionSell, "vwap_breakout", s.cfg.VWAPConfidence
		}
	}

	return models.ActionWait, "", 0
}

// rejectionWick reports whether the wick is long enough relative to the
// body. A doji body counts as rejected when any wick exists.
func (s *Scalping) rejectionWick(wick, body float64) bool {
	if body == 0 {
		return wick > 0
	}
	return wick >= body*s.cfg.WickBodyRatio
}
