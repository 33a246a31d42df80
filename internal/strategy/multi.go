package strategy

import (
	"fmt"

	"crypto-trader/internal/analysis/indicators"
	"crypto-trader/internal/models"
	"crypto-trader/internal/risk"
)

// ComponentWeights defines the vote weight of each indicator family in the
// multi-indicator composite.
type ComponentWeights struct {
	RSI       float64 `mapstructure:"rsi"`
	EMA       float64 `mapstructure:"ema"`
	MACD      float64 `mapstructure:"macd"`
	Bollinger float64 `mapstructure:"bollinger"`
	Volume    float64 `mapstructure:"volume"`
}

// MultiIndicatorConfig holds the tunable parameters of the multi-indicator strategy.
type MultiIndicatorConfig struct {
	MinBars        int              `mapstructure:"min_bars"`
	RSIPeriod      int              `mapstructure:"rsi_period"`
	EMAFastPeriod  int              `mapstructure:"ema_fast_period"`
	EMASlowPeriod  int              `mapstructure:"ema_slow_period"`
	MACDFast       int              `mapstructure:"macd_fast"`
	MACDSlow       int              `mapstructure:"macd_slow"`
	MACDSignal     int              `mapstructure:"macd_signal"`
	BBPeriod       int              `mapstructure:"bb_period"`
	BBStdDev       float64          `mapstructure:"bb_std_dev"`
	VolumePeriod   int              `mapstructure:"volume_period"`
	ATRPeriod      int              `mapstructure:"atr_period"`
	StopATRMult    float64          `mapstructure:"stop_atr_mult"`
	RewardMultiple float64          `mapstructure:"reward_multiple"`
	MaxRiskPercent float64          `mapstructure:"max_risk_percent"`
	MinRiskReward  float64          `mapstructure:"min_risk_reward"`
	BuyThreshold   float64          `mapstructure:"buy_threshold"`
	SellThreshold  float64          `mapstructure:"sell_threshold"`
	MaxConfidence  float64          `mapstructure:"max_confidence"`
	Weights        ComponentWeights `mapstructure:"weights"`
}

// DefaultMultiIndicatorConfig returns the default multi-indicator parameters.
func DefaultMultiIndicatorConfig() MultiIndicatorConfig {
	return MultiIndicatorConfig{
		MinBars:        60,
		RSIPeriod:      14,
		EMAFastPeriod:  9,
		EMASlowPeriod:  21,
		MACDFast:       12,
		MACDSlow:       26,
		MACDSignal:     9,
		BBPeriod:       20,
		BBStdDev:       2.0,
		VolumePeriod:   20,
		ATRPeriod:      14,
		StopATRMult:    2.0,
		RewardMultiple: 2.0,
		MaxRiskPercent: 3.0,
		MinRiskReward:  1.5,
		BuyThreshold:   0.35,
		SellThreshold:  -0.35,
		MaxConfidence:  0.9,
		Weights: ComponentWeights{
			RSI:       0.25,
			EMA:       0.25,
			MACD:      0.20,
			Bollinger: 0.15,
			Volume:    0.15,
		},
	}
}

// MultiIndicator combines several indicator families into a weighted vote.
// Each component scores in [-1, +1]; the weighted net score decides the
// action and its magnitude sets the confidence.
type MultiIndicator struct {
	cfg MultiIndicatorConfig
}

// NewMultiIndicator creates a multi-indicator strategy with default parameters.
func NewMultiIndicator() *MultiIndicator {
	return NewMultiIndicatorWithConfig(DefaultMultiIndicatorConfig())
}

// NewMultiIndicatorWithConfig creates a multi-indicator strategy with custom parameters.
func NewMultiIndicatorWithConfig(cfg MultiIndicatorConfig) *MultiIndicator {
	return &MultiIndicator{cfg: cfg}
}

func (m *MultiIndicator) Name() string {
	return "multi_indicator"
}

func (m *MultiIndicator) MinBars() int {
	return m.cfg.MinBars
}

// Analyze implements the Strategy interface.
func (m *MultiIndicator) Analyze(candles []models.Candle, symbol string) (sig models.TradingSignal) {
	defer stampTime(&sig, candles)
	defer recoverToWait(&sig, symbol, m.Name(), lastClose(candles))

	if err := validateWindow(candles, m.cfg.MinBars); err != nil {
		return models.WaitSignal(symbol, m.Name(), lastClose(candles), err.Error())
	}

	price := lastClose(candles)

	score, components, err := m.Score(candles)
	if err != nil {
		return models.WaitSignal(symbol, m.Name(), price, err.Error())
	}

	var side models.SignalAction
	switch {
	case score >= m.cfg.BuyThreshold:
		side = models.ActionBuy
	case score <= m.cfg.SellThreshold:
		side = models.ActionSell
	default:
		sig = models.WaitSignal(symbol, m.Name(), price,
			fmt.Sprintf("no directional signal: composite score %.2f inside [%.2f, %.2f]",
				score, m.cfg.SellThreshold, m.cfg.BuyThreshold))
		sig.Indicators = components
		return sig
	}

	atrValues, err := indicators.NewATR(m.cfg.ATRPeriod).Calculate(candles)
	if err != nil {
		return models.WaitSignal(symbol, m.Name(), price, err.Error())
	}
	atr := indicators.Last(atrValues)

	stop := risk.StopLoss(price, side, atr, m.cfg.StopATRMult)
	stop = risk.CapStopLoss(price, stop, side, m.cfg.MaxRiskPercent)
	target := risk.TargetFromStop(price, stop, side, m.cfg.RewardMultiple)
	rr := risk.RiskReward(price, stop, target)

	if rr < m.cfg.MinRiskReward {
		sig = models.WaitSignal(symbol, m.Name(), price,
			fmt.Sprintf("risk/reward %.2f below minimum %.2f", rr, m.cfg.MinRiskReward))
		sig.Indicators = components
		return sig
	}

	return models.TradingSignal{
		Symbol:     symbol,
		Strategy:   m.Name(),
		Action:     side,
		Confidence: clamp(abs(score), 0, m.cfg.MaxConfidence),
		Price:      price,
		StopLoss:   stop,
		TakeProfit: target,
		RiskReward: rr,
		EntryType:  "composite_vote",
		Reason:     fmt.Sprintf("%s: composite score %.2f", side, score),
		Indicators: components,
	}
}

// Score computes the weighted composite in [-1, +1] along with the
// per-component votes.
func (m *MultiIndicator) Score(candles []models.Candle) (float64, map[string]float64, error) {
	components := make(map[string]float64)
	var total, totalWeight float64

	if rsiScore, err := m.rsiScore(candles); err == nil {
		components["rsi_score"] = rsiScore
		total += rsiScore * m.cfg.Weights.RSI
		totalWeight += m.cfg.Weights.RSI
	}

	if emaScore, err := m.emaScore(candles); err == nil {
		components["ema_score"] = emaScore
		total += emaScore * m.cfg.Weights.EMA
		totalWeight += m.cfg.Weights.EMA
	}

	if macdScore, err := m.macdScore(candles); err == nil {
		components["macd_score"] = macdScore
		total += macdScore * m.cfg.Weights.MACD
		totalWeight += m.cfg.Weights.MACD
	}

	if bbScore, err := m.bollingerScore(candles); err == nil {
		components["bollinger_score"] = bbScore
		total += bbScore * m.cfg.Weights.Bollinger
		totalWeight += m.cfg.Weights.Bollinger
	}

	volScore := m.volumeScore(candles)
	components["volume_score"] = volScore
	total += volScore * m.cfg.Weights.Volume
	totalWeight += m.cfg.Weights.Volume

	if totalWeight == 0 {
		return 0, components, fmt.Errorf("no indicator components available")
	}

	score := clamp(total/totalWeight, -1, 1)
	components["composite"] = score
	return score, components, nil
}

// rsiScore maps RSI to [-1, +1]: oversold bullish, overbought bearish.
func (m *MultiIndicator) rsiScore(candles []models.Candle) (float64, error) {
	values, err := indicators.NewRSI(m.cfg.RSIPeriod).Calculate(candles)
	if err != nil {
		return 0, err
	}

	rsi := indicators.Last(values)
	switch {
	case rsi <= 30:
		return 1 - (rsi/30)*0.67, nil
	case rsi <= 50:
		return 0.33 - ((rsi-30)/20)*0.33, nil
	case rsi <= 70:
		return -((rsi - 50) / 20) * 0.33, nil
	default:
		return -0.33 - ((rsi-70)/30)*0.67, nil
	}
}

// emaScore votes on EMA alignment and price position.
func (m *MultiIndicator) emaScore(candles []models.Candle) (float64, error) {
	fastValues, err := indicators.NewEMA(m.cfg.EMAFastPeriod).Calculate(candles)
	if err != nil {
		return 0, err
	}
	slowValues, err := indicators.NewEMA(m.cfg.EMASlowPeriod).Calculate(candles)
	if err != nil {
		return 0, err
	}

	fast := indicators.Last(fastValues)
	slow := indicators.Last(slowValues)
	price := lastClose(candles)

	var score float64
	if fast > slow {
		score += 0.5
	} else {
		score -= 0.5
	}
	if price > fast {
		score += 0.5
	} else {
		score -= 0.5
	}
	return score, nil
}

// macdScore votes on histogram sign and momentum.
func (m *MultiIndicator) macdScore(candles []models.Candle) (float64, error) {
	values, err := indicators.NewMACD(m.cfg.MACDFast, m.cfg.MACDSlow, m.cfg.MACDSignal).Calculate(candles)
	if err != nil {
		return 0, err
	}

	histogram := values["histogram"]
	n := len(histogram)
	curr := histogram[n-1]
	prev := histogram[n-2]

	var score float64
	if curr > 0 {
		score += 0.5
	} else {
		score -= 0.5
	}
	if curr > prev {
		score += 0.5
	} else {
		score -= 0.5
	}
	return score, nil
}

// bollingerScore maps %B to [-1, +1]: the lower band is bullish.
func (m *MultiIndicator) bollingerScore(candles []models.Candle) (float64, error) {
	values, err := indicators.NewBollingerBands(m.cfg.BBPeriod, m.cfg.BBStdDev).Calculate(candles)
	if err != nil {
		return 0, err
	}

	percentB := indicators.Last(values["percent_b"])
	return clamp(1-2*percentB, -1, 1), nil
}

// volumeScore confirms the latest candle's direction when volume runs above
// average; a quiet tape scores zero.
func (m *MultiIndicator) volumeScore(candles []models.Candle) float64 {
	volRatio := indicators.VolumeRatio(candles, m.cfg.VolumePeriod)
	if volRatio <= 1 {
		return 0
	}

	strength := clamp(volRatio-1, 0, 1)
	if candles[len(candles)-1].IsBullish() {
		return strength
	}
	return -strength
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
