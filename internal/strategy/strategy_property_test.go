package strategy

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"crypto-trader/internal/models"
)

// candleGen generates valid candle data with realistic OHLCV values
func candleGen() gopter.Gen {
	return gen.Struct(reflect.TypeOf(models.Candle{}), map[string]gopter.Gen{
		"Timestamp": gen.TimeRange(time.Now().Add(-365*24*time.Hour), time.Hour),
		"Open":      gen.Float64Range(100.0, 1000.0),
		"High":      gen.Float64Range(100.0, 1000.0),
		"Low":       gen.Float64Range(100.0, 1000.0),
		"Close":     gen.Float64Range(100.0, 1000.0),
		"Volume":    gen.Float64Range(1000, 10000000),
	}).Map(repairCandle)
}

func repairCandle(c models.Candle) models.Candle {
	if c.Open <= 0 {
		c.Open = 100.0
	}
	if c.Close <= 0 {
		c.Close = 100.0
	}
	if c.Volume < 0 {
		c.Volume = 1000
	}
	c.High = math.Max(c.High, math.Max(c.Open, c.Close))
	c.Low = math.Min(c.Low, math.Min(c.Open, c.Close))
	if c.Low <= 0 {
		c.Low = math.Min(c.Open, c.Close)
	}
	if c.Low > c.High {
		c.Low, c.High = c.High, c.Low
	}
	return c
}

// candleSliceGen generates a slice of valid candles with increasing timestamps
func candleSliceGen(minLen, maxLen int) gopter.Gen {
	return gen.SliceOfN(maxLen, candleGen()).Map(func(candles []models.Candle) []models.Candle {
		for len(candles) < minLen {
			candles = append(candles, candles[len(candles)-1])
		}
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := range candles {
			candles[i] = repairCandle(candles[i])
			candles[i].Timestamp = base.Add(time.Duration(i) * time.Minute)
		}
		return candles
	})
}

func TestProperty_AnalyzeNeverPanicsAndAlwaysDecides(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("every window produces a well-formed signal", prop.ForAll(
		func(candles []models.Candle) bool {
			for _, strat := range allStrategies() {
				sig := strat.Analyze(candles, "BTCUSDT")
				if sig.Action != models.ActionBuy && sig.Action != models.ActionSell && sig.Action != models.ActionWait {
					return false
				}
				if sig.Confidence < 0 || sig.Confidence > 1 || math.IsNaN(sig.Confidence) {
					return false
				}
				if sig.Symbol != "BTCUSDT" || sig.Strategy != strat.Name() {
					return false
				}
				if sig.Action == models.ActionWait && sig.Reason == "" {
					return false
				}
			}
			return true
		},
		candleSliceGen(0, 250),
	))

	properties.TestingRun(t)
}

func TestProperty_ActionableSignalStopOrdering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("BUY stops below price and targets above, SELL mirrored", prop.ForAll(
		func(candles []models.Candle) bool {
			for _, strat := range allStrategies() {
				sig := strat.Analyze(candles, "ETHUSDT")
				if !sig.IsActionable() {
					continue
				}
				if sig.Action == models.ActionBuy {
					if !(sig.StopLoss < sig.Price && sig.Price < sig.TakeProfit) {
						return false
					}
				} else {
					if !(sig.TakeProfit < sig.Price && sig.Price < sig.StopLoss) {
						return false
					}
				}
				if sig.RiskReward <= 0 {
					return false
				}
			}
			return true
		},
		candleSliceGen(200, 250),
	))

	properties.TestingRun(t)
}

func TestProperty_WaitSignalsCarryNoStops(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("WAIT signals have zero confidence and zero stops", prop.ForAll(
		func(candles []models.Candle) bool {
			for _, strat := range allStrategies() {
				sig := strat.Analyze(candles, "BTCUSDT")
				if sig.Action != models.ActionWait {
					continue
				}
				if sig.Confidence != 0 || sig.StopLoss != 0 || sig.TakeProfit != 0 || sig.RiskReward != 0 {
					return false
				}
			}
			return true
		},
		candleSliceGen(0, 250),
	))

	properties.TestingRun(t)
}

func TestProperty_AnalyzeDoesNotMutateWindow(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("the input window is unchanged after analysis", prop.ForAll(
		func(candles []models.Candle) bool {
			before := make([]models.Candle, len(candles))
			copy(before, candles)

			for _, strat := range allStrategies() {
				strat.Analyze(candles, "BTCUSDT")
			}
			return reflect.DeepEqual(before, candles)
		},
		candleSliceGen(50, 150),
	))

	properties.TestingRun(t)
}
