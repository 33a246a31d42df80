package indicators

import (
	"fmt"

	"crypto-trader/internal/models"
)

// VWAP calculates Volume Weighted Average Price.
type VWAP struct{}

// NewVWAP creates a new VWAP indicator.
func NewVWAP() *VWAP {
	return &VWAP{}
}

func (v *VWAP) Name() string {
	return "VWAP"
}

func (v *VWAP) Period() int {
	return 1
}

func (v *VWAP) Calculate(candles []models.Candle) ([]float64, error) {
	if len(candles) == 0 {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	result := make([]float64, n)

	var cumulativeTPV float64 // Cumulative Typical Price * Volume
	var cumulativeVol float64

	for i := 0; i < n; i++ {
		tp := typicalPrice(candles[i])
		cumulativeTPV += tp * candles[i].Volume
		cumulativeVol += candles[i].Volume

		if cumulativeVol != 0 {
			result[i] = cumulativeTPV / cumulativeVol
		}
	}

	return result, nil
}

// OBV calculates On-Balance Volume.
type OBV struct{}

// NewOBV creates a new OBV indicator.
func NewOBV() *OBV {
	return &OBV{}
}

func (o *OBV) Name() string {
	return "OBV"
}

func (o *OBV) Period() int {
	return 1
}

func (o *OBV) Calculate(candles []models.Candle) ([]float64, error) {
	if len(candles) == 0 {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	result := make([]float64, n)
	result[0] = candles[0].Volume

	for i := 1; i < n; i++ {
		switch {
		case candles[i].Close > candles[i-1].Close:
			result[i] = result[i-1] + candles[i].Volume
		case candles[i].Close < candles[i-1].Close:
			result[i] = result[i-1] - candles[i].Volume
		default:
			result[i] = result[i-1]
		}
	}

	return result, nil
}

// VolumeSMA calculates the simple moving average of volume.
type VolumeSMA struct {
	period int
}

// NewVolumeSMA creates a new VolumeSMA indicator.
func NewVolumeSMA(period int) *VolumeSMA {
	return &VolumeSMA{period: period}
}

func (v *VolumeSMA) Name() string {
	return fmt.Sprintf("VolumeSMA_%d", v.period)
}

func (v *VolumeSMA) Period() int {
	return v.period
}

func (v *VolumeSMA) Calculate(candles []models.Candle) ([]float64, error) {
	if v.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < v.period {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	result := make([]float64, n)
	vols := volumes(candles)

	for i := v.period - 1; i < n; i++ {
		result[i] = mean(vols[i-v.period+1 : i+1])
	}

	return result, nil
}

// VolumeRatio returns the ratio of the latest volume to the rolling average
// of the preceding period bars. Returns 1 when the average is zero so a dead
// market never divides by zero.
func VolumeRatio(candles []models.Candle, period int) float64 {
	n := len(candles)
	if period <= 0 || n < period+1 {
		return 1
	}

	avg := mean(volumes(candles[n-period-1 : n-1]))
	if avg == 0 {
		return 1
	}
	return candles[n-1].Volume / avg
}
