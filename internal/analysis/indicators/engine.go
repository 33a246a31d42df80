// Package indicators provides technical indicator calculations over OHLCV windows.
package indicators

import (
	"context"
	"fmt"
	"sync"

	"crypto-trader/internal/models"
)

// Indicator defines the interface for single-value technical indicators.
type Indicator interface {
	Name() string
	Calculate(candles []models.Candle) ([]float64, error)
	Period() int
}

// MultiValueIndicator defines the interface for indicators that return multiple series.
type MultiValueIndicator interface {
	Name() string
	Calculate(candles []models.Candle) (map[string][]float64, error)
	Period() int
}

// Engine provides parallel indicator calculation using a worker pool.
// It is an optional bulk layer: strategies compute their indicators
// directly and stay correct without it.
type Engine struct {
	workers     int
	indicators  map[string]Indicator
	multiIndics map[string]MultiValueIndicator
	mu          sync.RWMutex
}

// NewEngine creates a new indicator engine with the specified number of workers.
func NewEngine(workers int) *Engine {
	if workers <= 0 {
		workers = 4
	}
	return &Engine{
		workers:     workers,
		indicators:  make(map[string]Indicator),
		multiIndics: make(map[string]MultiValueIndicator),
	}
}

// NewDefaultEngine creates an engine pre-loaded with the standard indicator set.
func NewDefaultEngine(workers int) *Engine {
	e := NewEngine(workers)
	e.Register(NewSMA(50))
	e.Register(NewSMA(200))
	e.Register(NewEMA(9))
	e.Register(NewEMA(21))
	e.Register(NewRSI(14))
	e.Register(NewATR(14))
	e.Register(NewVWAP())
	e.Register(NewOBV())
	e.Register(NewVolumeSMA(20))
	e.RegisterMulti(NewBollingerBands(20, 2.0))
	e.RegisterMulti(NewMACD(12, 26, 9))
	return e
}

// Register registers a single-value indicator, replacing any previous one
// with the same name.
func (e *Engine) Register(ind Indicator) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.indicators[ind.Name()] = ind
}

// RegisterMulti registers a multi-value indicator.
func (e *Engine) RegisterMulti(ind MultiValueIndicator) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.multiIndics[ind.Name()] = ind
}

// CalculateAll calculates all registered indicators in parallel.
func (e *Engine) CalculateAll(ctx context.Context, candles []models.Candle) (map[string][]float64, map[string]map[string][]float64, error) {
	e.mu.RLock()
	singles := make([]Indicator, 0, len(e.indicators))
	for _, ind := range e.indicators {
		singles = append(singles, ind)
	}
	multis := make([]MultiValueIndicator, 0, len(e.multiIndics))
	for _, ind := range e.multiIndics {
		multis = append(multis, ind)
	}
	e.mu.RUnlock()

	singleResults := make(map[string][]float64)
	multiResults := make(map[string]map[string][]float64)
	var mu sync.Mutex
	var wg sync.WaitGroup

	singleWork := make(chan Indicator, len(singles))
	multiWork := make(chan MultiValueIndicator, len(multis))

	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ind := range singleWork {
				select {
				case <-ctx.Done():
					return
				default:
					values, err := ind.Calculate(candles)
					if err == nil {
						mu.Lock()
						singleResults[ind.Name()] = values
						mu.Unlock()
					}
				}
			}
		}()
	}

	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ind := range multiWork {
				select {
				case <-ctx.Done():
					return
				default:
					values, err := ind.Calculate(candles)
					if err == nil {
						mu.Lock()
						multiResults[ind.Name()] = values
						mu.Unlock()
					}
				}
			}
		}()
	}

	for _, ind := range singles {
		singleWork <- ind
	}
	close(singleWork)

	for _, ind := range multis {
		multiWork <- ind
	}
	close(multiWork)

	wg.Wait()

	return singleResults, multiResults, nil
}

// Snapshot calculates all registered indicators and reduces each series to
// its most recent value, keyed by indicator name (multi-value indicators use
// "Name.component" keys).
func (e *Engine) Snapshot(ctx context.Context, candles []models.Candle) (map[string]float64, error) {
	singles, multis, err := e.CalculateAll(ctx, candles)
	if err != nil {
		return nil, err
	}

	snapshot := make(map[string]float64, len(singles)+len(multis)*3)
	for name, series := range singles {
		snapshot[name] = Last(series)
	}
	for name, components := range multis {
		for comp, series := range components {
			snapshot[fmt.Sprintf("%s.%s", name, comp)] = Last(series)
		}
	}

	return snapshot, nil
}

// Calculate calculates a specific indicator by name.
func (e *Engine) Calculate(ctx context.Context, name string, candles []models.Candle) ([]float64, error) {
	e.mu.RLock()
	ind, ok := e.indicators[name]
	e.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("indicator %s not found", name)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		return ind.Calculate(candles)
	}
}

// ListIndicators returns the names of all registered single-value indicators.
func (e *Engine) ListIndicators() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.indicators))
	for name := range e.indicators {
		names = append(names, name)
	}
	return names
}

// ListMultiIndicators returns the names of all registered multi-value indicators.
func (e *Engine) ListMultiIndicators() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.multiIndics))
	for name := range e.multiIndics {
		names = append(names, name)
	}
	return names
}
