package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"crypto-trader/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "signals.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSignal(symbol, strategy string, action models.SignalAction, ts time.Time) models.TradingSignal {
	return models.TradingSignal{
		Symbol:     symbol,
		Strategy:   strategy,
		Action:     action,
		Confidence: 0.8,
		Price:      45000.5,
		StopLoss:   44800,
		TakeProfit: 45400,
		RiskReward: 2.0,
		EntryType:  "ema_cross",
		Reason:     "test signal",
		Indicators: map[string]float64{"rsi": 42.5, "atr": 120.0},
		Timestamp:  ts,
	}
}

func TestSaveAndGetSignal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sig := sampleSignal("BTCUSDT", "momentum", models.ActionBuy, time.Now().UTC())
	if err := s.SaveSignal(ctx, sig); err != nil {
		t.Fatalf("SaveSignal: %v", err)
	}

	signals, err := s.GetSignals(ctx, SignalFilter{Symbol: "BTCUSDT"})
	if err != nil {
		t.Fatalf("GetSignals: %v", err)
	}
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}

	got := signals[0]
	if got.Symbol != sig.Symbol || got.Strategy != sig.Strategy || got.Action != sig.Action {
		t.Errorf("round trip changed identity: %+v", got)
	}
	if got.Price != sig.Price || got.StopLoss != sig.StopLoss || got.TakeProfit != sig.TakeProfit {
		t.Errorf("round trip changed prices: %+v", got)
	}
	if got.Indicators["rsi"] != 42.5 {
		t.Errorf("indicators not preserved: %v", got.Indicators)
	}
}

func TestGetSignalsFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	fixtures := []models.TradingSignal{
		sampleSignal("BTCUSDT", "momentum", models.ActionBuy, base),
		sampleSignal("BTCUSDT", "scalping", models.ActionSell, base.Add(time.Hour)),
		sampleSignal("ETHUSDT", "momentum", models.ActionWait, base.Add(2*time.Hour)),
	}
	for _, sig := range fixtures {
		if err := s.SaveSignal(ctx, sig); err != nil {
			t.Fatalf("SaveSignal: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter SignalFilter
		want   int
	}{
		{"all", SignalFilter{}, 3},
		{"by symbol", SignalFilter{Symbol: "BTCUSDT"}, 2},
		{"by strategy", SignalFilter{Strategy: "momentum"}, 2},
		{"by action", SignalFilter{Action: models.ActionSell}, 1},
		{"by symbol and strategy", SignalFilter{Symbol: "BTCUSDT", Strategy: "momentum"}, 1},
		{"from cutoff", SignalFilter{From: base.Add(30 * time.Minute)}, 2},
		{"to cutoff", SignalFilter{To: base.Add(30 * time.Minute)}, 1},
		{"limit", SignalFilter{Limit: 2}, 2},
		{"no match", SignalFilter{Symbol: "SOLUSDT"}, 0},
	}

	for _, tt := range tests {
		signals, err := s.GetSignals(ctx, tt.filter)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if len(signals) != tt.want {
			t.Errorf("%s: got %d signals, want %d", tt.name, len(signals), tt.want)
		}
	}
}

func TestGetSignalsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		sig := sampleSignal("BTCUSDT", "momentum", models.ActionBuy, base.Add(time.Duration(i)*time.Hour))
		if err := s.SaveSignal(ctx, sig); err != nil {
			t.Fatalf("SaveSignal: %v", err)
		}
	}

	signals, err := s.GetSignals(ctx, SignalFilter{})
	if err != nil {
		t.Fatalf("GetSignals: %v", err)
	}
	for i := 1; i < len(signals); i++ {
		if signals[i].Timestamp.After(signals[i-1].Timestamp) {
			t.Fatal("signals not ordered newest first")
		}
	}
}

func TestSaveSignalWithoutIndicators(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sig := models.WaitSignal("BTCUSDT", "momentum", 45000, "insufficient data")
	if err := s.SaveSignal(ctx, sig); err != nil {
		t.Fatalf("SaveSignal: %v", err)
	}

	signals, err := s.GetSignals(ctx, SignalFilter{})
	if err != nil {
		t.Fatalf("GetSignals: %v", err)
	}
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
	if signals[0].Indicators != nil {
		t.Errorf("expected nil indicators, got %v", signals[0].Indicators)
	}
	if signals[0].Reason != "insufficient data" {
		t.Errorf("reason = %q", signals[0].Reason)
	}
}
