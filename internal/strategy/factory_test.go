package strategy

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"crypto-trader/internal/errors"
)

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()

	want := []string{"conservative", "momentum", "multi_indicator", "scalping"}
	if got := r.List(); !reflect.DeepEqual(got, want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}

	for _, name := range want {
		strat, err := r.Create(name)
		if err != nil {
			t.Errorf("Create(%q) error: %v", name, err)
			continue
		}
		if strat.Name() != name {
			t.Errorf("Create(%q).Name() = %q", name, strat.Name())
		}
		if strat.MinBars() <= 0 {
			t.Errorf("%s MinBars = %d, want positive", name, strat.MinBars())
		}
	}
}

func TestRegistryCreateReturnsFreshInstances(t *testing.T) {
	r := NewRegistry()
	a, _ := r.Create("momentum")
	b, _ := r.Create("momentum")
	if a == b {
		t.Error("Create returned the same instance twice")
	}
}

func TestRegistryUnknownName(t *testing.T) {
	r := NewRegistry()
	_, err := r.Create("hodl")
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}

	var unknownErr *errors.UnknownStrategyError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("error type = %T, want *UnknownStrategyError", err)
	}
	if unknownErr.Name != "hodl" {
		t.Errorf("error name = %q, want hodl", unknownErr.Name)
	}
	if len(unknownErr.Available) != 4 {
		t.Errorf("available = %v, want the 4 builtins", unknownErr.Available)
	}
	if !errors.Is(err, errors.ErrUnknownStrategy) {
		t.Error("error does not unwrap to ErrUnknownStrategy")
	}
}

func TestRegistryRegisterValidation(t *testing.T) {
	r := NewRegistry()

	if err := r.Register("", func() Strategy { return NewMomentum() }); err == nil {
		t.Error("expected error for empty name")
	}
	if err := r.Register("custom", nil); err == nil {
		t.Error("expected error for nil constructor")
	}
	if err := r.Register("custom", func() Strategy { return nil }); err == nil {
		t.Error("expected error for nil-returning constructor")
	}
}

func TestRegistryOverwriteAndUnregister(t *testing.T) {
	r := NewRegistry()

	custom := NewMomentumWithConfig(MomentumConfig{
		MinBars: 25, FastPeriod: 5, SlowPeriod: 10, RSIPeriod: 7,
		Oversold: 30, Overbought: 70,
		VolumePeriod: 10, VolumeMultiplier: 1.0,
		ATRPeriod: 7, StopATRMult: 2, RewardMultiple: 2,
		MaxRiskPercent: 3, MinRiskReward: 1,
		BaseConfidence: 0.4, ConfidenceScale: 0.4, MaxConfidence: 0.8,
	})
	if err := r.Register("momentum", func() Strategy { return custom }); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	strat, err := r.Create("momentum")
	if err != nil {
		t.Fatalf("Create after overwrite: %v", err)
	}
	if strat.MinBars() != 25 {
		t.Errorf("overwritten strategy MinBars = %d, want 25", strat.MinBars())
	}

	r.Unregister("momentum")
	if _, err := r.Create("momentum"); err == nil {
		t.Error("expected error after Unregister")
	}

	// Unregistering an unknown name is a no-op
	r.Unregister("nope")
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("custom_%d", i)
			if err := r.Register(name, func() Strategy { return NewMomentum() }); err != nil {
				t.Errorf("Register(%s): %v", name, err)
			}
		}(i)
		go func() {
			defer wg.Done()
			if _, err := r.Create("momentum"); err != nil {
				t.Errorf("Create: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			r.List()
		}()
	}
	wg.Wait()

	if len(r.List()) != 14 {
		t.Errorf("registry has %d entries, want 14", len(r.List()))
	}
}
