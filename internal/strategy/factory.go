package strategy

import (
	"sort"
	"sync"

	"crypto-trader/internal/errors"
)

// Constructor builds a fresh strategy instance.
type Constructor func() Strategy

// Registry maps strategy names to constructors. The built-in strategies are
// always present; the composition root may register more at startup.
// Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewRegistry creates a registry pre-loaded with the built-in strategies.
func NewRegistry() *Registry {
	r := &Registry{ctors: make(map[string]Constructor)}
	r.Register("momentum", func() Strategy { return NewMomentum() })
	r.Register("scalping", func() Strategy { return NewScalping() })
	r.Register("conservative", func() Strategy { return NewConservative() })
	r.Register("multi_indicator", func() Strategy { return NewMultiIndicator() })
	return r
}

// Register adds a named constructor, silently overwriting any existing
// entry. The constructor is probed once so a broken registration surfaces
// here rather than at Create time.
func (r *Registry) Register(name string, ctor Constructor) error {
	if name == "" {
		return errors.NewValidationError("name", name, "strategy name must not be empty")
	}
	if ctor == nil {
		return errors.NewValidationError("constructor", nil, "strategy constructor must not be nil")
	}
	if ctor() == nil {
		return errors.NewValidationError("constructor", name, "strategy constructor returned nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[name] = ctor
	return nil
}

// Unregister removes a named constructor. Removing an unknown name is a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ctors, name)
}

// Create builds a strategy by name. An unknown name yields an error listing
// the registered names; the caller decides whether to fall back.
func (r *Registry) Create(name string) (Strategy, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[name]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.NewUnknownStrategyError(name, r.List())
	}
	return ctor(), nil
}

// List returns the registered strategy names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
