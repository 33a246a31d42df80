// Package store provides signal journal persistence.
package store

import (
	"context"
	"time"

	"crypto-trader/internal/models"
)

// SignalStore defines the interface for the signal journal. The engine core
// never writes here itself; the composition root journals emitted signals
// for audit.
type SignalStore interface {
	SaveSignal(ctx context.Context, sig models.TradingSignal) error
	GetSignals(ctx context.Context, filter SignalFilter) ([]models.TradingSignal, error)
	Close() error
}

// SignalFilter narrows signal journal queries. Zero values mean "any".
type SignalFilter struct {
	Symbol   string
	Strategy string
	Action   models.SignalAction
	From     time.Time
	To       time.Time
	Limit    int
}
