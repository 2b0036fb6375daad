// Package journal implements the append-only trade sink (component D,
// spec §4.5): a pluggable component the matching engine hands generated
// trades to, kept out of the match loop's hot path (spec §9 "Persistence").
package journal

import (
	"context"

	"ctenex/internal/models"
	"github.com/google/uuid"
)

// Journal is the trade-journal interface from spec §4.5, plus a Health
// check used to surface JournalUnavailable as a liveness signal (spec §7).
type Journal interface {
	// Append records a trade. Ordering within a contract must follow
	// insertion order — the only caller is the per-contract matching
	// actor, so this is never called concurrently for the same contract.
	Append(ctx context.Context, trade models.Trade) error

	// ListByContract returns every trade for a contract in insertion
	// order.
	ListByContract(ctx context.Context, contractID models.ContractID) ([]models.Trade, error)

	// ListByOrder returns every trade referencing orderID as either its
	// buy or sell side, in insertion order.
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Trade, error)

	// Health reports a non-nil error when the sink is degraded, surfacing
	// JournalUnavailable as a health signal (spec §7). Implementations in
	// this package do not retry a failed append; the trade is dropped from
	// the sink.
	Health() error
}
