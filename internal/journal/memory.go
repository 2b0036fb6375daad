package journal

import (
	"context"
	"sync"

	"ctenex/internal/models"
	"github.com/google/uuid"
)

// MemoryJournal is the default, always-available sink: purely in-memory,
// append-only, ordered by insertion within each contract (spec §4.5). It
// has no home for JournalUnavailable — an in-memory append cannot fail —
// so Health always returns nil.
type MemoryJournal struct {
	mu         sync.RWMutex
	byContract map[models.ContractID][]models.Trade
}

// NewMemoryJournal creates an empty in-memory journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{byContract: make(map[models.ContractID][]models.Trade)}
}

func (j *MemoryJournal) Append(_ context.Context, trade models.Trade) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.byContract[trade.ContractID] = append(j.byContract[trade.ContractID], trade)
	return nil
}

func (j *MemoryJournal) ListByContract(_ context.Context, contractID models.ContractID) ([]models.Trade, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	trades := j.byContract[contractID]
	out := make([]models.Trade, len(trades))
	copy(out, trades)
	return out, nil
}

func (j *MemoryJournal) ListByOrder(_ context.Context, orderID uuid.UUID) ([]models.Trade, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	var out []models.Trade
	for _, trades := range j.byContract {
		for _, t := range trades {
			if t.BuyOrderID == orderID || t.SellOrderID == orderID {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (j *MemoryJournal) Health() error { return nil }
