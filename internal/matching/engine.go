package matching

import (
	"context"
	"fmt"

	"ctenex/internal/book"
	"ctenex/internal/journal"
	"ctenex/internal/metrics"
	"ctenex/internal/models"
	"github.com/google/uuid"
)

// Engine owns one contractActor per member of the static contract universe
// (spec §4.2) and routes every operation to the actor for the order's
// contract. The set of contracts is fixed at construction time — unlike
// the teacher's lazily-grown map, spec §4.2 treats the contract universe as
// configuration, not something orders can expand (see internal/config).
type Engine struct {
	actors  map[models.ContractID]*contractActor
	journal journal.Journal
	metrics *metrics.Metrics
}

// NewEngine starts one actor per contract in contractIDs.
func NewEngine(contractIDs []models.ContractID, j journal.Journal, m *metrics.Metrics) *Engine {
	e := &Engine{
		actors:  make(map[models.ContractID]*contractActor, len(contractIDs)),
		journal: j,
		metrics: m,
	}
	for _, id := range contractIDs {
		a := newContractActor(id, j, m)
		a.start()
		e.actors[id] = a
	}
	return e
}

func (e *Engine) actorFor(contractID models.ContractID) (*contractActor, error) {
	a, ok := e.actors[contractID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownContract, contractID)
	}
	return a, nil
}

// AddOrder is the engine's add_order operation (spec §4.4): it validates,
// dispatches to the order's contract actor, and returns the (possibly
// mutated) order together with every trade the match loop produced.
func (e *Engine) AddOrder(_ context.Context, order *models.Order) (*models.Order, []models.Trade, error) {
	if err := order.Validate(); err != nil {
		return nil, nil, err
	}
	a, err := e.actorFor(order.ContractID)
	if err != nil {
		return nil, nil, err
	}

	res := a.submit(command{kind: cmdAddOrder, order: order})
	if res.err != nil {
		return nil, nil, res.err
	}
	return res.order, res.trades, nil
}

// CancelOrder is spec §4.3's cancel operation, scoped to one contract.
func (e *Engine) CancelOrder(_ context.Context, contractID models.ContractID, orderID uuid.UUID) (*models.Order, error) {
	a, err := e.actorFor(contractID)
	if err != nil {
		return nil, err
	}
	res := a.submit(command{kind: cmdCancelOrder, orderID: orderID})
	if res.err != nil {
		return nil, res.err
	}
	return res.order, nil
}

// GetOrder looks up a resting order by id within one contract. The
// returned order is a value copy taken by the owning actor before it
// relinquished exclusive access, so it stays consistent even if the live
// order is matched or cancelled immediately afterward.
func (e *Engine) GetOrder(_ context.Context, contractID models.ContractID, orderID uuid.UUID) (models.Order, error) {
	a, err := e.actorFor(contractID)
	if err != nil {
		return models.Order{}, err
	}
	res := a.submit(command{kind: cmdGetOrder, orderID: orderID})
	if res.err != nil {
		return models.Order{}, res.err
	}
	return *res.order, nil
}

// GetOrders returns every resting order for one contract (spec §4.3
// get_orders), as value copies for the same reason GetOrder returns one.
func (e *Engine) GetOrders(_ context.Context, contractID models.ContractID) ([]models.Order, error) {
	a, err := e.actorFor(contractID)
	if err != nil {
		return nil, err
	}
	res := a.submit(command{kind: cmdGetOrders})
	return res.orders, res.err
}

// Snapshot returns the aggregated depth for one contract, limited to the
// top limit price levels per side (limit <= 0 means unlimited).
func (e *Engine) Snapshot(_ context.Context, contractID models.ContractID, limit int) (book.Depth, error) {
	a, err := e.actorFor(contractID)
	if err != nil {
		return book.Depth{}, err
	}
	res := a.submit(command{kind: cmdSnapshot, depthLimit: limit})
	return res.depth, res.err
}

// Contracts returns the fixed set of contract ids this engine serves.
func (e *Engine) Contracts() []models.ContractID {
	out := make([]models.ContractID, 0, len(e.actors))
	for id := range e.actors {
		out = append(out, id)
	}
	return out
}

// Stop drains and halts every contract actor. Call during graceful
// shutdown only; in-flight submit calls made after Stop begins will block
// forever, so callers must stop accepting new requests first.
func (e *Engine) Stop() {
	for _, a := range e.actors {
		a.stop()
	}
}
