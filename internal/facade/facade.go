// Package facade assembles the matching engine and the trade journal
// behind the four public core operations from spec §4 component F / §6.1:
// PlaceOrder, CancelOrder, ListOrders, and ListTrades. It is the seam
// between the wire-level HTTP layer (internal/api) and the core engine —
// internal/api never talks to internal/matching directly.
package facade

import (
	"context"
	"fmt"
	"time"

	"ctenex/internal/journal"
	"ctenex/internal/matching"
	"ctenex/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderRequest is the caller-supplied shape for placing a new order.
type OrderRequest struct {
	ContractID models.ContractID
	TraderID   uuid.UUID
	Side       models.Side
	Type       models.OrderType
	Price      decimal.Decimal
	Quantity   decimal.Decimal
}

// OrderAck is what PlaceOrder returns: the accepted (and possibly already
// filled/cancelled) order plus every trade it generated.
type OrderAck struct {
	Order  models.Order
	Trades []models.Trade
}

// SortOrder is ascending or descending.
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// OrderFilter narrows a ListOrders call (spec §6). A zero value of any
// pointer field means "unconstrained" on that dimension.
type OrderFilter struct {
	TraderID        *uuid.UUID
	Side            *models.Side
	Type            *models.OrderType
	Status          *models.OrderStatus
	Price           *decimal.Decimal
	Quantity        *decimal.Decimal
	PlacedAtOrAfter *time.Time
	PlacedBefore    *time.Time
	SortBy          string // only "placed_at" is supported
	SortOrder       SortOrder
}

// TradeFilter narrows a ListTrades call to trades referencing one order,
// on either side.
type TradeFilter struct {
	BuyOrderID  *uuid.UUID
	SellOrderID *uuid.UUID
}

// Facade is the core API surface spec.md §6.1 names.
type Facade interface {
	PlaceOrder(ctx context.Context, req OrderRequest) (OrderAck, error)
	CancelOrder(ctx context.Context, contractID models.ContractID, orderID uuid.UUID) (models.Order, error)
	ListOrders(ctx context.Context, contractID models.ContractID, filter OrderFilter) ([]models.Order, error)
	ListTrades(ctx context.Context, contractID models.ContractID, filter TradeFilter) ([]models.Trade, error)
	ListContracts(ctx context.Context) []models.ContractID
	Health(ctx context.Context) error
}

type facade struct {
	engine  *matching.Engine
	journal journal.Journal
}

// New assembles a Facade from an already-running engine and its journal.
func New(engine *matching.Engine, j journal.Journal) Facade {
	return &facade{engine: engine, journal: j}
}

func (f *facade) PlaceOrder(ctx context.Context, req OrderRequest) (OrderAck, error) {
	order := models.NewOrder(req.ContractID, req.TraderID, req.Side, req.Type, req.Price, req.Quantity, time.Now())
	result, trades, err := f.engine.AddOrder(ctx, order)
	if err != nil {
		return OrderAck{}, err
	}
	return OrderAck{Order: *result, Trades: trades}, nil
}

func (f *facade) CancelOrder(ctx context.Context, contractID models.ContractID, orderID uuid.UUID) (models.Order, error) {
	order, err := f.engine.CancelOrder(ctx, contractID, orderID)
	if err != nil {
		return models.Order{}, err
	}
	return *order, nil
}

func (f *facade) ListOrders(ctx context.Context, contractID models.ContractID, filter OrderFilter) ([]models.Order, error) {
	if filter.SortBy != "" && filter.SortBy != "placed_at" {
		return nil, fmt.Errorf("%w: unsupported sort field %q", models.ErrInvalidFilter, filter.SortBy)
	}
	if filter.PlacedAtOrAfter != nil && filter.PlacedBefore != nil && !filter.PlacedBefore.After(*filter.PlacedAtOrAfter) {
		return nil, fmt.Errorf("%w: placed_before must be after placed_at_or_after", models.ErrInvalidFilter)
	}

	orders, err := f.engine.GetOrders(ctx, contractID)
	if err != nil {
		return nil, err
	}

	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if matchesOrderFilter(o, filter) {
			out = append(out, o)
		}
	}
	sortOrders(out, filter.SortOrder)
	return out, nil
}

func (f *facade) ListTrades(ctx context.Context, contractID models.ContractID, filter TradeFilter) ([]models.Trade, error) {
	trades, err := f.journal.ListByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if filter.BuyOrderID == nil && filter.SellOrderID == nil {
		return trades, nil
	}

	out := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if filter.BuyOrderID != nil && t.BuyOrderID != *filter.BuyOrderID {
			continue
		}
		if filter.SellOrderID != nil && t.SellOrderID != *filter.SellOrderID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// ListContracts reports the contract universe the engine is actually
// serving, as opposed to what configuration declared (see internal/config
// and cmd/server/main.go, which build the engine from the same set).
func (f *facade) ListContracts(_ context.Context) []models.ContractID {
	return f.engine.Contracts()
}

func (f *facade) Health(ctx context.Context) error {
	return f.journal.Health()
}

func matchesOrderFilter(o models.Order, filter OrderFilter) bool {
	if filter.TraderID != nil && o.TraderID != *filter.TraderID {
		return false
	}
	if filter.Side != nil && o.Side != *filter.Side {
		return false
	}
	if filter.Type != nil && o.Type != *filter.Type {
		return false
	}
	if filter.Status != nil && o.Status != *filter.Status {
		return false
	}
	if filter.Price != nil && !o.Price.Equal(*filter.Price) {
		return false
	}
	if filter.Quantity != nil && !o.Quantity.Equal(*filter.Quantity) {
		return false
	}
	if filter.PlacedAtOrAfter != nil && o.PlacedAt.Before(*filter.PlacedAtOrAfter) {
		return false
	}
	if filter.PlacedBefore != nil && !o.PlacedAt.Before(*filter.PlacedBefore) {
		return false
	}
	return true
}

func sortOrders(orders []models.Order, order SortOrder) {
	less := func(i, j int) bool { return orders[i].PlacedAt.Before(orders[j].PlacedAt) }
	if order == SortDescending {
		less = func(i, j int) bool { return orders[i].PlacedAt.After(orders[j].PlacedAt) }
	}
	insertionSortOrders(orders, less)
}

// insertionSortOrders keeps ordering stable for equal timestamps, which a
// library sort would not guarantee without an explicit tie-breaker.
func insertionSortOrders(orders []models.Order, less func(i, j int) bool) {
	for i := 1; i < len(orders); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			orders[j], orders[j-1] = orders[j-1], orders[j]
		}
	}
}

