// Package book implements the price-time-priority order book: the
// price-level FIFO queue (A), the per-side ordered price map (B), and the
// contract-scoped order book aggregate (C) from spec §4.
package book

import (
	"container/list"

	"ctenex/internal/models"
	"github.com/shopspring/decimal"
)

// PriceLevel is a FIFO queue of resting orders at one price on one side
// (spec §4.1). It is backed by container/list so that a handle into the
// list (a *list.Element) can be cached in the order book's id index,
// giving O(1) amortized remove(order_id) — the "intrusive list node"
// arrangement spec §9 calls for.
type PriceLevel struct {
	price  decimal.Decimal
	orders list.List // list.Element.Value is *models.Order
}

func newPriceLevel(price decimal.Decimal) *PriceLevel {
	pl := &PriceLevel{price: price}
	pl.orders.Init()
	return pl
}

// Price reports the level's price.
func (pl *PriceLevel) Price() decimal.Decimal { return pl.price }

// append adds an order to the back of the level and returns the handle
// needed for O(1) removal later.
func (pl *PriceLevel) append(o *models.Order) *list.Element {
	return pl.orders.PushBack(o)
}

// PeekFront returns the oldest order at this level, or nil if empty. The
// front of a level is always the next candidate for a match (FIFO, spec
// §4.1).
func (pl *PriceLevel) PeekFront() *models.Order {
	front := pl.orders.Front()
	if front == nil {
		return nil
	}
	return front.Value.(*models.Order)
}

// remove deletes the order referenced by elem from the level.
func (pl *PriceLevel) remove(elem *list.Element) {
	pl.orders.Remove(elem)
}

func (pl *PriceLevel) isEmpty() bool {
	return pl.orders.Len() == 0
}

// TotalQuantity sums RemainingQuantity across every order resting at this
// level.
func (pl *PriceLevel) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for e := pl.orders.Front(); e != nil; e = e.Next() {
		total = total.Add(e.Value.(*models.Order).RemainingQuantity)
	}
	return total
}

// Orders returns every order at this level, oldest first. Nothing on the
// matching hot path calls it; depth snapshots use TotalQuantity instead.
func (pl *PriceLevel) Orders() []*models.Order {
	out := make([]*models.Order, 0, pl.orders.Len())
	for e := pl.orders.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*models.Order))
	}
	return out
}
