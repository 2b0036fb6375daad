package book

import (
	"container/list"
	"fmt"

	"ctenex/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// entry is the id-index record: which side/level an order rests on, plus
// the intrusive list handle for O(1) removal (spec §9).
type entry struct {
	order *models.Order
	level *PriceLevel
	elem  *list.Element
}

// OrderBook is the contract-scoped aggregate from spec §4.3: a bid side
// book, an ask side book, and an id index. It carries no internal locking
// — spec §5 makes the owning per-contract matching actor the sole reader
// and writer of a given OrderBook (internal/matching.contractActor), so
// every method here assumes single-goroutine, call-to-completion access.
type OrderBook struct {
	ContractID models.ContractID

	bids  *sideBook
	asks  *sideBook
	index map[uuid.UUID]*entry
}

// NewOrderBook creates an empty order book for one contract.
func NewOrderBook(contractID models.ContractID) *OrderBook {
	return &OrderBook{
		ContractID: contractID,
		bids:       newSideBook(true),
		asks:       newSideBook(false),
		index:      make(map[uuid.UUID]*entry),
	}
}

func (ob *OrderBook) sideBookFor(side models.Side) *sideBook {
	if side == models.Buy {
		return ob.bids
	}
	return ob.asks
}

// marketSentinelBuy/marketSentinelSell are the defensive resting prices
// from spec §4.3. +Inf has no exact decimal representation, so the buy
// sentinel uses an effectively-unbounded decimal instead; the match loop
// never compares against it (market residuals are cancelled, never rested
// with quantity remaining — spec §4.4 step 4), so its exact magnitude is
// immaterial.
var (
	marketSentinelBuy  = decimal.New(1, 100)
	marketSentinelSell = decimal.Zero
)

// AddResting places an order at its price level without matching (spec
// §4.3 add_resting). Fails with ErrInvalidOrder if a limit order carries
// no price.
func (ob *OrderBook) AddResting(o *models.Order) error {
	price := o.Price
	if o.Type == models.Limit {
		if price.Sign() <= 0 {
			return fmt.Errorf("%w: limit order has no price", models.ErrInvalidOrder)
		}
	} else if o.Side == models.Buy {
		price = marketSentinelBuy
	} else {
		price = marketSentinelSell
	}

	sb := ob.sideBookFor(o.Side)
	lvl := sb.levelAt(price, true)
	elem := lvl.append(o)
	ob.index[o.ID] = &entry{order: o, level: lvl, elem: elem}
	return nil
}

// remove deletes the order referenced by e from its level and the id
// index.
func (ob *OrderBook) remove(o *models.Order, e *entry) {
	e.level.remove(e.elem)
	ob.sideBookFor(o.Side).dropIfEmpty(e.level.price)
	delete(ob.index, o.ID)
}

// Cancel marks order_id cancelled and removes it from its side book and
// the id index (spec §4.3 cancel). Returns ErrNotFound if the order is
// absent, already filled, or already cancelled.
func (ob *OrderBook) Cancel(orderID uuid.UUID) (*models.Order, error) {
	e, ok := ob.index[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", models.ErrNotFound, orderID)
	}
	ob.remove(e.order, e)
	e.order.Status = models.Cancelled
	return e.order, nil
}

// BestBidPrice returns the current best (highest) bid price.
func (ob *OrderBook) BestBidPrice() (decimal.Decimal, bool) { return ob.bids.bestPrice() }

// BestAskPrice returns the current best (lowest) ask price.
func (ob *OrderBook) BestAskPrice() (decimal.Decimal, bool) { return ob.asks.bestPrice() }

// BestBidOrder returns the oldest order resting at the best bid price.
func (ob *OrderBook) BestBidOrder() *models.Order { return frontOf(ob.bids.best()) }

// BestAskOrder returns the oldest order resting at the best ask price.
func (ob *OrderBook) BestAskOrder() *models.Order { return frontOf(ob.asks.best()) }

func frontOf(lvl *PriceLevel) *models.Order {
	if lvl == nil {
		return nil
	}
	return lvl.PeekFront()
}

// GetOrder is a point lookup by id. It returns a value copy, not the live
// order resting in the book: the order may still be matched and mutated in
// place by a later command on this same actor, so a pointer into the index
// must never escape past this call (spec §5 "readers observe a consistent
// snapshot between writer operations").
func (ob *OrderBook) GetOrder(orderID uuid.UUID) (models.Order, bool) {
	e, ok := ob.index[orderID]
	if !ok {
		return models.Order{}, false
	}
	return *e.order, true
}

// GetOrders returns a snapshot of every resting order, unspecified order
// (spec §4.3 get_orders), as value copies for the same reason GetOrder
// copies: the originals remain live and mutable in the book after this
// call returns.
func (ob *OrderBook) GetOrders() []models.Order {
	out := make([]models.Order, 0, len(ob.index))
	for _, e := range ob.index {
		out = append(out, *e.order)
	}
	return out
}

// BestOpposing returns the best price level on the side opposite to side —
// the asks for an incoming buy, the bids for an incoming sell. Used by the
// matching engine to find the next candidate during the match loop (spec
// §4.4). Having both directions read through each side's own comparator,
// rather than a single query parameterised by "ascending", is what makes
// the original source's buy/sell ordering bug (spec §9) structurally
// impossible here: there is no second call site that could sort the wrong
// way.
func (ob *OrderBook) BestOpposing(side models.Side) *PriceLevel {
	if side == models.Buy {
		return ob.asks.best()
	}
	return ob.bids.best()
}

// Fill applies a match between aggressor and resting for quantity fill:
// decrements both remaining quantities, updates resting's status, and
// removes resting from the book if it is now fully filled. It never
// touches the aggressor's book membership — the match loop decides
// whether the aggressor rests, is cancelled, or is done once it exits.
func (ob *OrderBook) Fill(aggressor, resting *models.Order, fill decimal.Decimal) {
	aggressor.RemainingQuantity = aggressor.RemainingQuantity.Sub(fill)
	resting.RemainingQuantity = resting.RemainingQuantity.Sub(fill)

	if resting.RemainingQuantity.IsZero() {
		resting.Status = models.Filled
		if e, ok := ob.index[resting.ID]; ok {
			ob.remove(resting, e)
		}
	} else {
		resting.Status = models.PartiallyFilled
	}
}

