// Package models defines the domain types shared by the order book, the
// matching engine, the trade journal, and the façades built on top of them.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractID identifies a member of the static contract universe, e.g.
// "UK-BL-MAR-25".
type ContractID string

// Side is the side of an order (Buy or Sell).
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

func (s Side) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *Side) UnmarshalJSON(data []byte) error {
	switch unquote(data) {
	case "buy":
		*s = Buy
	case "sell":
		*s = Sell
	default:
		return fmt.Errorf("unknown side: %s", data)
	}
	return nil
}

// OrderType is Limit or Market.
type OrderType int

const (
	Limit OrderType = iota
	Market
)

func (t OrderType) String() string {
	switch t {
	case Limit:
		return "limit"
	case Market:
		return "market"
	default:
		return "unknown"
	}
}

func (t OrderType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *OrderType) UnmarshalJSON(data []byte) error {
	switch unquote(data) {
	case "limit":
		*t = Limit
	case "market":
		*t = Market
	default:
		return fmt.Errorf("unknown order type: %s", data)
	}
	return nil
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus int

const (
	Open OrderStatus = iota
	PartiallyFilled
	Filled
	Cancelled
)

func (s OrderStatus) String() string {
	switch s {
	case Open:
		return "open"
	case PartiallyFilled:
		return "partially_filled"
	case Filled:
		return "filled"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	switch unquote(data) {
	case "open":
		*s = Open
	case "partially_filled":
		*s = PartiallyFilled
	case "filled":
		*s = Filled
	case "cancelled":
		*s = Cancelled
	default:
		return fmt.Errorf("unknown order status: %s", data)
	}
	return nil
}

func unquote(data []byte) string {
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		return string(data[1 : len(data)-1])
	}
	return string(data)
}

// Order is a single buy or sell order, resting or terminal.
//
// Price is unset (zero Decimal) for a market order at entry; the book
// assigns the resting sentinel (an effectively unbounded price for buy, 0
// for sell) only if a market
// order is ever handed to add_resting, which a correct engine never does
// with remaining quantity > 0 (spec §4.3).
type Order struct {
	ID                uuid.UUID
	ContractID        ContractID
	TraderID          uuid.UUID
	Side              Side
	Type              OrderType
	Price             decimal.Decimal
	Quantity          decimal.Decimal
	RemainingQuantity decimal.Decimal
	Status            OrderStatus
	PlacedAt          time.Time
}

// Validate enforces the entry-time invariants from spec §3 / §4.4.
func (o *Order) Validate() error {
	if o.Quantity.Sign() <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidOrder)
	}
	switch o.Type {
	case Limit:
		if o.Price.Sign() <= 0 {
			return fmt.Errorf("%w: limit order requires a positive price", ErrInvalidOrder)
		}
	case Market:
		if !o.Price.IsZero() {
			return fmt.Errorf("%w: market order must not carry a price", ErrInvalidOrder)
		}
	default:
		return fmt.Errorf("%w: unknown order type", ErrInvalidOrder)
	}
	return nil
}

// FilledQuantity derives the cumulative filled amount from Quantity and
// RemainingQuantity rather than tracking it as separate mutable state.
func (o *Order) FilledQuantity() decimal.Decimal {
	return o.Quantity.Sub(o.RemainingQuantity)
}

func (o *Order) String() string {
	return fmt.Sprintf("Order[id=%s contract=%s side=%s type=%s price=%s remaining=%s/%s status=%s]",
		o.ID, o.ContractID, o.Side, o.Type, o.Price, o.RemainingQuantity, o.Quantity, o.Status)
}
