package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewOrder constructs a freshly-submitted order with RemainingQuantity
// initialized to Quantity and Status set to Open, per spec §4.4 step 1.
func NewOrder(contractID ContractID, traderID uuid.UUID, side Side, typ OrderType, price, quantity decimal.Decimal, placedAt time.Time) *Order {
	return &Order{
		ID:                uuid.New(),
		ContractID:        contractID,
		TraderID:          traderID,
		Side:              side,
		Type:              typ,
		Price:             price,
		Quantity:          quantity,
		RemainingQuantity: quantity,
		Status:            Open,
		PlacedAt:          placedAt,
	}
}
