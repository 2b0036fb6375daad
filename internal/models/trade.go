package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trade is an immutable record of a single match.
type Trade struct {
	ID          uuid.UUID
	ContractID  ContractID
	BuyOrderID  uuid.UUID
	SellOrderID uuid.UUID
	Price       decimal.Decimal
	Quantity    decimal.Decimal
	GeneratedAt time.Time
}

// NewTrade stamps a new trade record. GeneratedAt is passed in rather than
// taken from time.Now() so the matching actor can assign one clock reading
// to the whole batch of trades produced by a single add_order call.
func NewTrade(contractID ContractID, buyOrderID, sellOrderID uuid.UUID, price, quantity decimal.Decimal, at time.Time) Trade {
	return Trade{
		ID:          uuid.New(),
		ContractID:  contractID,
		BuyOrderID:  buyOrderID,
		SellOrderID: sellOrderID,
		Price:       price,
		Quantity:    quantity,
		GeneratedAt: at,
	}
}

func (t Trade) String() string {
	return fmt.Sprintf("Trade[id=%s contract=%s buy=%s sell=%s price=%s qty=%s]",
		t.ID, t.ContractID, t.BuyOrderID, t.SellOrderID, t.Price, t.Quantity)
}
