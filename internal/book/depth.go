package book

import "github.com/shopspring/decimal"

// DepthLevel is one aggregated row of a depth snapshot.
type DepthLevel struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// Depth is an aggregated, point-in-time view of both sides of a book,
// generalizing the teacher's OrderBookDepth/PriceLevelData
// (internal/matching/engine.go in the teacher) from int64 prices to
// decimal ones.
type Depth struct {
	ContractID string
	Bids       []DepthLevel
	Asks       []DepthLevel
}

// Snapshot builds a Depth view, limiting each side to limit levels
// (0 = unlimited), improving-price first on each side.
func (ob *OrderBook) Snapshot(limit int) Depth {
	d := Depth{ContractID: string(ob.ContractID)}
	d.Bids = levelRows(ob.bids.levels(), limit)
	d.Asks = levelRows(ob.asks.levels(), limit)
	return d
}

func levelRows(levels []*PriceLevel, limit int) []DepthLevel {
	if limit > 0 && limit < len(levels) {
		levels = levels[:limit]
	}
	rows := make([]DepthLevel, 0, len(levels))
	for _, lvl := range levels {
		rows = append(rows, DepthLevel{Price: lvl.Price(), Quantity: lvl.TotalQuantity()})
	}
	return rows
}
