// Package matching implements the core engine: the crossing algorithm from
// spec §4.4, and the per-contract actor that serializes access to one
// contract's order book (spec §5).
package matching

import (
	"time"

	"ctenex/internal/book"
	"ctenex/internal/models"
)

// matchOrder runs the crossing loop for a freshly submitted order against
// ob, recording one trade per fill at the resting order's price (spec §4.4
// step 2: "the trade executes at the resting order's price"), walking the
// book in price-then-time priority via ob.BestOpposing/PeekFront, and
// leaving order.Status/RemainingQuantity reflecting the outcome. It never
// decides what happens to a non-zero residual — that is the caller's job
// (rest it for a limit order, cancel it for a market order, spec §4.4
// step 4) — matchOrder only executes what liquidity currently allows.
func matchOrder(ob *book.OrderBook, order *models.Order, now time.Time) []models.Trade {
	var trades []models.Trade

	for order.RemainingQuantity.Sign() > 0 {
		lvl := ob.BestOpposing(order.Side)
		if lvl == nil {
			break
		}
		resting := lvl.PeekFront()
		if resting == nil {
			break
		}

		if order.Type == models.Limit {
			if order.Side == models.Buy && order.Price.LessThan(lvl.Price()) {
				break
			}
			if order.Side == models.Sell && order.Price.GreaterThan(lvl.Price()) {
				break
			}
		}

		fill := order.RemainingQuantity
		if resting.RemainingQuantity.LessThan(fill) {
			fill = resting.RemainingQuantity
		}

		buyOrderID, sellOrderID := resting.ID, order.ID
		if order.Side == models.Buy {
			buyOrderID, sellOrderID = order.ID, resting.ID
		}

		trade := models.NewTrade(ob.ContractID, buyOrderID, sellOrderID, lvl.Price(), fill, now)
		trades = append(trades, trade)

		ob.Fill(order, resting, fill)
	}

	switch {
	case order.RemainingQuantity.IsZero():
		order.Status = models.Filled
	case len(trades) > 0:
		order.Status = models.PartiallyFilled
	default:
		order.Status = models.Open
	}

	return trades
}
