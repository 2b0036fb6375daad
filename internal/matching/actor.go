package matching

import (
	"context"
	"time"

	"ctenex/internal/book"
	"ctenex/internal/journal"
	"ctenex/internal/metrics"
	"ctenex/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// commandKind distinguishes the requests a contractActor serves.
type commandKind int

const (
	cmdAddOrder commandKind = iota
	cmdCancelOrder
	cmdGetOrder
	cmdGetOrders
	cmdSnapshot
)

type command struct {
	kind       commandKind
	order      *models.Order
	orderID    uuid.UUID
	depthLimit int
	reply      chan commandResult
}

type commandResult struct {
	order  *models.Order
	orders []models.Order
	trades []models.Trade
	depth  book.Depth
	err    error
}

// contractActor owns one contract's order book exclusively: every read and
// write is serialized through the single goroutine started by start(),
// following the per-symbol dedicated-goroutine pattern used for continuous
// matching (spec §5 "parallel per-contract actor"). Commands arrive over a
// buffered channel and each carries its own reply channel, so AddOrder/
// CancelOrder callers block only on their own request, not on the whole
// engine.
type contractActor struct {
	contractID models.ContractID
	book       *book.OrderBook
	journal    journal.Journal
	metrics    *metrics.Metrics

	commands chan command
	stopCh   chan struct{}
	done     chan struct{}
}

func newContractActor(contractID models.ContractID, j journal.Journal, m *metrics.Metrics) *contractActor {
	return &contractActor{
		contractID: contractID,
		book:       book.NewOrderBook(contractID),
		journal:    j,
		metrics:    m,
		commands:   make(chan command, 1024),
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (a *contractActor) start() {
	go a.run()
}

func (a *contractActor) stop() {
	close(a.stopCh)
	<-a.done
}

func (a *contractActor) run() {
	defer close(a.done)
	for {
		select {
		case cmd := <-a.commands:
			cmd.reply <- a.handle(cmd)
		case <-a.stopCh:
			// Serve whatever is already queued so no caller waits forever
			// on a reply.
			for {
				select {
				case cmd := <-a.commands:
					cmd.reply <- a.handle(cmd)
				default:
					return
				}
			}
		}
	}
}

func (a *contractActor) submit(cmd command) commandResult {
	cmd.reply = make(chan commandResult, 1)
	a.commands <- cmd
	return <-cmd.reply
}

func (a *contractActor) handle(cmd command) commandResult {
	switch cmd.kind {
	case cmdAddOrder:
		return a.handleAddOrder(cmd.order)
	case cmdCancelOrder:
		order, err := a.book.Cancel(cmd.orderID)
		if err == nil {
			a.metrics.IncOrdersCancelled(string(a.contractID))
			a.metrics.DecOrdersInBook(string(a.contractID))
		}
		return commandResult{order: order, err: err}
	case cmdGetOrder:
		order, ok := a.book.GetOrder(cmd.orderID)
		if !ok {
			return commandResult{err: models.ErrNotFound}
		}
		return commandResult{order: &order}
	case cmdGetOrders:
		return commandResult{orders: a.book.GetOrders()}
	case cmdSnapshot:
		return commandResult{depth: a.book.Snapshot(cmd.depthLimit)}
	default:
		return commandResult{err: models.ErrInvalidOrder}
	}
}

// handleAddOrder runs the crossing loop, disposes of a market order's
// unfilled residual per spec §4.4 step 4 (cancelled, not rejected and not
// rested), rests a limit order's residual, and journals every trade
// produced — all before releasing this actor to the next command, so a
// caller's AddOrder never observes a partially-applied match.
func (a *contractActor) handleAddOrder(order *models.Order) commandResult {
	start := time.Now()
	a.metrics.IncOrdersReceived(string(a.contractID))

	trades := matchOrder(a.book, order, start)
	if len(trades) > 0 {
		a.metrics.IncTradesExecuted(string(a.contractID), len(trades))
		a.metrics.IncOrdersMatched(string(a.contractID), len(trades)+1)
		for _, trade := range trades {
			restingID := trade.SellOrderID
			if order.Side == models.Sell {
				restingID = trade.BuyOrderID
			}
			if _, stillResting := a.book.GetOrder(restingID); !stillResting {
				a.metrics.DecOrdersInBook(string(a.contractID))
			}
		}
	}

	if order.RemainingQuantity.Sign() > 0 {
		if order.Type == models.Market {
			order.Status = models.Cancelled
			a.metrics.IncOrdersCancelled(string(a.contractID))
			log.Warn().Str("contract_id", string(a.contractID)).Str("order_id", order.ID.String()).
				Str("residual", order.RemainingQuantity.String()).Msg("market order residual cancelled, insufficient liquidity")
		} else {
			if err := a.book.AddResting(order); err != nil {
				return commandResult{err: err}
			}
			a.metrics.IncOrdersInBook(string(a.contractID))
		}
	}

	log.Debug().Str("contract_id", string(a.contractID)).Str("order_id", order.ID.String()).
		Str("side", order.Side.String()).Int("trades", len(trades)).Msg("order accepted")

	for _, trade := range trades {
		if err := a.journal.Append(context.Background(), trade); err != nil {
			a.metrics.IncJournalErrors(string(a.contractID))
			log.Warn().Err(err).Str("contract_id", string(a.contractID)).Str("trade_id", trade.ID.String()).
				Msg("trade journal append failed, continuing without it")
		}
	}

	a.metrics.ObserveLatency(string(a.contractID), time.Since(start).Seconds())
	return commandResult{order: order, trades: trades}
}
