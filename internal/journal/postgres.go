package journal

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"ctenex/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const contractQueueDepth = 4096

// PostgresJournal is the durable sink (spec §1 "pluggable journal sink",
// spec §9 "Persistence"). Appends never touch the network on the caller's
// goroutine: each contract gets its own buffered channel and a single
// background writer goroutine, so the matching actor's hot path only ever
// does a non-blocking channel send (spec §5 "no suspension points" inside
// the match loop). A full buffer marks the journal unhealthy and the
// trade is dropped from durable storage but never from the in-memory
// book/trade-list the caller already has — ordering within a contract is
// preserved because only that contract's writer goroutine ever drains its
// queue, and only that contract's actor ever writes to it.
type PostgresJournal struct {
	pool *pgxpool.Pool

	mu     sync.Mutex
	queues map[models.ContractID]chan models.Trade

	unhealthy atomic.Bool
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewPostgresJournal wraps an already-connected pool. Schema
// (orders/trades tables, spec §6 "Persisted state") is assumed to be
// applied by migrations external to this package.
func NewPostgresJournal(pool *pgxpool.Pool) *PostgresJournal {
	return &PostgresJournal{
		pool:   pool,
		queues: make(map[models.ContractID]chan models.Trade),
		stopCh: make(chan struct{}),
	}
}

func (j *PostgresJournal) queueFor(contractID models.ContractID) chan models.Trade {
	j.mu.Lock()
	defer j.mu.Unlock()

	q, ok := j.queues[contractID]
	if ok {
		return q
	}
	q = make(chan models.Trade, contractQueueDepth)
	j.queues[contractID] = q
	j.wg.Add(1)
	go j.writeLoop(contractID, q)
	return q
}

func (j *PostgresJournal) writeLoop(contractID models.ContractID, q chan models.Trade) {
	defer j.wg.Done()
	logger := log.With().Str("contract_id", string(contractID)).Logger()

	for {
		select {
		case trade, ok := <-q:
			if !ok {
				return
			}
			j.write(logger, trade)
		case <-j.stopCh:
			// Drain whatever is already queued before exiting so a
			// graceful shutdown doesn't silently drop trades.
			for {
				select {
				case trade, ok := <-q:
					if !ok {
						return
					}
					j.write(logger, trade)
				default:
					return
				}
			}
		}
	}
}

func (j *PostgresJournal) write(logger zerolog.Logger, trade models.Trade) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := j.pool.Exec(ctx, `
		INSERT INTO trades (id, contract_id, buy_order_id, sell_order_id, price, quantity, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, trade.ID, trade.ContractID, trade.BuyOrderID, trade.SellOrderID, trade.Price, trade.Quantity, trade.GeneratedAt)
	if err != nil {
		j.unhealthy.Store(true)
		logger.Error().Err(err).Str("trade_id", trade.ID.String()).Msg("failed to persist trade")
		return
	}
	j.unhealthy.Store(false)
}

// Append enqueues trade for durable persistence without blocking the
// caller. A full queue marks the journal unhealthy and drops the trade
// from the durable store (the in-memory book state is unaffected).
func (j *PostgresJournal) Append(_ context.Context, trade models.Trade) error {
	q := j.queueFor(trade.ContractID)
	select {
	case q <- trade:
		return nil
	default:
		j.unhealthy.Store(true)
		log.Warn().Str("contract_id", string(trade.ContractID)).Msg("journal queue full, dropping trade from durable store")
		return models.ErrJournalUnavailable
	}
}

func (j *PostgresJournal) ListByContract(ctx context.Context, contractID models.ContractID) ([]models.Trade, error) {
	rows, err := j.pool.Query(ctx, `
		SELECT id, contract_id, buy_order_id, sell_order_id, price, quantity, generated_at
		FROM trades WHERE contract_id = $1 ORDER BY generated_at ASC
	`, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Trade
	for rows.Next() {
		var t models.Trade
		if err := rows.Scan(&t.ID, &t.ContractID, &t.BuyOrderID, &t.SellOrderID, &t.Price, &t.Quantity, &t.GeneratedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (j *PostgresJournal) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Trade, error) {
	rows, err := j.pool.Query(ctx, `
		SELECT id, contract_id, buy_order_id, sell_order_id, price, quantity, generated_at
		FROM trades WHERE buy_order_id = $1 OR sell_order_id = $1 ORDER BY generated_at ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Trade
	for rows.Next() {
		var t models.Trade
		if err := rows.Scan(&t.ID, &t.ContractID, &t.BuyOrderID, &t.SellOrderID, &t.Price, &t.Quantity, &t.GeneratedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Health reports ErrJournalUnavailable if the most recent write failed or
// a trade was dropped on a full queue; the next successful write clears it.
// A trade whose insert fails is logged and not retried.
func (j *PostgresJournal) Health() error {
	if j.unhealthy.Load() {
		return models.ErrJournalUnavailable
	}
	return nil
}

// Close stops all writer goroutines after draining their queues.
func (j *PostgresJournal) Close() {
	close(j.stopCh)
	j.wg.Wait()
}
