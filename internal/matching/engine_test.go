package matching

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"ctenex/internal/journal"
	"ctenex/internal/metrics"
	"ctenex/internal/models"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testContract = models.ContractID("UK-BL-MAR-25")

func newTestEngine(t *testing.T) (*Engine, *journal.MemoryJournal) {
	t.Helper()
	j := journal.NewMemoryJournal()
	m := metrics.New(prometheus.NewRegistry())
	e := NewEngine([]models.ContractID{testContract}, j, m)
	t.Cleanup(e.Stop)
	return e, j
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func limitOrder(side models.Side, p, qty string) *models.Order {
	return models.NewOrder(testContract, uuid.New(), side, models.Limit, price(p), price(qty), time.Now())
}

func marketOrder(side models.Side, qty string) *models.Order {
	return models.NewOrder(testContract, uuid.New(), side, models.Market, decimal.Zero, price(qty), time.Now())
}

// Scenario 1: a limit buy into an empty book simply rests.
func TestLimitBuyIntoEmptyBookRests(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	order := limitOrder(models.Buy, "50.00", "10")
	result, trades, err := e.AddOrder(ctx, order)
	require.NoError(t, err)
	assert.Empty(t, trades)
	assert.Equal(t, models.Open, result.Status)

	resting, err := e.GetOrders(ctx, testContract)
	require.NoError(t, err)
	require.Len(t, resting, 1)
	assert.Equal(t, order.ID, resting[0].ID)
}

// Scenario 2: an exact-quantity cross fully fills both sides.
func TestExactCrossFillsBothSides(t *testing.T) {
	e, j := newTestEngine(t)
	ctx := context.Background()

	ask := limitOrder(models.Sell, "50.00", "10")
	_, _, err := e.AddOrder(ctx, ask)
	require.NoError(t, err)

	bid := limitOrder(models.Buy, "50.00", "10")
	result, trades, err := e.AddOrder(ctx, bid)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.True(t, trades[0].Price.Equal(price("50.00")))
	assert.True(t, trades[0].Quantity.Equal(price("10")))
	assert.Equal(t, models.Filled, result.Status)

	_, err = e.GetOrder(ctx, testContract, ask.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	persisted, err := j.ListByContract(ctx, testContract)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
}

// Scenario 3: the aggressor is larger than the resting order and partially
// fills, with its residual resting.
func TestAggressorPartiallyFillsThenRests(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	ask := limitOrder(models.Sell, "50.00", "4")
	_, _, err := e.AddOrder(ctx, ask)
	require.NoError(t, err)

	bid := limitOrder(models.Buy, "50.00", "10")
	result, trades, err := e.AddOrder(ctx, bid)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.True(t, trades[0].Quantity.Equal(price("4")))
	assert.Equal(t, models.PartiallyFilled, result.Status)
	assert.True(t, result.RemainingQuantity.Equal(price("6")))

	resting, err := e.GetOrder(ctx, testContract, bid.ID)
	require.NoError(t, err)
	assert.True(t, resting.RemainingQuantity.Equal(price("6")))
}

// Scenario 4: the resting order is larger than the aggressor; the resting
// order partially fills and stays in the book.
func TestRestingPartiallyFillsAndStays(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	ask := limitOrder(models.Sell, "50.00", "10")
	_, _, err := e.AddOrder(ctx, ask)
	require.NoError(t, err)

	bid := limitOrder(models.Buy, "50.00", "4")
	result, trades, err := e.AddOrder(ctx, bid)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, models.Filled, result.Status)

	resting, err := e.GetOrder(ctx, testContract, ask.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PartiallyFilled, resting.Status)
	assert.True(t, resting.RemainingQuantity.Equal(price("6")))
}

// Scenario 5: an aggressor walks multiple price levels in price-then-time
// priority.
func TestWalksBookInPriceTimePriority(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	first := limitOrder(models.Sell, "50.00", "3")
	second := limitOrder(models.Sell, "50.00", "3")
	cheaper := limitOrder(models.Sell, "49.00", "2")
	_, _, err := e.AddOrder(ctx, first)
	require.NoError(t, err)
	_, _, err = e.AddOrder(ctx, second)
	require.NoError(t, err)
	_, _, err = e.AddOrder(ctx, cheaper)
	require.NoError(t, err)

	bid := limitOrder(models.Buy, "50.00", "8")
	result, trades, err := e.AddOrder(ctx, bid)
	require.NoError(t, err)
	require.Len(t, trades, 3)

	assert.True(t, trades[0].Price.Equal(price("49.00")))
	assert.True(t, trades[0].Quantity.Equal(price("2")))
	assert.Equal(t, first.ID, trades[1].SellOrderID)
	assert.True(t, trades[1].Quantity.Equal(price("3")))
	assert.Equal(t, second.ID, trades[2].SellOrderID)
	assert.True(t, trades[2].Quantity.Equal(price("3")))
	assert.Equal(t, models.Filled, result.Status)
}

// Scenario 6: a non-crossing limit order simply rests without trading.
func TestNonCrossingLimitRests(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	ask := limitOrder(models.Sell, "55.00", "5")
	_, _, err := e.AddOrder(ctx, ask)
	require.NoError(t, err)

	bid := limitOrder(models.Buy, "50.00", "5")
	result, trades, err := e.AddOrder(ctx, bid)
	require.NoError(t, err)
	assert.Empty(t, trades)
	assert.Equal(t, models.Open, result.Status)
}

// A market order with quantity exceeding available liquidity fills what it
// can and has its residual cancelled, never rejected and never rested.
func TestMarketOrderResidualIsCancelledNotRejected(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	ask := limitOrder(models.Sell, "50.00", "5")
	_, _, err := e.AddOrder(ctx, ask)
	require.NoError(t, err)

	market := marketOrder(models.Buy, "20")
	result, trades, err := e.AddOrder(ctx, market)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.True(t, trades[0].Quantity.Equal(price("5")))
	assert.Equal(t, models.Cancelled, result.Status)
	assert.True(t, result.RemainingQuantity.Equal(price("15")))

	resting, err := e.GetOrders(ctx, testContract)
	require.NoError(t, err)
	assert.Empty(t, resting)
}

// A market order against an empty book is cancelled in full.
func TestMarketOrderAgainstEmptyBookIsCancelled(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	market := marketOrder(models.Sell, "3")
	result, trades, err := e.AddOrder(ctx, market)
	require.NoError(t, err)
	assert.Empty(t, trades)
	assert.Equal(t, models.Cancelled, result.Status)
}

func TestCancelRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	order := limitOrder(models.Buy, "40.00", "2")
	_, _, err := e.AddOrder(ctx, order)
	require.NoError(t, err)

	cancelled, err := e.CancelOrder(ctx, testContract, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Cancelled, cancelled.Status)

	_, err = e.CancelOrder(ctx, testContract, order.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUnknownContractIsRejected(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	order := models.NewOrder("NOT-A-CONTRACT", uuid.New(), models.Buy, models.Limit, price("1"), price("1"), time.Now())
	_, _, err := e.AddOrder(ctx, order)
	assert.ErrorIs(t, err, models.ErrUnknownContract)
}

func TestSnapshotAggregatesQuantityPerLevel(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	first := limitOrder(models.Buy, "50.00", "3")
	second := limitOrder(models.Buy, "50.00", "4")
	_, _, err := e.AddOrder(ctx, first)
	require.NoError(t, err)
	_, _, err = e.AddOrder(ctx, second)
	require.NoError(t, err)

	depth, err := e.Snapshot(ctx, testContract, 0)
	require.NoError(t, err)
	require.Len(t, depth.Bids, 1)
	assert.True(t, depth.Bids[0].Price.Equal(price("50.00")))
	assert.True(t, depth.Bids[0].Quantity.Equal(price("7")))
	assert.Empty(t, depth.Asks)
}

// Many goroutines hammering one contract actor concurrently must never
// race or deadlock; every submission is serialized through the actor's
// command channel (spec §5).
func TestConcurrentSubmissionsAreSerialized(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	const goroutines = 50
	const ordersEach = 20

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(g int) {
			defer wg.Done()
			for i := 0; i < ordersEach; i++ {
				side := models.Buy
				if (g+i)%2 == 0 {
					side = models.Sell
				}
				order := models.NewOrder(testContract, uuid.New(), side, models.Limit, price("50.00"), price("1"), time.Now())
				_, _, err := e.AddOrder(ctx, order)
				assert.NoError(t, err, fmt.Sprintf("goroutine %d order %d", g, i))
			}
		}(g)
	}
	wg.Wait()
}

func TestConservationOfQuantityAcrossTrades(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	ask := limitOrder(models.Sell, "50.00", "7")
	_, _, err := e.AddOrder(ctx, ask)
	require.NoError(t, err)

	bid := limitOrder(models.Buy, "50.00", "7")
	_, trades, err := e.AddOrder(ctx, bid)
	require.NoError(t, err)

	var totalTraded decimal.Decimal
	for _, tr := range trades {
		totalTraded = totalTraded.Add(tr.Quantity)
	}
	assert.True(t, totalTraded.Equal(price("7")))
}
