package facade

import (
	"context"
	"testing"
	"time"

	"ctenex/internal/journal"
	"ctenex/internal/matching"
	"ctenex/internal/metrics"
	"ctenex/internal/models"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testContract = models.ContractID("UK-BL-MAR-25")

func newTestFacade(t *testing.T) Facade {
	t.Helper()
	j := journal.NewMemoryJournal()
	m := metrics.New(prometheus.NewRegistry())
	engine := matching.NewEngine([]models.ContractID{testContract}, j, m)
	t.Cleanup(engine.Stop)
	return New(engine, j)
}

func TestPlaceOrderAndListOrders(t *testing.T) {
	f := newTestFacade(t)
	ctx := context.Background()

	trader := uuid.New()
	ack, err := f.PlaceOrder(ctx, OrderRequest{
		ContractID: testContract,
		TraderID:   trader,
		Side:       models.Buy,
		Type:       models.Limit,
		Price:      decimal.RequireFromString("50.00"),
		Quantity:   decimal.RequireFromString("5"),
	})
	require.NoError(t, err)
	assert.Empty(t, ack.Trades)
	assert.Equal(t, models.Open, ack.Order.Status)

	orders, err := f.ListOrders(ctx, testContract, OrderFilter{TraderID: &trader})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, ack.Order.ID, orders[0].ID)
}

func TestListOrdersRejectsUnsupportedSortField(t *testing.T) {
	f := newTestFacade(t)
	_, err := f.ListOrders(context.Background(), testContract, OrderFilter{SortBy: "price"})
	assert.ErrorIs(t, err, models.ErrInvalidFilter)
}

func TestListOrdersRejectsInvertedTimeRange(t *testing.T) {
	f := newTestFacade(t)
	now := time.Now()
	before := now.Add(-time.Hour)
	_, err := f.ListOrders(context.Background(), testContract, OrderFilter{
		PlacedAtOrAfter: &now,
		PlacedBefore:    &before,
	})
	assert.ErrorIs(t, err, models.ErrInvalidFilter)
}

func TestPlaceOrderCrossAndListTrades(t *testing.T) {
	f := newTestFacade(t)
	ctx := context.Background()

	_, err := f.PlaceOrder(ctx, OrderRequest{
		ContractID: testContract,
		TraderID:   uuid.New(),
		Side:       models.Sell,
		Type:       models.Limit,
		Price:      decimal.RequireFromString("50.00"),
		Quantity:   decimal.RequireFromString("5"),
	})
	require.NoError(t, err)

	ack, err := f.PlaceOrder(ctx, OrderRequest{
		ContractID: testContract,
		TraderID:   uuid.New(),
		Side:       models.Buy,
		Type:       models.Limit,
		Price:      decimal.RequireFromString("50.00"),
		Quantity:   decimal.RequireFromString("5"),
	})
	require.NoError(t, err)
	require.Len(t, ack.Trades, 1)

	trades, err := f.ListTrades(ctx, testContract, TradeFilter{})
	require.NoError(t, err)
	require.Len(t, trades, 1)

	filtered, err := f.ListTrades(ctx, testContract, TradeFilter{BuyOrderID: &ack.Order.ID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
}

func TestListContractsReportsEngineUniverse(t *testing.T) {
	f := newTestFacade(t)
	ids := f.ListContracts(context.Background())
	require.Len(t, ids, 1)
	assert.Equal(t, testContract, ids[0])
}

func TestCancelOrderThroughFacade(t *testing.T) {
	f := newTestFacade(t)
	ctx := context.Background()

	ack, err := f.PlaceOrder(ctx, OrderRequest{
		ContractID: testContract,
		TraderID:   uuid.New(),
		Side:       models.Buy,
		Type:       models.Limit,
		Price:      decimal.RequireFromString("40.00"),
		Quantity:   decimal.RequireFromString("2"),
	})
	require.NoError(t, err)

	cancelled, err := f.CancelOrder(ctx, testContract, ack.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Cancelled, cancelled.Status)
}
