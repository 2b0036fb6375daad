package journal

import (
	"context"
	"testing"
	"time"

	"ctenex/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryJournalAppendAndListByContract(t *testing.T) {
	j := NewMemoryJournal()
	ctx := context.Background()

	trade := models.NewTrade("UK-BL-MAR-25", uuid.New(), uuid.New(), decimal.RequireFromString("50.00"), decimal.RequireFromString("5"), time.Now())
	require.NoError(t, j.Append(ctx, trade))

	trades, err := j.ListByContract(ctx, "UK-BL-MAR-25")
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, trade.ID, trades[0].ID)

	other, err := j.ListByContract(ctx, "OTHER")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryJournalListByOrderMatchesEitherSide(t *testing.T) {
	j := NewMemoryJournal()
	ctx := context.Background()

	buyID, sellID := uuid.New(), uuid.New()
	trade := models.NewTrade("UK-BL-MAR-25", buyID, sellID, decimal.RequireFromString("50.00"), decimal.RequireFromString("5"), time.Now())
	require.NoError(t, j.Append(ctx, trade))

	byBuy, err := j.ListByOrder(ctx, buyID)
	require.NoError(t, err)
	assert.Len(t, byBuy, 1)

	bySell, err := j.ListByOrder(ctx, sellID)
	require.NoError(t, err)
	assert.Len(t, bySell, 1)

	unrelated, err := j.ListByOrder(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, unrelated)
}

func TestMemoryJournalHealthAlwaysNil(t *testing.T) {
	j := NewMemoryJournal()
	assert.NoError(t, j.Health())
}

// ListByContract must return a defensive copy so callers can't mutate
// journal state through the returned slice.
func TestMemoryJournalListByContractReturnsCopy(t *testing.T) {
	j := NewMemoryJournal()
	ctx := context.Background()

	trade := models.NewTrade("UK-BL-MAR-25", uuid.New(), uuid.New(), decimal.RequireFromString("50.00"), decimal.RequireFromString("5"), time.Now())
	require.NoError(t, j.Append(ctx, trade))

	trades, err := j.ListByContract(ctx, "UK-BL-MAR-25")
	require.NoError(t, err)
	trades[0].Quantity = decimal.RequireFromString("999")

	again, err := j.ListByContract(ctx, "UK-BL-MAR-25")
	require.NoError(t, err)
	assert.True(t, again[0].Quantity.Equal(decimal.RequireFromString("5")))
}
