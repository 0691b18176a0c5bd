package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChubiniShato/pku-diet-app-sub001/models"
)

func stockRow(grams, costPerGram float64, expiresIn int) models.PantryItem {
	return models.PantryItem{
		ItemType:      models.EntryProduct,
		ItemID:        1,
		QuantityGrams: grams,
		CostPerGram:   costPerGram,
		ExpiryDate:    dayStart(time.Now()).AddDate(0, 0, expiresIn),
		Available:     true,
	}
}

func TestAvailabilityEmpty(t *testing.T) {
	got := availabilityFromRows(nil, 100, time.Now())
	assert.False(t, got.IsAvailable)
	assert.False(t, got.IsSufficient)
	assert.Equal(t, 0.0, got.TotalQuantityAvailable)
}

func TestAvailabilityPartialStock(t *testing.T) {
	rows := []models.PantryItem{stockRow(50, 0.01, 5)}

	got := availabilityFromRows(rows, 80, time.Now())
	assert.True(t, got.IsAvailable) // some stock exists
	assert.False(t, got.IsSufficient)
	assert.Equal(t, 50.0, got.TotalQuantityAvailable)

	got = availabilityFromRows(rows, 30, time.Now())
	assert.True(t, got.IsSufficient)
}

func TestAvailabilitySkipsExpired(t *testing.T) {
	rows := []models.PantryItem{
		stockRow(100, 0.01, -1), // expired yesterday
		stockRow(40, 0.01, 5),
	}

	got := availabilityFromRows(rows, 50, time.Now())
	assert.Equal(t, 40.0, got.TotalQuantityAvailable)
	assert.False(t, got.IsSufficient)
}

func TestReservationLedgerLifecycle(t *testing.T) {
	l := NewReservationLedger()
	require.NotEmpty(t, l.RunID)

	rows := []models.PantryItem{stockRow(100, 0.01, 5)}
	key := rows[0].Ref().Key()

	ok, err := l.Reserve(rows, 60)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 60.0, l.Reserved(key))

	// only 40g unreserved remain; failed attempts change nothing
	ok, err = l.Reserve(rows, 60)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 60.0, l.Reserved(key))

	ok, err = l.Reserve(rows, 40)
	require.NoError(t, err)
	assert.True(t, ok)

	l.Clear()
	assert.Equal(t, 0.0, l.Reserved(key))
	ok, err = l.Reserve(rows, 100)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReservationLedgerRejectsBadAmount(t *testing.T) {
	l := NewReservationLedger()
	rows := []models.PantryItem{stockRow(100, 0.01, 5)}

	_, err := l.Reserve(rows, 0)
	assert.Error(t, err)
	_, err = l.Reserve(rows, -10)
	assert.Error(t, err)
}

func TestReservationLedgerNoRows(t *testing.T) {
	l := NewReservationLedger()
	ok, err := l.Reserve(nil, 50)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPantryCostPerGramWeighted(t *testing.T) {
	rows := []models.PantryItem{
		stockRow(100, 0.01, 5),
		stockRow(100, 0.03, 5),
	}

	perGram, ok := pantryCostPerGram(rows, time.Now())
	require.True(t, ok)
	assert.InDelta(t, 0.02, perGram, 1e-9)
}

func TestPantryCostPerGramIgnoresExpired(t *testing.T) {
	rows := []models.PantryItem{
		stockRow(100, 0.50, -2), // expensive but expired
		stockRow(100, 0.01, 5),
	}

	perGram, ok := pantryCostPerGram(rows, time.Now())
	require.True(t, ok)
	assert.InDelta(t, 0.01, perGram, 1e-9)

	_, ok = pantryCostPerGram(nil, time.Now())
	assert.False(t, ok)
}

func TestBestPricePerGram(t *testing.T) {
	prices := []models.PriceEntry{
		{PricePerUnit: 5.0, UnitGrams: 500}, // 0.01/g
		{PricePerUnit: 3.0, UnitGrams: 100}, // 0.03/g
		{PricePerUnit: 2.0, UnitGrams: 0},   // malformed, skipped
	}

	best, ok := bestPricePerGram(prices)
	require.True(t, ok)
	assert.InDelta(t, 0.01, best, 1e-9)

	_, ok = bestPricePerGram([]models.PriceEntry{{PricePerUnit: 2, UnitGrams: 0}})
	assert.False(t, ok)
}

func TestExpiryAlertMessage(t *testing.T) {
	one := []models.PantryItem{stockRow(100, 0.01, 2)}
	several := []models.PantryItem{stockRow(100, 0.01, 1), stockRow(50, 0.01, 2), stockRow(25, 0.01, 3)}

	assert.Equal(t, "1 pantry item expires within 3 days; plan it first", expiryAlertMessage(one, 3))
	assert.Equal(t, "3 pantry items expire within 3 days; plan them first", expiryAlertMessage(several, 3))
}

func TestStockGramsSkipsUnavailable(t *testing.T) {
	gone := stockRow(100, 0.01, 5)
	gone.Available = false
	rows := []models.PantryItem{gone, stockRow(25, 0.01, 5)}

	assert.Equal(t, 25.0, stockGrams(rows, time.Now()))
}
