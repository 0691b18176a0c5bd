package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChubiniShato/pku-diet-app-sub001/models"
	"github.com/ChubiniShato/pku-diet-app-sub001/utils"
)

func scoredCandidate(name string, id uint, pheMg, score float64) *FoodCandidate {
	return &FoodCandidate{
		Ref:          models.FoodRef{Type: models.EntryProduct, ID: id},
		Name:         name,
		ServingGrams: 100,
		Nutrition:    utils.NutritionBreakdown{QuantityG: 100, PheMg: utils.Float64Ptr(pheMg)},
		Score:        score,
	}
}

func TestPickForSlotFirstPickUnconditional(t *testing.T) {
	// best candidate alone blows the budget; it is still taken so the slot
	// is never empty
	sorted := []*FoodCandidate{
		scoredCandidate("rice", 1, 120, 1),
		scoredCandidate("bread", 2, 10, 2),
	}

	picked := pickForSlot(sorted, 75, 2)
	require.NotEmpty(t, picked)
	assert.Equal(t, "rice", picked[0].Name)
}

func TestPickForSlotRespectsBudgetAfterFirst(t *testing.T) {
	sorted := []*FoodCandidate{
		scoredCandidate("rice", 1, 60, 1),
		scoredCandidate("bread", 2, 30, 2), // would push total to 90 > 75
		scoredCandidate("apple", 3, 10, 3), // fits
	}

	picked := pickForSlot(sorted, 75, 2)
	require.Len(t, picked, 2)
	assert.Equal(t, "rice", picked[0].Name)
	assert.Equal(t, "apple", picked[1].Name)
}

func TestPickForSlotMaxEntries(t *testing.T) {
	sorted := []*FoodCandidate{
		scoredCandidate("a", 1, 1, 1),
		scoredCandidate("b", 2, 1, 2),
		scoredCandidate("c", 3, 1, 3),
	}

	picked := pickForSlot(sorted, 1000, 2)
	assert.Len(t, picked, 2)
}

func TestPickForSlotDeduplicates(t *testing.T) {
	sorted := []*FoodCandidate{
		scoredCandidate("rice", 1, 10, 1),
		scoredCandidate("rice", 1, 10, 2), // same catalog item
		scoredCandidate("apple", 3, 10, 3),
	}

	picked := pickForSlot(sorted, 1000, 2)
	require.Len(t, picked, 2)
	assert.NotEqual(t, picked[0].Ref, picked[1].Ref)
}

func TestPickForSlotZeroBudgetOnlyCapsCount(t *testing.T) {
	// no prescription: budget 0 must not block picks
	sorted := []*FoodCandidate{
		scoredCandidate("a", 1, 500, 1),
		scoredCandidate("b", 2, 500, 2),
	}

	picked := pickForSlot(sorted, 0, 2)
	assert.Len(t, picked, 2)
}

func TestPickForSlotEmptyPool(t *testing.T) {
	assert.Empty(t, pickForSlot(nil, 75, 2))
}

func TestUnreservedStock(t *testing.T) {
	avail := PantryAvailability{IsAvailable: true, IsSufficient: true, TotalQuantityAvailable: 100}

	grams, ok := unreservedStock(avail, 0, 60)
	assert.Equal(t, 100.0, grams)
	assert.True(t, ok)

	// a prior claim in the same run uses up the headroom
	grams, ok = unreservedStock(avail, 60, 60)
	assert.Equal(t, 40.0, grams)
	assert.False(t, ok)

	// over-reservation clamps at zero instead of going negative
	grams, ok = unreservedStock(avail, 120, 10)
	assert.Equal(t, 0.0, grams)
	assert.False(t, ok)
}

func TestUnreservedStockTracksLedger(t *testing.T) {
	l := NewReservationLedger()
	rows := []models.PantryItem{stockRow(100, 0.01, 5)}
	key := rows[0].Ref().Key()

	ok, err := l.Reserve(rows, 60)
	require.NoError(t, err)
	require.True(t, ok)

	// raw stock still says sufficient, but the run already claimed most of it
	avail := availabilityFromRows(rows, 60, time.Now())
	require.True(t, avail.IsSufficient)

	_, sufficient := unreservedStock(avail, l.Reserved(key), 60)
	assert.False(t, sufficient)
}

func TestRecentUses(t *testing.T) {
	date := time.Date(2026, 8, 10, 0, 0, 0, 0, time.Local)
	lastUse := map[string]time.Time{
		"Rice":  date.AddDate(0, 0, -1), // inside the gap window
		"Apple": date.AddDate(0, 0, -5), // well outside
	}

	assert.Equal(t, 1, recentUses(lastUse, "Rice", date))
	assert.Equal(t, 0, recentUses(lastUse, "Apple", date))
	assert.Equal(t, 0, recentUses(lastUse, "Carrot", date))
}

func TestServingFor(t *testing.T) {
	withServing := &models.Product{Name: "Apple", DefaultServingG: 150}
	withoutServing := &models.Product{Name: "Mystery"}

	assert.Equal(t, 150.0, servingFor(withServing))
	assert.Equal(t, float64(DefaultServingGrams), servingFor(withoutServing))
}
