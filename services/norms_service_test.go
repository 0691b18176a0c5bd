package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChubiniShato/pku-diet-app-sub001/models"
)

func plannedDay(entries ...models.MenuEntry) *models.MenuDay {
	return &models.MenuDay{
		Date:  dayStart(time.Now()),
		Slots: []models.MealSlot{{Name: models.SlotLunch, Entries: entries}},
	}
}

func TestValidateDayPheBreach(t *testing.T) {
	norm := &models.NormPrescription{PheLimitMgPerDay: 300}
	day := plannedDay(
		models.MenuEntry{ItemName: "Rice", PlannedGrams: 100, PheMg: 200},
		models.MenuEntry{ItemName: "Bread", PlannedGrams: 60, PheMg: 150},
	)

	res := ValidateDay(norm, day)
	assert.Equal(t, LevelBreach, res.Level)
	assert.Equal(t, 50.0, res.Deltas["phe"])
	require.NotEmpty(t, res.Messages)
	assert.Contains(t, res.Messages[0], "PHE")
}

func TestValidateDayUnderLimitOK(t *testing.T) {
	norm := &models.NormPrescription{PheLimitMgPerDay: 300}
	day := plannedDay(models.MenuEntry{ItemName: "Apple", PlannedGrams: 150, PheMg: 9})

	res := ValidateDay(norm, day)
	assert.Equal(t, LevelOK, res.Level)
	assert.Equal(t, -291.0, res.Deltas["phe"]) // signed: headroom is negative
	assert.Empty(t, res.Messages)
}

func TestValidateDayFatIsWarnOnly(t *testing.T) {
	fatLimit := 60.0
	norm := &models.NormPrescription{PheLimitMgPerDay: 300, FatLimitGPerDay: &fatLimit}
	day := plannedDay(models.MenuEntry{ItemName: "Fries", PlannedGrams: 200, PheMg: 100, FatG: 70})

	res := ValidateDay(norm, day)
	assert.Equal(t, LevelWarn, res.Level)
	assert.Equal(t, 10.0, res.Deltas["fat"])
}

func TestValidateDayKcalDeficitBreaches(t *testing.T) {
	kcalMin := 1800.0
	norm := &models.NormPrescription{PheLimitMgPerDay: 300, KcalMinPerDay: &kcalMin}
	day := plannedDay(models.MenuEntry{ItemName: "Salad", PlannedGrams: 100, Kcal: 900})

	res := ValidateDay(norm, day)
	assert.Equal(t, LevelBreach, res.Level)
	assert.Equal(t, -900.0, res.Deltas["kcal"])
}

func TestValidateDayBreachOutranksWarn(t *testing.T) {
	fatLimit := 10.0
	norm := &models.NormPrescription{PheLimitMgPerDay: 100, FatLimitGPerDay: &fatLimit}
	day := plannedDay(models.MenuEntry{ItemName: "Burger", PlannedGrams: 150, PheMg: 500, FatG: 30})

	res := ValidateDay(norm, day)
	assert.Equal(t, LevelBreach, res.Level)
	assert.Len(t, res.Messages, 2) // both problems reported
}

func TestValidateDayAbsentInputs(t *testing.T) {
	day := plannedDay(models.MenuEntry{ItemName: "Rice", PheMg: 9999})

	res := ValidateDay(nil, day)
	assert.Equal(t, LevelOK, res.Level)
	assert.Empty(t, res.Deltas)

	res = ValidateDay(&models.NormPrescription{PheLimitMgPerDay: 300}, nil)
	assert.Equal(t, LevelOK, res.Level)
}

func TestValidateDayConsumedProration(t *testing.T) {
	norm := &models.NormPrescription{PheLimitMgPerDay: 300}
	day := plannedDay(models.MenuEntry{
		ItemName:      "Rice",
		PlannedGrams:  100,
		PheMg:         100,
		Consumed:      true,
		ConsumedGrams: 50,
	})

	res := ValidateDay(norm, day)
	assert.Equal(t, 100.0, res.PlannedTotals.PheValue())
	assert.Equal(t, 50.0, res.ConsumedTotals.PheValue())
	// only planned totals drive the verdict
	assert.Equal(t, LevelOK, res.Level)
}

func TestValidateDayNoLimitNoDelta(t *testing.T) {
	norm := &models.NormPrescription{PheLimitMgPerDay: 300}
	day := plannedDay(models.MenuEntry{ItemName: "Rice", PheMg: 100, ProteinG: 50, FatG: 80})

	res := ValidateDay(norm, day)
	_, hasProtein := res.Deltas["protein"]
	_, hasFat := res.Deltas["fat"]
	assert.False(t, hasProtein)
	assert.False(t, hasFat)
}
