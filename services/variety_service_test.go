package services

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChubiniShato/pku-diet-app-sub001/models"
)

func dayOn(date time.Time, itemNames ...string) models.MenuDay {
	slot := models.MealSlot{Name: models.SlotLunch}
	for _, n := range itemNames {
		slot.Entries = append(slot.Entries, models.MenuEntry{ItemName: n, PlannedGrams: 100})
	}
	return models.MenuDay{Date: dayStart(date), Slots: []models.MealSlot{slot}}
}

func TestViolatesInGapTooShort(t *testing.T) {
	base := time.Date(2026, 8, 10, 0, 0, 0, 0, time.Local)
	history := []models.MenuDay{dayOn(base, "Rice")}

	// next day: gap 1 < 2 -> violation
	assert.True(t, violatesIn(history, "Rice", base.AddDate(0, 0, 1), MinimumGapDays))
	// same day counts as a repeat too
	assert.True(t, violatesIn(history, "Rice", base, MinimumGapDays))
	// two days later the gap is satisfied
	assert.False(t, violatesIn(history, "Rice", base.AddDate(0, 0, 2), MinimumGapDays))
}

func TestViolatesInUnknownItem(t *testing.T) {
	base := time.Date(2026, 8, 10, 0, 0, 0, 0, time.Local)
	history := []models.MenuDay{dayOn(base, "Rice")}

	assert.False(t, violatesIn(history, "Carrot", base.AddDate(0, 0, 1), MinimumGapDays))
	assert.False(t, violatesIn(nil, "Rice", base, MinimumGapDays))
}

func TestLastUseIgnoresFutureDays(t *testing.T) {
	base := time.Date(2026, 8, 10, 0, 0, 0, 0, time.Local)
	history := []models.MenuDay{
		dayOn(base, "Rice"),
		dayOn(base.AddDate(0, 0, 5), "Rice"), // after the date being planned
	}

	last := lastUseByItem(history, base.AddDate(0, 0, 2))
	require.Contains(t, last, "Rice")
	assert.Equal(t, dayStart(base), last["Rice"])
}

func TestAnalyzeWeeklyVarietyFlagsCloseRepeats(t *testing.T) {
	base := time.Date(2026, 8, 10, 0, 0, 0, 0, time.Local)
	week := []models.MenuDay{
		dayOn(base, "Rice", "Apple"),
		dayOn(base.AddDate(0, 0, 1), "Rice"), // gap 1
		dayOn(base.AddDate(0, 0, 3), "Apple"), // gap 3, fine
	}

	a := AnalyzeWeeklyVariety(week, false)
	assert.Equal(t, 4, a.TotalEntries)
	assert.Equal(t, 2, a.DistinctItems)
	require.Len(t, a.Violations, 1)
	assert.Equal(t, "Rice", a.Violations[0].ItemName)
	assert.Equal(t, 1, a.Violations[0].GapDays)
}

func TestAnalyzeWeeklyVarietyEmergencySuppressesViolations(t *testing.T) {
	base := time.Date(2026, 8, 10, 0, 0, 0, 0, time.Local)
	week := []models.MenuDay{
		dayOn(base, "Rice"),
		dayOn(base.AddDate(0, 0, 1), "Rice"),
	}

	a := AnalyzeWeeklyVariety(week, true)
	assert.True(t, a.EmergencyPolicy)
	assert.Empty(t, a.Violations)
}

func TestAnalyzeWeeklyVarietyEmptyWeek(t *testing.T) {
	a := AnalyzeWeeklyVariety(nil, false)
	assert.Equal(t, 0, a.TotalEntries)
	assert.Equal(t, 100.0, a.Score)
}

func TestVarietyScoreBounds(t *testing.T) {
	assert.Equal(t, 100.0, varietyScore(0, 0, 0))
	assert.Equal(t, 100.0, varietyScore(5, 5, 0))
	assert.Equal(t, 0.0, varietyScore(10, 1, 5)) // heavy repetition bottoms out
}

func TestGapDays(t *testing.T) {
	a := time.Date(2026, 8, 10, 23, 0, 0, 0, time.Local)
	b := time.Date(2026, 8, 12, 1, 0, 0, 0, time.Local)
	// calendar days, not 24h periods
	assert.Equal(t, 2, gapDays(a, b))
	assert.Equal(t, 0, gapDays(a, a))
}

func TestGapDaysAcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	orig := time.Local
	time.Local = loc
	defer func() { time.Local = orig }()

	// spring-forward on 2026-03-08: the two local midnights are 47h apart
	a := time.Date(2026, 3, 7, 12, 0, 0, 0, loc)
	b := time.Date(2026, 3, 9, 12, 0, 0, 0, loc)
	assert.Equal(t, 2, gapDays(a, b))

	// a 2-day gap satisfies the minimum and must not be flagged
	history := []models.MenuDay{dayOn(a, "Rice")}
	assert.False(t, violatesIn(history, "Rice", b, MinimumGapDays))

	// fall-back on 2026-11-01: midnights 49h apart across 2 days
	c := time.Date(2026, 10, 31, 12, 0, 0, 0, loc)
	d := time.Date(2026, 11, 2, 12, 0, 0, 0, loc)
	assert.Equal(t, 2, gapDays(c, d))
}

func TestAnalyzeWeeklyVarietyUnsortedInput(t *testing.T) {
	base := time.Date(2026, 8, 10, 0, 0, 0, 0, time.Local)
	week := []models.MenuDay{
		dayOn(base.AddDate(0, 0, 1), "Rice"), // handed over out of order
		dayOn(base, "Rice"),
	}

	a := AnalyzeWeeklyVariety(week, false)
	require.Len(t, a.Violations, 1)
	assert.Equal(t, 1, a.Violations[0].GapDays)
	assert.Equal(t, dayStart(base), a.Violations[0].PrevDate)
}
