package services

import (
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/ChubiniShato/pku-diet-app-sub001/models"
)

const (
	// MinimumGapDays is how many days must pass before an item may repeat.
	MinimumGapDays = 2
	// VarietyLookbackDays bounds how far back history is scanned; older uses
	// can never violate the gap anyway.
	VarietyLookbackDays = 14
)

type VarietyViolation struct {
	ItemName string    `json:"item_name"`
	PrevDate time.Time `json:"prev_date"`
	NextDate time.Time `json:"next_date"`
	GapDays  int       `json:"gap_days"`
}

type VarietyAnalysis struct {
	TotalEntries    int                `json:"total_entries"`
	DistinctItems   int                `json:"distinct_items"`
	Violations      []VarietyViolation `json:"violations"`
	Score           float64            `json:"score"` // 0–100, higher is better
	EmergencyPolicy bool               `json:"emergency_policy"`
}

type VarietyService struct {
	db *gorm.DB
}

func NewVarietyService(db *gorm.DB) *VarietyService { return &VarietyService{db: db} }

// loadRecentDays fetches the patient's menu days inside the look-back window
// ending at date (inclusive), entries preloaded, oldest first.
func (s *VarietyService) loadRecentDays(userID uint, date time.Time) ([]models.MenuDay, error) {
	from := dayStart(date).AddDate(0, 0, -VarietyLookbackDays)
	var days []models.MenuDay
	err := s.db.
		Preload("Slots.Entries").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, dayStart(date)).
		Order("date ASC").
		Find(&days).Error
	return days, err
}

// ViolatesVarietyRules reports whether serving itemName on date would repeat
// the item too soon. Emergency mode never blocks: when no other safe food is
// available, variety policy yields.
func (s *VarietyService) ViolatesVarietyRules(itemName string, userID uint, date time.Time, slotName string, emergencyMode bool) (bool, error) {
	if emergencyMode {
		return false, nil
	}
	days, err := s.loadRecentDays(userID, date)
	if err != nil {
		return false, err
	}
	return violatesIn(days, itemName, date, MinimumGapDays), nil
}

// ItemsToAvoidForVariety returns the item names whose most recent use falls
// inside the minimum-gap window before date. Used to pre-filter candidate
// pools. Empty in emergency mode.
func (s *VarietyService) ItemsToAvoidForVariety(userID uint, date time.Time, slotName string, emergencyMode bool) (map[string]struct{}, error) {
	avoid := make(map[string]struct{})
	if emergencyMode {
		return avoid, nil
	}
	days, err := s.loadRecentDays(userID, date)
	if err != nil {
		return nil, err
	}
	for name, last := range lastUseByItem(days, date) {
		if gapDays(last, date) < MinimumGapDays {
			avoid[name] = struct{}{}
		}
	}
	return avoid, nil
}

// AnalyzeWeeklyVariety scans a week of generated days and scores how varied
// it is: more distinct items raise the score, close repeats lower it.
func AnalyzeWeeklyVariety(days []models.MenuDay, emergencyMode bool) VarietyAnalysis {
	a := VarietyAnalysis{EmergencyPolicy: emergencyMode}

	// callers hand over days in whatever order they were assembled
	sorted := make([]models.MenuDay, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	days = sorted

	lastSeen := make(map[string]time.Time)
	distinct := make(map[string]struct{})

	for _, d := range days {
		for _, slot := range d.Slots {
			for _, e := range slot.Entries {
				a.TotalEntries++
				distinct[e.ItemName] = struct{}{}
				if prev, ok := lastSeen[e.ItemName]; ok && !emergencyMode {
					if g := gapDays(prev, d.Date); g < MinimumGapDays {
						a.Violations = append(a.Violations, VarietyViolation{
							ItemName: e.ItemName,
							PrevDate: prev,
							NextDate: dayStart(d.Date),
							GapDays:  g,
						})
					}
				}
				lastSeen[e.ItemName] = dayStart(d.Date)
			}
		}
	}

	a.DistinctItems = len(distinct)
	a.Score = varietyScore(a.TotalEntries, a.DistinctItems, len(a.Violations))
	return a
}

// violatesIn is the pure check behind ViolatesVarietyRules: a prior use of
// itemName within MinimumGapDays of date (same day included) violates. No
// prior use never violates.
func violatesIn(days []models.MenuDay, itemName string, date time.Time, minGap int) bool {
	last, ok := lastUseByItem(days, date)[itemName]
	if !ok {
		return false
	}
	return gapDays(last, date) < minGap
}

// lastUseByItem maps each item name to its most recent use on or before
// date.
func lastUseByItem(days []models.MenuDay, date time.Time) map[string]time.Time {
	cutoff := dayStart(date)
	last := make(map[string]time.Time)
	for _, d := range days {
		dd := dayStart(d.Date)
		if dd.After(cutoff) {
			continue
		}
		for _, slot := range d.Slots {
			for _, e := range slot.Entries {
				if prev, ok := last[e.ItemName]; !ok || dd.After(prev) {
					last[e.ItemName] = dd
				}
			}
		}
	}
	return last
}

// gapDays counts calendar days between two dates. Local midnights can sit 23
// or 25 hours apart around a DST shift, so the quotient is rounded, not
// truncated.
func gapDays(prev, next time.Time) int {
	d := dayStart(next).Sub(dayStart(prev))
	return int(math.Round(d.Hours() / 24))
}

// varietyScore: ratio of distinct items to entries, minus 10 points per
// close repeat, clamped to [0,100].
func varietyScore(total, distinct, violations int) float64 {
	if total == 0 {
		return 100
	}
	score := float64(distinct) / float64(total) * 100
	score -= float64(violations) * 10
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func dayStart(t time.Time) time.Time {
	tt := t.In(time.Local)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.Local)
}
