package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/ChubiniShato/pku-diet-app-sub001/models"
)

const (
	// MaxEntriesPerSlot caps how many items the assembler packs into one
	// meal occasion.
	MaxEntriesPerSlot = 2
	// DefaultServingGrams is used when a catalog item carries no suggested
	// serving.
	DefaultServingGrams = 100
)

// MenuService walks meal slots across a day or week, builds and filters the
// candidate pool, scores it, commits winners and validates the result. One
// reservation ledger lives for exactly one Generate call.
type MenuService struct {
	db      *gorm.DB
	catalog *CatalogService
	pantry  *PantryService
	scoring *ScoringService
	variety *VarietyService
	norms   *NormsService
}

func NewMenuService(db *gorm.DB, catalog *CatalogService, pantry *PantryService, scoring *ScoringService, variety *VarietyService, norms *NormsService) *MenuService {
	return &MenuService{db: db, catalog: catalog, pantry: pantry, scoring: scoring, variety: variety, norms: norms}
}

type GeneratedDay struct {
	Day        *models.MenuDay  `json:"day"`
	Validation ValidationResult `json:"validation"`
}

// GenerateDay plans one day. Emergency mode disables variety filtering so
// a menu can always be produced.
func (s *MenuService) GenerateDay(userID uint, date time.Time, emergency bool) (*GeneratedDay, error) {
	norm, err := s.norms.ActiveFor(userID)
	if err != nil {
		return nil, err
	}
	pool, err := s.catalog.PoolFor(userID)
	if err != nil {
		return nil, err
	}
	history, err := s.variety.loadRecentDays(userID, date)
	if err != nil {
		return nil, err
	}

	ledger := NewReservationLedger()
	day, err := s.assembleDay(userID, date, emergency, norm, pool, history, ledger)
	if err != nil {
		return nil, err
	}
	day.GenerationID = ledger.RunID

	gd, err := s.commitDay(userID, norm, day)
	if err != nil {
		return nil, err
	}
	s.pantry.NotifyExpiringSoon(userID, ExpiryNoticeDays)
	return gd, nil
}

// GenerateWeek plans seven days from startDate. A single ledger spans the
// run so no pantry stock is double-allocated across the week, and each
// generated day feeds the variety history of the next.
func (s *MenuService) GenerateWeek(userID uint, startDate time.Time, emergency bool) ([]GeneratedDay, error) {
	norm, err := s.norms.ActiveFor(userID)
	if err != nil {
		return nil, err
	}
	pool, err := s.catalog.PoolFor(userID)
	if err != nil {
		return nil, err
	}
	history, err := s.variety.loadRecentDays(userID, startDate)
	if err != nil {
		return nil, err
	}

	ledger := NewReservationLedger()
	runID := ledger.RunID

	out := make([]GeneratedDay, 0, 7)
	for i := 0; i < 7; i++ {
		date := dayStart(startDate).AddDate(0, 0, i)
		day, err := s.assembleDay(userID, date, emergency, norm, pool, history, ledger)
		if err != nil {
			return nil, err
		}
		day.GenerationID = runID

		gd, err := s.commitDay(userID, norm, day)
		if err != nil {
			return nil, err
		}
		out = append(out, *gd)
		history = append(history, *day)
	}
	s.pantry.NotifyExpiringSoon(userID, ExpiryNoticeDays)
	return out, nil
}

// assembleDay runs the per-slot pipeline: pool → variety filter → scoring →
// greedy selection under the slot's PHE budget → pantry reservation.
func (s *MenuService) assembleDay(
	userID uint,
	date time.Time,
	emergency bool,
	norm *models.NormPrescription,
	pool []models.NutrientSource,
	history []models.MenuDay,
	ledger *ReservationLedger,
) (*models.MenuDay, error) {
	day := &models.MenuDay{
		UserID:    userID,
		Date:      dayStart(date),
		Emergency: emergency,
	}

	lastUse := lastUseByItem(history, date)
	policy := s.scoring.Policy()

	for pos, slotName := range models.SlotOrder {
		slot := models.MealSlot{Name: slotName, Position: pos}

		candidates, err := s.buildCandidates(userID, date, emergency, pool, lastUse, ledger)
		if err != nil {
			return nil, err
		}
		for _, c := range candidates {
			s.scoring.Score(c, slotName, norm, policy.OverThresholdPercent, recentUses(lastUse, c.Name, date))
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].Score != candidates[j].Score {
				return candidates[i].Score < candidates[j].Score
			}
			return candidates[i].Name < candidates[j].Name
		})

		pheBudget := 0.0
		if norm != nil {
			pheBudget = s.scoring.slotShare(norm.PheLimitMgPerDay, slotName)
		}

		picked := pickForSlot(candidates, pheBudget, MaxEntriesPerSlot)
		for _, c := range picked {
			entry := s.entryFromCandidate(userID, c, ledger)
			slot.Entries = append(slot.Entries, entry)
			lastUse[c.Name] = dayStart(date) // same-run repeats are penalized too
		}

		day.Slots = append(day.Slots, slot)
	}
	return day, nil
}

// buildCandidates turns the raw pool into scored-ready candidates: resolves
// serving size, pantry availability and a cost estimate, and drops items the
// variety policy says to avoid (never in emergency mode).
func (s *MenuService) buildCandidates(
	userID uint,
	date time.Time,
	emergency bool,
	pool []models.NutrientSource,
	lastUse map[string]time.Time,
	ledger *ReservationLedger,
) ([]*FoodCandidate, error) {
	candidates := make([]*FoodCandidate, 0, len(pool))
	for _, src := range pool {
		name := src.DisplayName()
		if !emergency {
			if prev, ok := lastUse[name]; ok && gapDays(prev, date) < MinimumGapDays {
				continue
			}
		}

		serving := servingFor(src)
		c := NewFoodCandidate(src, serving)

		avail, err := s.pantry.CheckPantryAvailability(c.Ref, userID, serving)
		if err != nil {
			return nil, err
		}
		// availability for scoring means "enough stock not yet claimed in
		// this run" — earlier slots and days of the run count against it
		c.PantryGrams, c.PantryAvailable = unreservedStock(avail, ledger.Reserved(c.Ref.Key()), serving)

		cost, err := s.pantry.CurrentCost(c.Ref, serving, userID)
		if err != nil {
			return nil, err
		}
		c.CostEstimate = cost

		candidates = append(candidates, c)
	}
	return candidates, nil
}

// unreservedStock narrows raw pantry availability by grams already claimed
// in the current planning run.
func unreservedStock(avail PantryAvailability, reservedGrams, neededGrams float64) (float64, bool) {
	grams := avail.TotalQuantityAvailable - reservedGrams
	if grams < 0 {
		grams = 0
	}
	return grams, grams > 0 && grams >= neededGrams
}

// pickForSlot greedily takes the best-scoring candidates. The first pick is
// unconditional so a slot is never left empty; further picks must fit the
// slot's remaining PHE budget. A budget of zero (no prescription) only caps
// the entry count.
func pickForSlot(sorted []*FoodCandidate, pheBudget float64, maxEntries int) []*FoodCandidate {
	var picked []*FoodCandidate
	used := make(map[string]struct{})
	phe := 0.0
	for _, c := range sorted {
		if len(picked) >= maxEntries {
			break
		}
		if _, dup := used[c.Ref.Key()]; dup {
			continue
		}
		if len(picked) > 0 && pheBudget > 0 && phe+c.Nutrition.PheValue() > pheBudget {
			continue
		}
		picked = append(picked, c)
		used[c.Ref.Key()] = struct{}{}
		phe += c.Nutrition.PheValue()
	}
	return picked
}

// entryFromCandidate commits a winner: tries to reserve pantry stock for it
// and snapshots its nutrition. A failed reservation just means the entry is
// shopped for instead of taken from the pantry.
func (s *MenuService) entryFromCandidate(userID uint, c *FoodCandidate, ledger *ReservationLedger) models.MenuEntry {
	fromPantry := false
	if c.PantryAvailable {
		if rows, err := s.pantry.RowsFor(userID, c.Ref); err == nil {
			if ok, err := ledger.Reserve(rows, c.ServingGrams); err == nil && ok {
				fromPantry = true
			}
		}
	}
	return models.MenuEntry{
		ItemType:     c.Ref.Type,
		ItemID:       c.Ref.ID,
		ItemName:     c.Name,
		PlannedGrams: c.ServingGrams,
		PheMg:        c.Nutrition.PheValue(),
		ProteinG:     c.Nutrition.ProteinValue(),
		Kcal:         c.Nutrition.KcalValue(),
		FatG:         c.Nutrition.FatValue(),
		CostEstimate: c.CostEstimate,
		FromPantry:   fromPantry,
	}
}

// commitDay validates, persists and snapshots a built day, and raises an
// alert when the verdict is a breach.
func (s *MenuService) commitDay(userID uint, norm *models.NormPrescription, day *models.MenuDay) (*GeneratedDay, error) {
	res := ValidateDay(norm, day)

	// replace any previously generated plan for the same day
	if err := s.deleteDay(userID, day.Date); err != nil {
		return nil, err
	}
	if err := s.db.Create(day).Error; err != nil {
		return nil, err
	}
	if err := s.upsertIntake(userID, day.Date, res); err != nil {
		return nil, err
	}

	if res.Level == LevelBreach {
		EmitBreachAlert(userID, day.Date, res.Messages)
	}
	return &GeneratedDay{Day: day, Validation: res}, nil
}

func (s *MenuService) deleteDay(userID uint, date time.Time) error {
	var old models.MenuDay
	err := s.db.Where("user_id = ? AND date = ?", userID, dayStart(date)).First(&old).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	var slots []models.MealSlot
	if err := s.db.Where("menu_day_id = ?", old.ID).Find(&slots).Error; err != nil {
		return err
	}
	for _, slot := range slots {
		if err := s.db.Where("meal_slot_id = ?", slot.ID).Delete(&models.MenuEntry{}).Error; err != nil {
			return err
		}
	}
	if err := s.db.Where("menu_day_id = ?", old.ID).Delete(&models.MealSlot{}).Error; err != nil {
		return err
	}
	return s.db.Delete(&old).Error
}

func (s *MenuService) GetDay(userID uint, date time.Time) (*models.MenuDay, error) {
	var day models.MenuDay
	err := s.db.
		Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Slots.Entries").
		Where("user_id = ? AND date = ?", userID, dayStart(date)).
		First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (s *MenuService) GetRange(userID uint, from, to time.Time) ([]models.MenuDay, error) {
	var days []models.MenuDay
	err := s.db.
		Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Slots.Entries").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, dayStart(from), dayStart(to)).
		Order("date ASC").
		Find(&days).Error
	return days, err
}

// ValidateDate re-runs validation for an already stored day on demand.
func (s *MenuService) ValidateDate(userID uint, date time.Time) (ValidationResult, error) {
	norm, err := s.norms.ActiveFor(userID)
	if err != nil {
		return ValidationResult{}, err
	}
	day, err := s.GetDay(userID, date)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ValidateDay(norm, nil), nil
	}
	if err != nil {
		return ValidationResult{}, err
	}
	return ValidateDay(norm, day), nil
}

// MarkConsumed records that an entry was eaten (fully or partially) and, if
// it was planned from pantry stock, draws the grams down.
func (s *MenuService) MarkConsumed(userID uint, entryID uint, consumedGrams float64) (*models.MenuEntry, error) {
	var entry models.MenuEntry
	if err := s.db.First(&entry, entryID).Error; err != nil {
		return nil, err
	}
	var slot models.MealSlot
	if err := s.db.First(&slot, entry.MealSlotID).Error; err != nil {
		return nil, err
	}
	var day models.MenuDay
	if err := s.db.First(&day, slot.MenuDayID).Error; err != nil {
		return nil, err
	}
	if day.UserID != userID {
		return nil, fmt.Errorf("entry %d does not belong to user %d", entryID, userID)
	}

	if consumedGrams <= 0 {
		consumedGrams = entry.PlannedGrams
	}
	now := time.Now()
	entry.Consumed = true
	entry.ConsumedAt = &now
	entry.ConsumedGrams = consumedGrams
	if err := s.db.Save(&entry).Error; err != nil {
		return nil, err
	}

	if entry.FromPantry {
		if err := s.pantry.Consume(userID, entry.Ref(), consumedGrams); err != nil {
			return nil, err
		}
	}

	// refresh the day snapshot with the new consumed totals
	norm, err := s.norms.ActiveFor(userID)
	if err != nil {
		return nil, err
	}
	full, err := s.GetDay(userID, day.Date)
	if err != nil {
		return nil, err
	}
	if err := s.upsertIntake(userID, day.Date, ValidateDay(norm, full)); err != nil {
		return nil, err
	}
	return &entry, nil
}

// upsertIntake keeps the per-day planned/consumed snapshot current, keyed by
// (user, date).
func (s *MenuService) upsertIntake(userID uint, date time.Time, res ValidationResult) error {
	intake := models.DailyIntake{
		UserID:           userID,
		Date:             dayStart(date),
		PlannedPheMg:     res.PlannedTotals.PheValue(),
		PlannedProteinG:  res.PlannedTotals.ProteinValue(),
		PlannedKcal:      res.PlannedTotals.KcalValue(),
		PlannedFatG:      res.PlannedTotals.FatValue(),
		ConsumedPheMg:    res.ConsumedTotals.PheValue(),
		ConsumedProteinG: res.ConsumedTotals.ProteinValue(),
		ConsumedKcal:     res.ConsumedTotals.KcalValue(),
		ConsumedFatG:     res.ConsumedTotals.FatValue(),
		Level:            string(res.Level),
	}
	return s.db.
		Where("user_id = ? AND date = ?", userID, intake.Date).
		Assign(intake).
		FirstOrCreate(&intake).Error
}

// recentUses counts an item's uses inside the minimum-gap window; the
// scoring engine only needs the count, not the dates.
func recentUses(lastUse map[string]time.Time, itemName string, date time.Time) int {
	if prev, ok := lastUse[itemName]; ok && gapDays(prev, date) < MinimumGapDays {
		return 1
	}
	return 0
}

func servingFor(src models.NutrientSource) float64 {
	if s := src.DefaultServing(); s > 0 {
		return s
	}
	return DefaultServingGrams
}
