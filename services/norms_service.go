package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ChubiniShato/pku-diet-app-sub001/models"
	"github.com/ChubiniShato/pku-diet-app-sub001/utils"
)

type ValidationLevel string

const (
	LevelOK     ValidationLevel = "OK"
	LevelWarn   ValidationLevel = "WARN"
	LevelBreach ValidationLevel = "BREACH"
)

// ValidationResult is the verdict for one day against one prescription.
// Deltas are signed actual−limit values (negative on a kcal deficit) and
// contain only nutrients that had a configured limit and were evaluated.
// The consumed totals are carried for reporting; only planned totals drive
// the level.
type ValidationResult struct {
	Level       ValidationLevel    `json:"level"`
	Deltas      map[string]float64 `json:"deltas"`
	Messages    []string           `json:"messages"`
	Suggestions []string           `json:"suggestions"`

	PlannedTotals  utils.NutritionBreakdown `json:"planned_totals"`
	ConsumedTotals utils.NutritionBreakdown `json:"consumed_totals"`
}

// ValidateDay classifies a day against a prescription. A missing norm or day
// is not an error here: planning must not be blocked by absent inputs, so
// both degrade to an OK verdict with nothing evaluated.
//
// Breach conditions: planned PHE above its limit, planned protein above its
// limit, planned kcal below the prescribed minimum. Fat over its limit is a
// warning, never a breach.
func ValidateDay(norm *models.NormPrescription, day *models.MenuDay) ValidationResult {
	res := ValidationResult{
		Level:  LevelOK,
		Deltas: map[string]float64{},
	}
	if norm == nil || day == nil {
		return res
	}

	res.PlannedTotals = dayPlannedTotals(day)
	res.ConsumedTotals = dayConsumedTotals(day)

	breach := false
	warn := false

	phe := res.PlannedTotals.PheValue()
	res.Deltas["phe"] = utils.Round2(phe - norm.PheLimitMgPerDay)
	if phe > norm.PheLimitMgPerDay {
		breach = true
		res.Messages = append(res.Messages, fmt.Sprintf(
			"PHE exceeds daily limit: %.2f mg > %.2f mg", phe, norm.PheLimitMgPerDay))
		res.Suggestions = append(res.Suggestions,
			"Replace the highest-PHE entries with low-protein alternatives.")
	}

	if norm.ProteinLimitGPerDay != nil {
		prot := res.PlannedTotals.ProteinValue()
		res.Deltas["protein"] = utils.Round2(prot - *norm.ProteinLimitGPerDay)
		if prot > *norm.ProteinLimitGPerDay {
			breach = true
			res.Messages = append(res.Messages, fmt.Sprintf(
				"Protein exceeds daily limit: %.2f g > %.2f g", prot, *norm.ProteinLimitGPerDay))
		}
	}

	if norm.KcalMinPerDay != nil {
		kcal := res.PlannedTotals.KcalValue()
		res.Deltas["kcal"] = utils.Round2(kcal - *norm.KcalMinPerDay)
		if kcal < *norm.KcalMinPerDay {
			breach = true
			res.Messages = append(res.Messages, fmt.Sprintf(
				"Energy below daily minimum: %.0f kcal < %.0f kcal", kcal, *norm.KcalMinPerDay))
			res.Suggestions = append(res.Suggestions,
				"Add protein-free energy sources (fruit, low-protein bread, oils).")
		}
	}

	if norm.FatLimitGPerDay != nil {
		fat := res.PlannedTotals.FatValue()
		res.Deltas["fat"] = utils.Round2(fat - *norm.FatLimitGPerDay)
		if fat > *norm.FatLimitGPerDay {
			warn = true
			res.Messages = append(res.Messages, fmt.Sprintf(
				"Fat exceeds daily limit: %.2f g > %.2f g", fat, *norm.FatLimitGPerDay))
			res.Suggestions = append(res.Suggestions,
				"Prefer leaner preparations to bring fat back under the limit.")
		}
	}

	switch {
	case breach:
		res.Level = LevelBreach
	case warn:
		res.Level = LevelWarn
	}
	return res
}

// dayPlannedTotals sums the entry snapshots. Totals are derived, never
// stored on the day, so edits to entries cannot desync them.
func dayPlannedTotals(day *models.MenuDay) utils.NutritionBreakdown {
	total := utils.ZeroBreakdown()
	for _, slot := range day.Slots {
		for _, e := range slot.Entries {
			total = utils.Add(total, utils.NutritionBreakdown{
				QuantityG: e.PlannedGrams,
				PheMg:     utils.Float64Ptr(e.PheMg),
				ProteinG:  utils.Float64Ptr(e.ProteinG),
				Kcal:      utils.Float64Ptr(e.Kcal),
				FatG:      utils.Float64Ptr(e.FatG),
			})
		}
	}
	return total
}

// dayConsumedTotals sums only entries marked consumed, prorating the
// snapshot when the eaten amount differs from the plan.
func dayConsumedTotals(day *models.MenuDay) utils.NutritionBreakdown {
	total := utils.ZeroBreakdown()
	for _, slot := range day.Slots {
		for _, e := range slot.Entries {
			if !e.Consumed {
				continue
			}
			factor := 1.0
			if e.ConsumedGrams > 0 && e.PlannedGrams > 0 {
				factor = e.ConsumedGrams / e.PlannedGrams
			}
			total = utils.Add(total, utils.NutritionBreakdown{
				QuantityG: e.PlannedGrams * factor,
				PheMg:     utils.Float64Ptr(utils.Round2(e.PheMg * factor)),
				ProteinG:  utils.Float64Ptr(utils.Round2(e.ProteinG * factor)),
				Kcal:      utils.Float64Ptr(utils.RoundKcal(e.Kcal * factor)),
				FatG:      utils.Float64Ptr(utils.Round2(e.FatG * factor)),
			})
		}
	}
	return total
}

// NormsService owns prescription storage and the one-active-per-patient
// invariant the validator relies on.
type NormsService struct {
	db *gorm.DB
}

func NewNormsService(db *gorm.DB) *NormsService { return &NormsService{db: db} }

type PrescriptionInput struct {
	PheLimitMgPerDay    float64  `json:"phe_limit_mg_per_day" binding:"required"`
	ProteinLimitGPerDay *float64 `json:"protein_limit_g_per_day"`
	KcalMinPerDay       *float64 `json:"kcal_min_per_day"`
	KcalMaxPerDay       *float64 `json:"kcal_max_per_day"`
	FatLimitGPerDay     *float64 `json:"fat_limit_g_per_day"`
	EffectiveFrom       string   `json:"effective_from"` // YYYY-MM-DD, defaults to today
	IssuedBy            string   `json:"issued_by"`
}

// SetPrescription activates a new prescription, retiring any currently
// active one in the same transaction so the invariant can't be observed
// broken.
func (s *NormsService) SetPrescription(userID uint, in PrescriptionInput) (*models.NormPrescription, error) {
	if in.PheLimitMgPerDay <= 0 {
		return nil, errors.New("phe limit must be positive")
	}

	from := dayStart(time.Now())
	if in.EffectiveFrom != "" {
		parsed, err := time.ParseInLocation("2006-01-02", in.EffectiveFrom, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid effective_from: %w", err)
		}
		from = parsed
	}

	norm := &models.NormPrescription{
		UserID:              userID,
		PheLimitMgPerDay:    in.PheLimitMgPerDay,
		ProteinLimitGPerDay: in.ProteinLimitGPerDay,
		KcalMinPerDay:       in.KcalMinPerDay,
		KcalMaxPerDay:       in.KcalMaxPerDay,
		FatLimitGPerDay:     in.FatLimitGPerDay,
		EffectiveFrom:       from,
		Active:              true,
		IssuedBy:            in.IssuedBy,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&models.NormPrescription{}).
			Where("user_id = ? AND active = ?", userID, true).
			Updates(map[string]interface{}{"active": false, "effective_to": now}).Error; err != nil {
			return err
		}
		return tx.Create(norm).Error
	})
	if err != nil {
		return nil, err
	}
	return norm, nil
}

// ActiveFor returns the patient's active prescription, nil (no error) when
// none exists — downstream validation treats that as "nothing to validate".
func (s *NormsService) ActiveFor(userID uint) (*models.NormPrescription, error) {
	var norm models.NormPrescription
	err := s.db.
		Where("user_id = ? AND active = ?", userID, true).
		Order("effective_from DESC").
		First(&norm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &norm, nil
}

func (s *NormsService) History(userID uint) ([]models.NormPrescription, error) {
	var norms []models.NormPrescription
	err := s.db.
		Where("user_id = ?", userID).
		Order("effective_from DESC").
		Find(&norms).Error
	return norms, err
}
