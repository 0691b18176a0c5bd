package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ChubiniShato/pku-diet-app-sub001/models"
	"github.com/ChubiniShato/pku-diet-app-sub001/utils"
)

type AnalyticsService struct {
	db   *gorm.DB
	menu *MenuService
}

func NewAnalyticsService(db *gorm.DB, menu *MenuService) *AnalyticsService {
	return &AnalyticsService{db: db, menu: menu}
}

// ---------- Summary ----------

type NutrAvg struct {
	AvgPlanned  float64 `json:"avg_planned"`
	AvgConsumed float64 `json:"avg_consumed"`
	Limit       float64 `json:"limit,omitempty"`
	AvgPercent  float64 `json:"avg_percent,omitempty"` // planned vs limit
	Unit        string  `json:"unit,omitempty"`
}

type AnalyticsSummary struct {
	Range struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"range"`

	Nutrients map[string]NutrAvg `json:"nutrients"` // phe, protein, kcal, fat

	Verdicts struct {
		OKDays     int `json:"ok_days"`
		WarnDays   int `json:"warn_days"`
		BreachDays int `json:"breach_days"`
	} `json:"verdicts"`

	Variety VarietyAnalysis `json:"variety"`

	Metadata struct {
		DaysCounted int `json:"days_counted"`
	} `json:"metadata"`
}

// Summary aggregates the intake snapshots over a date range and runs the
// variety analysis over the stored menu days in the same range.
func (s *AnalyticsService) Summary(ctx context.Context, userID uint, from, to time.Time, norm *models.NormPrescription) (*AnalyticsSummary, error) {
	var rows []models.DailyIntake
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, dayStart(from), dayStart(to)).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := &AnalyticsSummary{Nutrients: map[string]NutrAvg{}}
	out.Range.From = dayStart(from).Format("2006-01-02")
	out.Range.To = dayStart(to).Format("2006-01-02")
	out.Metadata.DaysCounted = len(rows)

	var plannedPhe, plannedProt, plannedKcal, plannedFat float64
	var consumedPhe, consumedProt, consumedKcal, consumedFat float64
	for _, r := range rows {
		plannedPhe += r.PlannedPheMg
		plannedProt += r.PlannedProteinG
		plannedKcal += r.PlannedKcal
		plannedFat += r.PlannedFatG
		consumedPhe += r.ConsumedPheMg
		consumedProt += r.ConsumedProteinG
		consumedKcal += r.ConsumedKcal
		consumedFat += r.ConsumedFatG

		switch ValidationLevel(r.Level) {
		case LevelBreach:
			out.Verdicts.BreachDays++
		case LevelWarn:
			out.Verdicts.WarnDays++
		default:
			out.Verdicts.OKDays++
		}
	}

	if n := float64(len(rows)); n > 0 {
		out.Nutrients["phe"] = nutrAvg(plannedPhe/n, consumedPhe/n, normLimit(norm, "phe"), "mg")
		out.Nutrients["protein"] = nutrAvg(plannedProt/n, consumedProt/n, normLimit(norm, "protein"), "g")
		out.Nutrients["kcal"] = nutrAvg(plannedKcal/n, consumedKcal/n, normLimit(norm, "kcal"), "kcal")
		out.Nutrients["fat"] = nutrAvg(plannedFat/n, consumedFat/n, normLimit(norm, "fat"), "g")
	}

	days, err := s.menu.GetRange(userID, from, to)
	if err != nil {
		return nil, err
	}
	out.Variety = AnalyzeWeeklyVariety(days, false)

	return out, nil
}

func nutrAvg(planned, consumed, limit float64, unit string) NutrAvg {
	a := NutrAvg{
		AvgPlanned:  utils.Round2(planned),
		AvgConsumed: utils.Round2(consumed),
		Limit:       limit,
		Unit:        unit,
	}
	if limit > 0 {
		a.AvgPercent = utils.Round2(planned / limit * 100)
	}
	return a
}

func normLimit(norm *models.NormPrescription, nutrient string) float64 {
	if norm == nil {
		return 0
	}
	switch nutrient {
	case "phe":
		return norm.PheLimitMgPerDay
	case "protein":
		if norm.ProteinLimitGPerDay != nil {
			return *norm.ProteinLimitGPerDay
		}
	case "kcal":
		if norm.KcalMinPerDay != nil {
			return *norm.KcalMinPerDay
		}
	case "fat":
		if norm.FatLimitGPerDay != nil {
			return *norm.FatLimitGPerDay
		}
	}
	return 0
}
