package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ChubiniShato/pku-diet-app-sub001/models"
	"github.com/ChubiniShato/pku-diet-app-sub001/utils"
)

type ReportService struct {
	analytics *AnalyticsService
	menu      *MenuService
}

func NewReportService(analytics *AnalyticsService, menu *MenuService) *ReportService {
	return &ReportService{analytics: analytics, menu: menu}
}

type WeeklyReport struct {
	UserID      uint              `json:"user_id"`
	GeneratedAt string            `json:"generated_at"`
	Summary     *AnalyticsSummary `json:"summary"`
	Days        []dayReport       `json:"days"`
}

type dayReport struct {
	Date    string        `json:"date"`
	Verdict string        `json:"verdict"`
	Slots   []slotReport  `json:"slots"`
	Totals  map[string]float64 `json:"totals"`
}

type slotReport struct {
	Name    string   `json:"name"`
	Entries []string `json:"entries"`
}

// GenerateWeekly builds a seven-day JSON report ending at `to`, uploads it to
// S3 and returns the public URL.
func (s *ReportService) GenerateWeekly(ctx context.Context, userID uint, to time.Time, norm *models.NormPrescription) (string, error) {
	from := dayStart(to).AddDate(0, 0, -6)

	summary, err := s.analytics.Summary(ctx, userID, from, to, norm)
	if err != nil {
		return "", err
	}

	days, err := s.menu.GetRange(userID, from, to)
	if err != nil {
		return "", err
	}

	report := WeeklyReport{
		UserID:      userID,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Summary:     summary,
	}
	for _, d := range days {
		res := ValidateDay(norm, &d)
		dr := dayReport{
			Date:    d.Date.Format("2006-01-02"),
			Verdict: string(res.Level),
			Totals: map[string]float64{
				"phe_mg":    res.PlannedTotals.PheValue(),
				"protein_g": res.PlannedTotals.ProteinValue(),
				"kcal":      res.PlannedTotals.KcalValue(),
				"fat_g":     res.PlannedTotals.FatValue(),
			},
		}
		for _, slot := range d.Slots {
			sr := slotReport{Name: slot.Name}
			for _, e := range slot.Entries {
				sr.Entries = append(sr.Entries, fmt.Sprintf("%s %.0fg (%.0f mg PHE)", e.ItemName, e.PlannedGrams, e.PheMg))
			}
			dr.Slots = append(dr.Slots, sr)
		}
		report.Days = append(report.Days, dr)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("weekly/%d/%s-%s.json", userID, to.Format("2006-01-02"), uuid.NewString())
	return utils.UploadReportToS3(key, data, "application/json")
}
