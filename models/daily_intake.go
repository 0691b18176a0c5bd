package models

import (
	"time"

	"gorm.io/gorm"
)

// DailyIntake is a per-day snapshot of planned vs consumed totals, upserted
// after menu generation and whenever an entry is marked consumed. Kept for
// history/analytics; the validator always recomputes from entries.
type DailyIntake struct {
	gorm.Model
	UserID uint      `gorm:"index;not null"`
	Date   time.Time `gorm:"index;not null"`

	PlannedPheMg    float64
	PlannedProteinG float64
	PlannedKcal     float64
	PlannedFatG     float64

	ConsumedPheMg    float64
	ConsumedProteinG float64
	ConsumedKcal     float64
	ConsumedFatG     float64

	Level string `gorm:"size:10"` // OK | WARN | BREACH at last validation
}
