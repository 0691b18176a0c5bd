package models

import (
	"time"

	"gorm.io/gorm"
)

// NormPrescription holds a patient's clinician-issued daily limits.
// PHE is the only mandatory limit; the rest are optional and nil means
// "no limit prescribed". Exactly one prescription may be active per user at
// a time — NormsService enforces that on write, the validator assumes it.
type NormPrescription struct {
	gorm.Model
	UserID uint `gorm:"index;not null"`

	PheLimitMgPerDay    float64  `gorm:"not null" json:"phe_limit_mg_per_day"`
	ProteinLimitGPerDay *float64 `json:"protein_limit_g_per_day,omitempty"`
	KcalMinPerDay       *float64 `json:"kcal_min_per_day,omitempty"`
	KcalMaxPerDay       *float64 `json:"kcal_max_per_day,omitempty"`
	FatLimitGPerDay     *float64 `json:"fat_limit_g_per_day,omitempty"`

	EffectiveFrom time.Time  `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty"`
	Active        bool       `gorm:"index" json:"active"`

	IssuedBy string `json:"issued_by"` // clinician name, free text
}
