package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a patient account. CaregiverEmail, when set, receives a copy of
// norm-breach notices.
type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
	FullName string

	Birthday time.Time
	HeightCm float64
	WeightKg float64

	CaregiverEmail string

	MFAEnabled bool
	MFACode    string

	ResetToken    string
	ResetTokenExp time.Time

	Disabled bool `gorm:"default:false"`
}
