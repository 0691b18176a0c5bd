package models

import "time"

type Alert struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index"`
	Type      string    `gorm:"size:20"` // "breach" | "warning" | "info"
	Message   string    `gorm:"type:text"`
	Date      time.Time `gorm:"index"` // menu day the alert refers to, if any
	CreatedAt time.Time
}
