package models

import (
	"time"

	"gorm.io/gorm"
)

// PantryItem is one stock row of a patient's on-hand inventory. Only
// products and custom products can sit in a pantry (dishes are prepared,
// not stocked).
type PantryItem struct {
	gorm.Model
	UserID uint `gorm:"index;not null"`

	ItemType EntryType `gorm:"size:20;not null;index:idx_pantry_item"`
	ItemID   uint      `gorm:"not null;index:idx_pantry_item"`

	QuantityGrams float64   `json:"quantity_grams"`
	ExpiryDate    time.Time `gorm:"index" json:"expiry_date"`
	Location      string    `json:"location"` // "fridge", "cupboard", ...
	CostPerGram   float64   `json:"cost_per_gram"`
	Available     bool      `gorm:"default:true" json:"available"`
}

func (p *PantryItem) Ref() FoodRef { return FoodRef{Type: p.ItemType, ID: p.ItemID} }

// Expired reports whether the row is past its expiry relative to today.
func (p *PantryItem) Expired(today time.Time) bool {
	return p.ExpiryDate.Before(today)
}
