package models

import (
	"time"

	"gorm.io/gorm"
)

// PriceEntry is a recorded market price for a catalog item, used for cost
// estimation only when the patient has no pantry stock of the item.
type PriceEntry struct {
	gorm.Model
	ItemType EntryType `gorm:"size:20;not null;index:idx_price_item"`
	ItemID   uint      `gorm:"not null;index:idx_price_item"`

	StoreName    string    `json:"store_name"`
	Region       string    `json:"region"`
	PricePerUnit float64   `json:"price_per_unit"` // price for UnitGrams of the item
	UnitGrams    float64   `json:"unit_grams"`     // pack size the price refers to
	Current      bool      `gorm:"index" json:"current"`
	RecordedAt   time.Time `json:"recorded_at"`
}

func (e *PriceEntry) Ref() FoodRef { return FoodRef{Type: e.ItemType, ID: e.ItemID} }

// PerGram normalizes the entry to a per-gram price; zero if the pack size
// is missing.
func (e *PriceEntry) PerGram() float64 {
	if e.UnitGrams <= 0 {
		return 0
	}
	return e.PricePerUnit / e.UnitGrams
}
