package models

import (
	"time"

	"gorm.io/gorm"
)

// Slot names, in meal order. Fair-share calculations divide daily limits by
// len(SlotOrder).
const (
	SlotBreakfast      = "breakfast"
	SlotMorningSnack   = "morning_snack"
	SlotLunch          = "lunch"
	SlotAfternoonSnack = "afternoon_snack"
	SlotDinner         = "dinner"
	SlotEveningSnack   = "evening_snack"
)

var SlotOrder = []string{
	SlotBreakfast,
	SlotMorningSnack,
	SlotLunch,
	SlotAfternoonSnack,
	SlotDinner,
	SlotEveningSnack,
}

// MenuDay is one generated day of a patient's plan.
type MenuDay struct {
	gorm.Model
	UserID uint      `gorm:"index;not null"`
	Date   time.Time `gorm:"index;not null"` // local midnight

	GenerationID string `gorm:"size:36;index"` // planning-run uuid
	Emergency    bool   // generated under emergency variety policy

	Slots []MealSlot `json:"slots"`
}

// MealSlot is a named meal occasion within a day.
type MealSlot struct {
	gorm.Model
	MenuDayID uint   `gorm:"index;not null"`
	Name      string `gorm:"size:20;not null"`
	Position  int    // index into SlotOrder

	Entries []MenuEntry `json:"entries"`
}

// MenuEntry references exactly one food item with a planned serving and a
// nutrition snapshot at that serving. Totals are never stored on the slot or
// day; they are recomputed by summing entries.
type MenuEntry struct {
	gorm.Model
	MealSlotID uint `gorm:"index;not null"`

	ItemType EntryType `gorm:"size:20;not null"`
	ItemID   uint      `gorm:"not null"`
	ItemName string    // display snapshot, also the variety identity

	PlannedGrams float64 `json:"planned_grams"`

	// Nutrition snapshot at PlannedGrams, computed by the scaler when the
	// entry is created.
	PheMg    float64 `json:"phe_mg"`
	ProteinG float64 `json:"protein_g"`
	Kcal     float64 `json:"kcal"`
	FatG     float64 `json:"fat_g"`

	CostEstimate float64 `json:"cost_estimate"`
	FromPantry   bool    `json:"from_pantry"`

	Consumed      bool       `json:"consumed"`
	ConsumedAt    *time.Time `json:"consumed_at,omitempty"`
	ConsumedGrams float64    `json:"consumed_grams"` // may differ from planned
}

func (e *MenuEntry) Ref() FoodRef { return FoodRef{Type: e.ItemType, ID: e.ItemID} }
