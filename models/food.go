package models

import (
	"fmt"

	"gorm.io/gorm"
)

// EntryType discriminates which catalog table a food reference points at.
type EntryType string

const (
	EntryProduct       EntryType = "product"
	EntryCustomProduct EntryType = "custom_product"
	EntryDish          EntryType = "dish"
	EntryCustomDish    EntryType = "custom_dish"
)

// FoodRef is a tagged reference to exactly one catalog entity.
type FoodRef struct {
	Type EntryType `json:"type"`
	ID   uint      `json:"id"`
}

// Key gives a stable identity string, used by the pantry reservation ledger
// and exact-item pantry matching.
func (r FoodRef) Key() string {
	return fmt.Sprintf("%s:%d", r.Type, r.ID)
}

func (r FoodRef) Valid() bool {
	switch r.Type {
	case EntryProduct, EntryCustomProduct, EntryDish, EntryCustomDish:
		return r.ID != 0
	}
	return false
}

// NutrientSource is implemented by all four catalog entities so downstream
// code resolves nutrition once, when a candidate is built, instead of
// switching on the entry type everywhere.
type NutrientSource interface {
	Profile() NutrientProfile
	DisplayName() string
	Ref() FoodRef
	DefaultServing() float64
}

// Product is a curated catalog food with verified PHE content.
type Product struct {
	gorm.Model
	Name            string `gorm:"not null;index"`
	Category        string
	NutrientProfile `gorm:"embedded"`
	DefaultServingG float64 // suggested serving, grams
	Verified        bool    `gorm:"default:true"`
}

// CustomProduct is a patient-entered food (e.g. a local brand not in the
// curated catalog). Same shape, owned by a user.
type CustomProduct struct {
	gorm.Model
	UserID          uint   `gorm:"index;not null"`
	Name            string `gorm:"not null"`
	Category        string
	NutrientProfile `gorm:"embedded"`
	DefaultServingG float64
}

// Dish is a curated recipe; its profile is the per-100g aggregate of its
// ingredients, precomputed when the catalog is maintained.
type Dish struct {
	gorm.Model
	Name            string `gorm:"not null;index"`
	Category        string
	NutrientProfile `gorm:"embedded"`
	DefaultServingG float64
	PreparationMin  int
}

// CustomDish is a patient-entered recipe.
type CustomDish struct {
	gorm.Model
	UserID          uint   `gorm:"index;not null"`
	Name            string `gorm:"not null"`
	NutrientProfile `gorm:"embedded"`
	DefaultServingG float64
}

func (p *Product) Profile() NutrientProfile { return p.NutrientProfile }
func (p *Product) DisplayName() string      { return p.Name }
func (p *Product) Ref() FoodRef             { return FoodRef{Type: EntryProduct, ID: p.ID} }
func (p *Product) DefaultServing() float64  { return p.DefaultServingG }

func (p *CustomProduct) Profile() NutrientProfile { return p.NutrientProfile }
func (p *CustomProduct) DisplayName() string      { return p.Name }
func (p *CustomProduct) Ref() FoodRef             { return FoodRef{Type: EntryCustomProduct, ID: p.ID} }
func (p *CustomProduct) DefaultServing() float64  { return p.DefaultServingG }

func (d *Dish) Profile() NutrientProfile { return d.NutrientProfile }
func (d *Dish) DisplayName() string      { return d.Name }
func (d *Dish) Ref() FoodRef             { return FoodRef{Type: EntryDish, ID: d.ID} }
func (d *Dish) DefaultServing() float64  { return d.DefaultServingG }

func (d *CustomDish) Profile() NutrientProfile { return d.NutrientProfile }
func (d *CustomDish) DisplayName() string      { return d.Name }
func (d *CustomDish) Ref() FoodRef             { return FoodRef{Type: EntryCustomDish, ID: d.ID} }
func (d *CustomDish) DefaultServing() float64  { return d.DefaultServingG }
