package utils

import (
	"math"

	"github.com/ChubiniShato/pku-diet-app-sub001/models"
)

// NutritionBreakdown is a NutrientProfile scaled to a concrete quantity in
// grams. Fields are pointers: nil means "value absent", which is distinct
// from zero — Add merges null-tolerantly instead of substituting zeros.
type NutritionBreakdown struct {
	QuantityG float64  `json:"quantity_g"`
	PheMg     *float64 `json:"phe_mg,omitempty"`
	ProteinG  *float64 `json:"protein_g,omitempty"`
	Kcal      *float64 `json:"kcal,omitempty"`
	FatG      *float64 `json:"fat_g,omitempty"`
}

// Float64Ptr is a tiny helper for building breakdowns by hand.
func Float64Ptr(v float64) *float64 { return &v }

// ZeroBreakdown has all values present and equal to zero.
func ZeroBreakdown() NutritionBreakdown {
	z := 0.0
	return NutritionBreakdown{PheMg: &z, ProteinG: &z, Kcal: &z, FatG: &z}
}

func (n NutritionBreakdown) PheValue() float64     { return deref(n.PheMg) }
func (n NutritionBreakdown) ProteinValue() float64 { return deref(n.ProteinG) }
func (n NutritionBreakdown) KcalValue() float64    { return deref(n.Kcal) }
func (n NutritionBreakdown) FatValue() float64     { return deref(n.FatG) }

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// Round2 rounds to 2 decimal places, the storage precision of all mass-based
// nutrient fields.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// RoundKcal rounds energy to a whole kcal, half up.
func RoundKcal(f float64) float64 {
	return math.Floor(f + 0.5)
}

// Scale converts a per-100g profile into nutrient values at quantityG grams.
// Scaling is total: a missing profile or non-positive quantity yields an
// all-zero breakdown, never an error, so a gap in catalog data cannot block
// planning.
func Scale(p *models.NutrientProfile, quantityG float64) NutritionBreakdown {
	if p == nil || quantityG <= 0 {
		return ZeroBreakdown()
	}
	out := NutritionBreakdown{QuantityG: quantityG}
	out.PheMg = Float64Ptr(Round2(p.PhePer100Mg * quantityG / 100))
	out.ProteinG = Float64Ptr(Round2(p.ProteinPer100G * quantityG / 100))
	out.Kcal = Float64Ptr(RoundKcal(p.KcalPer100 * quantityG / 100))
	out.FatG = Float64Ptr(Round2(p.FatPer100G * quantityG / 100))
	return out
}

// Add combines two breakdowns. Each field independently falls back to the
// non-nil operand when one side is absent; both absent stays absent. With
// this merge, summing any number of breakdowns is order-independent.
func Add(a, b NutritionBreakdown) NutritionBreakdown {
	return NutritionBreakdown{
		QuantityG: a.QuantityG + b.QuantityG,
		PheMg:     addField(a.PheMg, b.PheMg),
		ProteinG:  addField(a.ProteinG, b.ProteinG),
		Kcal:      addField(a.Kcal, b.Kcal),
		FatG:      addField(a.FatG, b.FatG),
	}
}

func addField(a, b *float64) *float64 {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		v := *b
		return &v
	case b == nil:
		v := *a
		return &v
	default:
		v := *a + *b
		return &v
	}
}
