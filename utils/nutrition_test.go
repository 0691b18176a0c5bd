package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChubiniShato/pku-diet-app-sub001/models"
)

func TestScaleLinear(t *testing.T) {
	p := &models.NutrientProfile{
		PhePer100Mg:    100,
		ProteinPer100G: 2,
		KcalPer100:     52,
		FatPer100G:     0.4,
	}

	b := Scale(p, 50)
	assert.Equal(t, 50.0, b.QuantityG)
	assert.Equal(t, 50.0, b.PheValue())
	assert.Equal(t, 1.0, b.ProteinValue())
	assert.Equal(t, 26.0, b.KcalValue())
	assert.Equal(t, 0.2, b.FatValue())
}

func TestScaleZeroTolerant(t *testing.T) {
	p := &models.NutrientProfile{PhePer100Mg: 100}

	for name, b := range map[string]NutritionBreakdown{
		"nil profile":   Scale(nil, 100),
		"zero quantity": Scale(p, 0),
		"negative":      Scale(p, -5),
	} {
		assert.Equal(t, 0.0, b.PheValue(), name)
		assert.Equal(t, 0.0, b.KcalValue(), name)
		require.NotNil(t, b.PheMg, name) // absent input still yields explicit zeros
	}
}

func TestScaleRounding(t *testing.T) {
	p := &models.NutrientProfile{PhePer100Mg: 33.333, KcalPer100: 51.7}

	b := Scale(p, 100)
	assert.Equal(t, 33.33, b.PheValue())
	// energy rounds half-up to a whole kcal
	assert.Equal(t, 52.0, b.KcalValue())
}

func TestAddMergesNulls(t *testing.T) {
	a := NutritionBreakdown{QuantityG: 100, PheMg: Float64Ptr(120)}
	b := NutritionBreakdown{QuantityG: 50, PheMg: Float64Ptr(30), Kcal: Float64Ptr(200)}

	sum := Add(a, b)
	assert.Equal(t, 150.0, sum.QuantityG)
	assert.Equal(t, 150.0, sum.PheValue())

	// one-sided value survives, it is not zeroed out
	require.NotNil(t, sum.Kcal)
	assert.Equal(t, 200.0, *sum.Kcal)

	// both sides absent stays absent
	assert.Nil(t, sum.ProteinG)
	assert.Nil(t, sum.FatG)
}

func TestScaleAdditivity(t *testing.T) {
	p := &models.NutrientProfile{
		PhePer100Mg:    33.333,
		ProteinPer100G: 1.7,
		KcalPer100:     51.7,
		FatPer100G:     0.9,
	}

	// scaling a whole quantity equals scaling two halves and summing them,
	// within rounding tolerance
	whole := Scale(p, 150)
	halves := Add(Scale(p, 75), Scale(p, 75))

	assert.Equal(t, whole.QuantityG, halves.QuantityG)
	assert.InDelta(t, whole.PheValue(), halves.PheValue(), 0.02)
	assert.InDelta(t, whole.ProteinValue(), halves.ProteinValue(), 0.02)
	assert.InDelta(t, whole.FatValue(), halves.FatValue(), 0.02)
	assert.InDelta(t, whole.KcalValue(), halves.KcalValue(), 1.0)
}

func TestAddOrderIndependent(t *testing.T) {
	a := NutritionBreakdown{PheMg: Float64Ptr(10)}
	b := NutritionBreakdown{PheMg: Float64Ptr(20), Kcal: Float64Ptr(5)}
	c := NutritionBreakdown{Kcal: Float64Ptr(7)}

	x := Add(Add(a, b), c)
	y := Add(a, Add(b, c))
	assert.Equal(t, x.PheValue(), y.PheValue())
	assert.Equal(t, x.KcalValue(), y.KcalValue())
}

func TestRoundKcal(t *testing.T) {
	assert.Equal(t, 52.0, RoundKcal(51.5))
	assert.Equal(t, 51.0, RoundKcal(51.49))
	assert.Equal(t, 0.0, RoundKcal(0.4))
}
