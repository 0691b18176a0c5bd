package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChubiniShato/pku-diet-app-sub001/models"
	"github.com/ChubiniShato/pku-diet-app-sub001/utils"
)

func testNorm(pheLimit float64) *models.NormPrescription {
	return &models.NormPrescription{PheLimitMgPerDay: pheLimit}
}

func candidateWithPhe(name string, pheMg float64) *FoodCandidate {
	return &FoodCandidate{
		Ref:          models.FoodRef{Type: models.EntryProduct, ID: 1},
		Name:         name,
		ServingGrams: 100,
		Nutrition:    utils.NutritionBreakdown{QuantityG: 100, PheMg: utils.Float64Ptr(pheMg)},
	}
}

func TestScoreHigherPheScoresWorse(t *testing.T) {
	s := NewScoringService(DefaultScoringPolicy())
	norm := testNorm(300) // lunch share = 300*1.5/6 = 75 mg

	low := candidateWithPhe("low", 15)    // 20% of share, under threshold
	high := candidateWithPhe("high", 150) // 200% of share

	s.Score(low, models.SlotLunch, norm, 0, 0)
	s.Score(high, models.SlotLunch, norm, 0, 0)

	assert.Equal(t, 0.0, low.PhePenalty)
	assert.Greater(t, high.PhePenalty, 0.0)
	assert.Greater(t, high.Score, low.Score)
}

func TestScoreExcessIsSuperLinear(t *testing.T) {
	s := NewScoringService(DefaultScoringPolicy())
	norm := testNorm(300)

	over := candidateWithPhe("over", 75)      // 100% of share, 75 pts over threshold
	wayOver := candidateWithPhe("2x", 150)    // 200% of share, 175 pts over

	s.Score(over, models.SlotLunch, norm, 0, 0)
	s.Score(wayOver, models.SlotLunch, norm, 0, 0)

	// twice the load costs far more than twice the penalty
	require.Greater(t, over.PhePenalty, 0.0)
	assert.Greater(t, wayOver.PhePenalty, 2*over.PhePenalty)
}

func TestScorePantryBonus(t *testing.T) {
	s := NewScoringService(DefaultScoringPolicy())
	norm := testNorm(300)

	shopped := candidateWithPhe("rice", 150)
	stocked := candidateWithPhe("rice", 150)
	stocked.PantryAvailable = true

	s.Score(shopped, models.SlotLunch, norm, 0, 0)
	s.Score(stocked, models.SlotLunch, norm, 0, 0)

	assert.Less(t, stocked.Score, shopped.Score)
}

func TestScoreNeverNegative(t *testing.T) {
	s := NewScoringService(DefaultScoringPolicy())

	c := candidateWithPhe("formula", 0)
	c.PantryAvailable = true // bonus alone would push below zero

	got := s.Score(c, models.SlotBreakfast, testNorm(300), 0, 0)
	assert.Equal(t, 0.0, got)
}

func TestScoreRepeatPenalty(t *testing.T) {
	s := NewScoringService(DefaultScoringPolicy())
	norm := testNorm(300)

	fresh := candidateWithPhe("apple", 10)
	repeated := candidateWithPhe("apple", 10)

	s.Score(fresh, models.SlotLunch, norm, 0, 0)
	s.Score(repeated, models.SlotLunch, norm, 0, 1)

	assert.Greater(t, repeated.Score, fresh.Score)
	assert.Equal(t, s.Policy().RepeatPenaltyWeight, repeated.RepeatPenalty)
}

func TestScoreProteinOverShare(t *testing.T) {
	protLimit := 12.0 // lunch share = 12*1.5/6 = 3 g
	norm := &models.NormPrescription{PheLimitMgPerDay: 300, ProteinLimitGPerDay: &protLimit}
	s := NewScoringService(DefaultScoringPolicy())

	c := candidateWithPhe("cheese", 10)
	c.Nutrition.ProteinG = utils.Float64Ptr(6) // 200% of the slot share

	s.Score(c, models.SlotLunch, norm, 0, 0)
	assert.Equal(t, 3062.5, c.ProteinPenalty) // quadratic: (200-25)²/10
	assert.Greater(t, c.Score, 0.0)

	// under the threshold the term stays silent
	under := candidateWithPhe("bread", 10)
	under.Nutrition.ProteinG = utils.Float64Ptr(0.5)
	s.Score(under, models.SlotLunch, norm, 0, 0)
	assert.Equal(t, 0.0, under.ProteinPenalty)
}

func TestScoreKcalDeficit(t *testing.T) {
	policy := DefaultScoringPolicy()
	s := NewScoringService(policy)
	min := 1800.0
	norm := &models.NormPrescription{PheLimitMgPerDay: 300, KcalMinPerDay: &min}
	// lunch pace = 1800*1.5/6 = 450 kcal

	c := candidateWithPhe("salad", 10)
	c.Nutrition.Kcal = utils.Float64Ptr(225)

	s.Score(c, models.SlotLunch, norm, 0, 0)
	assert.Equal(t, 10.0, c.KcalPenalty) // half the pace missing, half the weight
}

func TestScoreCostPenaltyProportional(t *testing.T) {
	s := NewScoringService(DefaultScoringPolicy())

	cheap := candidateWithPhe("potato", 10)
	cheap.CostEstimate = 0.5
	pricey := candidateWithPhe("import", 10)
	pricey.CostEstimate = 5.0

	s.Score(cheap, models.SlotLunch, testNorm(300), 0, 0)
	s.Score(pricey, models.SlotLunch, testNorm(300), 0, 0)

	assert.Greater(t, pricey.CostPenalty, cheap.CostPenalty)
	assert.Equal(t, s.Policy().CostWeight, pricey.CostPenalty) // at the ceiling
}

func TestScoreNoNormOnlyCostAndRepeat(t *testing.T) {
	s := NewScoringService(DefaultScoringPolicy())

	c := candidateWithPhe("anything", 500)
	s.Score(c, models.SlotLunch, nil, 0, 0)

	assert.Equal(t, 0.0, c.PhePenalty)
	assert.Equal(t, 0.0, c.ProteinPenalty)
	assert.Equal(t, 0.0, c.KcalPenalty)
	assert.Equal(t, 0.0, c.Score)
}

func TestSlotShareWeighting(t *testing.T) {
	s := NewScoringService(DefaultScoringPolicy())

	lunch := s.slotShare(300, models.SlotLunch)
	snack := s.slotShare(300, models.SlotMorningSnack)

	assert.Equal(t, 75.0, lunch)
	assert.Equal(t, 30.0, snack)
	assert.Greater(t, lunch, snack)
}

func TestNewFoodCandidateResolvesOnce(t *testing.T) {
	p := &models.Product{
		Name:            "Apple",
		NutrientProfile: models.NutrientProfile{PhePer100Mg: 6, KcalPer100: 52},
	}
	p.ID = 7

	c := NewFoodCandidate(p, 150)
	assert.Equal(t, "Apple", c.Name)
	assert.Equal(t, models.FoodRef{Type: models.EntryProduct, ID: 7}, c.Ref)
	assert.Equal(t, 9.0, c.Nutrition.PheValue())
	assert.Equal(t, 78.0, c.Nutrition.KcalValue())
}
