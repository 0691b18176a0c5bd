package services

import (
	"github.com/ChubiniShato/pku-diet-app-sub001/models"
	"github.com/ChubiniShato/pku-diet-app-sub001/utils"
)

// FoodCandidate is a transient scoring unit: one catalog item considered for
// one meal slot. It lives for a single scoring call; the penalty components
// are written back by Score so callers can audit why an item won or lost.
type FoodCandidate struct {
	Source models.NutrientSource `json:"-"`
	Ref    models.FoodRef        `json:"ref"`
	Name   string                `json:"name"`

	ServingGrams float64                  `json:"serving_grams"`
	Nutrition    utils.NutritionBreakdown `json:"nutrition"`

	CostEstimate    float64 `json:"cost_estimate"`
	PantryAvailable bool    `json:"pantry_available"` // sufficient stock for ServingGrams
	PantryGrams     float64 `json:"pantry_grams"`

	// Penalty components, populated by Score.
	PhePenalty     float64 `json:"phe_penalty"`
	ProteinPenalty float64 `json:"protein_penalty"`
	KcalPenalty    float64 `json:"kcal_penalty"`
	CostPenalty    float64 `json:"cost_penalty"`
	RepeatPenalty  float64 `json:"repeat_penalty"`

	Score float64 `json:"score"`
}

// NewFoodCandidate resolves the nutrient profile exactly once; everything
// downstream reads Nutrition and never rescales.
func NewFoodCandidate(src models.NutrientSource, servingGrams float64) *FoodCandidate {
	prof := src.Profile()
	return &FoodCandidate{
		Source:       src,
		Ref:          src.Ref(),
		Name:         src.DisplayName(),
		ServingGrams: servingGrams,
		Nutrition:    utils.Scale(&prof, servingGrams),
	}
}

// ScoringPolicy is the tunable part of candidate scoring. ExcessPenalty is
// the super-linear curve applied to threshold-exceeding PHE/protein loads;
// swap it to retune how hard single-meal spikes are punished.
type ScoringPolicy struct {
	OverThresholdPercent float64 // slot-share % above which over-penalties start
	ExcessPenalty        func(excessPct float64) float64
	KcalDeficitWeight    float64
	CostWeight           float64
	ReferenceCostCeiling float64 // cost-per-serving treated as "expensive"
	RepeatPenaltyWeight  float64
	PantryBonus          float64
	SlotsPerDay          int
}

// QuadraticExcess grows with the square of the excess percentage points, so
// a candidate at twice the threshold is punished far more than one barely
// over it.
func QuadraticExcess(excessPct float64) float64 {
	if excessPct <= 0 {
		return 0
	}
	return excessPct * excessPct / 10
}

func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		OverThresholdPercent: 25,
		ExcessPenalty:        QuadraticExcess,
		KcalDeficitWeight:    20,
		CostWeight:           10,
		ReferenceCostCeiling: 5.0,
		RepeatPenaltyWeight:  30,
		PantryBonus:          15,
		SlotsPerDay:          len(models.SlotOrder),
	}
}

// slotShareWeights skews each slot's fair share of the daily limits: main
// meals carry more of the day than snacks. Weights sum to SlotsPerDay for
// the default six slots, so a uniform split is the average case.
var slotShareWeights = map[string]float64{
	models.SlotBreakfast:      1.2,
	models.SlotMorningSnack:   0.6,
	models.SlotLunch:          1.5,
	models.SlotAfternoonSnack: 0.6,
	models.SlotDinner:         1.5,
	models.SlotEveningSnack:   0.6,
}

type ScoringService struct {
	policy ScoringPolicy
}

func NewScoringService(policy ScoringPolicy) *ScoringService {
	if policy.ExcessPenalty == nil {
		policy.ExcessPenalty = QuadraticExcess
	}
	if policy.SlotsPerDay <= 0 {
		policy.SlotsPerDay = len(models.SlotOrder)
	}
	return &ScoringService{policy: policy}
}

func (s *ScoringService) Policy() ScoringPolicy { return s.policy }

// slotShare is the portion of a daily limit budgeted to one slot.
func (s *ScoringService) slotShare(dailyLimit float64, slotName string) float64 {
	w, ok := slotShareWeights[slotName]
	if !ok {
		w = 1
	}
	return dailyLimit * w / float64(s.policy.SlotsPerDay)
}

// Score computes the composite candidate score, lower is better. The five
// penalty components are stored back on the candidate. overThresholdPercent
// <= 0 falls back to the policy default.
//
// Terms: PHE-over and protein-over (super-linear past the threshold), kcal
// deficit against the slot's pace target, cost as a fraction of the
// reference ceiling, repeat use, minus a pantry bonus. The result never goes
// below zero, so the bonus can only close the gap to a non-pantry twin.
func (s *ScoringService) Score(
	c *FoodCandidate,
	slotName string,
	norm *models.NormPrescription,
	overThresholdPercent float64,
	recentUseCount int,
) float64 {
	threshold := overThresholdPercent
	if threshold <= 0 {
		threshold = s.policy.OverThresholdPercent
	}

	c.PhePenalty = 0
	c.ProteinPenalty = 0
	c.KcalPenalty = 0
	c.CostPenalty = 0
	c.RepeatPenalty = 0

	if norm != nil {
		// 1) PHE over slot share
		if share := s.slotShare(norm.PheLimitMgPerDay, slotName); share > 0 {
			pct := c.Nutrition.PheValue() / share * 100
			if pct > threshold {
				c.PhePenalty = utils.Round2(s.policy.ExcessPenalty(pct - threshold))
			}
		}

		// 2) protein over slot share, only when a limit is prescribed
		if norm.ProteinLimitGPerDay != nil && *norm.ProteinLimitGPerDay > 0 {
			share := s.slotShare(*norm.ProteinLimitGPerDay, slotName)
			pct := c.Nutrition.ProteinValue() / share * 100
			if pct > threshold {
				c.ProteinPenalty = utils.Round2(s.policy.ExcessPenalty(pct - threshold))
			}
		}

		// 3) kcal deficit against the slot's pace toward the daily minimum
		if norm.KcalMinPerDay != nil && *norm.KcalMinPerDay > 0 {
			pace := s.slotShare(*norm.KcalMinPerDay, slotName)
			if kcal := c.Nutrition.KcalValue(); kcal < pace {
				c.KcalPenalty = utils.Round2((pace - kcal) / pace * s.policy.KcalDeficitWeight)
			}
		}
	}

	// 4) cost, a tiebreaker: absent cost means no penalty
	if c.CostEstimate > 0 && s.policy.ReferenceCostCeiling > 0 {
		c.CostPenalty = utils.Round2(c.CostEstimate / s.policy.ReferenceCostCeiling * s.policy.CostWeight)
	}

	// 5) repeat use inside the variety window
	if recentUseCount > 0 {
		c.RepeatPenalty = utils.Round2(s.policy.RepeatPenaltyWeight * float64(recentUseCount))
	}

	score := c.PhePenalty + c.ProteinPenalty + c.KcalPenalty + c.CostPenalty + c.RepeatPenalty

	// 6) pantry preference
	if c.PantryAvailable {
		score -= s.policy.PantryBonus
	}
	if score < 0 {
		score = 0
	}

	c.Score = utils.Round2(score)
	return c.Score
}
