package models

// NutrientProfile holds the nutrient content of a food per 100g.
// PHE is tracked in milligrams; protein/fat in grams; energy in kcal.
// It is embedded by every catalog entity and never mutated after load.
type NutrientProfile struct {
	PhePer100Mg    float64 `gorm:"column:phe_per_100_mg" json:"phe_per_100_mg"`
	ProteinPer100G float64 `gorm:"column:protein_per_100_g" json:"protein_per_100_g"`
	KcalPer100     float64 `gorm:"column:kcal_per_100" json:"kcal_per_100"`
	FatPer100G     float64 `gorm:"column:fat_per_100_g" json:"fat_per_100_g"`
}
