package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/ChubiniShato/pku-diet-app-sub001/models"
)

// CatalogService resolves food references against the locally curated
// catalog. PHE content must be clinician-verified, so there is no external
// food API behind this — the catalog tables are the source of truth.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService { return &CatalogService{db: db} }

// ResolveSource loads the one entity a FoodRef points at. An unrecognized
// entry type or a dangling id is a hard error: a malformed reference must
// never be silently scored as zero nutrition.
func (s *CatalogService) ResolveSource(ref models.FoodRef) (models.NutrientSource, error) {
	switch ref.Type {
	case models.EntryProduct:
		var p models.Product
		if err := s.db.First(&p, ref.ID).Error; err != nil {
			return nil, fmt.Errorf("resolve product %d: %w", ref.ID, err)
		}
		return &p, nil
	case models.EntryCustomProduct:
		var p models.CustomProduct
		if err := s.db.First(&p, ref.ID).Error; err != nil {
			return nil, fmt.Errorf("resolve custom product %d: %w", ref.ID, err)
		}
		return &p, nil
	case models.EntryDish:
		var d models.Dish
		if err := s.db.First(&d, ref.ID).Error; err != nil {
			return nil, fmt.Errorf("resolve dish %d: %w", ref.ID, err)
		}
		return &d, nil
	case models.EntryCustomDish:
		var d models.CustomDish
		if err := s.db.First(&d, ref.ID).Error; err != nil {
			return nil, fmt.Errorf("resolve custom dish %d: %w", ref.ID, err)
		}
		return &d, nil
	default:
		return nil, fmt.Errorf("unrecognized entry type %q", ref.Type)
	}
}

// PoolFor builds the raw candidate pool for a patient: every verified
// catalog product and dish plus the patient's own custom entries.
func (s *CatalogService) PoolFor(userID uint) ([]models.NutrientSource, error) {
	var pool []models.NutrientSource

	var products []models.Product
	if err := s.db.Where("verified = ?", true).Find(&products).Error; err != nil {
		return nil, err
	}
	for i := range products {
		pool = append(pool, &products[i])
	}

	var customProducts []models.CustomProduct
	if err := s.db.Where("user_id = ?", userID).Find(&customProducts).Error; err != nil {
		return nil, err
	}
	for i := range customProducts {
		pool = append(pool, &customProducts[i])
	}

	var dishes []models.Dish
	if err := s.db.Find(&dishes).Error; err != nil {
		return nil, err
	}
	for i := range dishes {
		pool = append(pool, &dishes[i])
	}

	var customDishes []models.CustomDish
	if err := s.db.Where("user_id = ?", userID).Find(&customDishes).Error; err != nil {
		return nil, err
	}
	for i := range customDishes {
		pool = append(pool, &customDishes[i])
	}

	return pool, nil
}

func (s *CatalogService) SearchProducts(query string, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	var products []models.Product
	err := s.db.
		Where("name ILIKE ?", "%"+query+"%").
		Order("name ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (s *CatalogService) ListDishes(limit int) ([]models.Dish, error) {
	if limit <= 0 {
		limit = 50
	}
	var dishes []models.Dish
	err := s.db.Order("name ASC").Limit(limit).Find(&dishes).Error
	return dishes, err
}

func (s *CatalogService) CreateProduct(p *models.Product) error {
	if p.Name == "" {
		return fmt.Errorf("product name required")
	}
	return s.db.Create(p).Error
}

func (s *CatalogService) CreateCustomProduct(userID uint, p *models.CustomProduct) error {
	if p.Name == "" {
		return fmt.Errorf("product name required")
	}
	p.UserID = userID
	return s.db.Create(p).Error
}

func (s *CatalogService) CreateDish(d *models.Dish) error {
	if d.Name == "" {
		return fmt.Errorf("dish name required")
	}
	return s.db.Create(d).Error
}

func (s *CatalogService) CreateCustomDish(userID uint, d *models.CustomDish) error {
	if d.Name == "" {
		return fmt.Errorf("dish name required")
	}
	d.UserID = userID
	return s.db.Create(d).Error
}

// SeedDemoCatalog inserts a small low-protein starter catalog for dev
// environments. Idempotent on product name.
func (s *CatalogService) SeedDemoCatalog() error {
	demo := []models.Product{
		{Name: "Low-protein bread", Category: "bakery", NutrientProfile: models.NutrientProfile{PhePer100Mg: 25, ProteinPer100G: 0.5, KcalPer100: 245, FatPer100G: 4.1}, DefaultServingG: 60, Verified: true},
		{Name: "Apple", Category: "fruit", NutrientProfile: models.NutrientProfile{PhePer100Mg: 6, ProteinPer100G: 0.3, KcalPer100: 52, FatPer100G: 0.2}, DefaultServingG: 150, Verified: true},
		{Name: "Rice (white, cooked)", Category: "grain", NutrientProfile: models.NutrientProfile{PhePer100Mg: 145, ProteinPer100G: 2.7, KcalPer100: 130, FatPer100G: 0.3}, DefaultServingG: 120, Verified: true},
		{Name: "Carrot", Category: "vegetable", NutrientProfile: models.NutrientProfile{PhePer100Mg: 31, ProteinPer100G: 0.9, KcalPer100: 41, FatPer100G: 0.2}, DefaultServingG: 80, Verified: true},
		{Name: "PKU formula drink", Category: "formula", NutrientProfile: models.NutrientProfile{PhePer100Mg: 0, ProteinPer100G: 0, KcalPer100: 68, FatPer100G: 1.9}, DefaultServingG: 250, Verified: true},
		{Name: "Potato (boiled)", Category: "vegetable", NutrientProfile: models.NutrientProfile{PhePer100Mg: 83, ProteinPer100G: 1.9, KcalPer100: 87, FatPer100G: 0.1}, DefaultServingG: 150, Verified: true},
	}
	for i := range demo {
		var existing models.Product
		err := s.db.Where("name = ?", demo[i].Name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := s.db.Create(&demo[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
