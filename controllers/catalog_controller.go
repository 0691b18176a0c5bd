package controllers

import (
	"net/http"
	"strconv"

	"github.com/ChubiniShato/pku-diet-app-sub001/models"
	"github.com/ChubiniShato/pku-diet-app-sub001/services"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	Catalog *services.CatalogService
}

func NewCatalogController(cs *services.CatalogService) *CatalogController {
	return &CatalogController{Catalog: cs}
}

// GET /catalog/products?q=...&limit=N
func (cc *CatalogController) SearchProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	products, err := cc.Catalog.SearchProducts(c.Query("q"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GET /catalog/dishes
func (cc *CatalogController) ListDishes(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	dishes, err := cc.Catalog.ListDishes(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dishes": dishes})
}

type customProductInput struct {
	Name            string  `json:"name" binding:"required"`
	Category        string  `json:"category"`
	PhePer100Mg     float64 `json:"phe_per_100_mg"`
	ProteinPer100G  float64 `json:"protein_per_100_g"`
	KcalPer100      float64 `json:"kcal_per_100"`
	FatPer100G      float64 `json:"fat_per_100_g"`
	DefaultServingG float64 `json:"default_serving_g"`
}

// POST /catalog/custom-products
func (cc *CatalogController) CreateCustomProduct(c *gin.Context) {
	uid := c.GetUint("userID")

	var input customProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := models.CustomProduct{
		Name:     input.Name,
		Category: input.Category,
		NutrientProfile: models.NutrientProfile{
			PhePer100Mg:    input.PhePer100Mg,
			ProteinPer100G: input.ProteinPer100G,
			KcalPer100:     input.KcalPer100,
			FatPer100G:     input.FatPer100G,
		},
		DefaultServingG: input.DefaultServingG,
	}
	if err := cc.Catalog.CreateCustomProduct(uid, &p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

type customDishInput struct {
	Name            string  `json:"name" binding:"required"`
	PhePer100Mg     float64 `json:"phe_per_100_mg"`
	ProteinPer100G  float64 `json:"protein_per_100_g"`
	KcalPer100      float64 `json:"kcal_per_100"`
	FatPer100G      float64 `json:"fat_per_100_g"`
	DefaultServingG float64 `json:"default_serving_g"`
}

// POST /catalog/custom-dishes
func (cc *CatalogController) CreateCustomDish(c *gin.Context) {
	uid := c.GetUint("userID")

	var input customDishInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d := models.CustomDish{
		Name: input.Name,
		NutrientProfile: models.NutrientProfile{
			PhePer100Mg:    input.PhePer100Mg,
			ProteinPer100G: input.ProteinPer100G,
			KcalPer100:     input.KcalPer100,
			FatPer100G:     input.FatPer100G,
		},
		DefaultServingG: input.DefaultServingG,
	}
	if err := cc.Catalog.CreateCustomDish(uid, &d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, d)
}
