package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ChubiniShato/pku-diet-app-sub001/models"
	"github.com/ChubiniShato/pku-diet-app-sub001/services"

	"github.com/gin-gonic/gin"
)

type PantryController struct {
	Pantry *services.PantryService
}

func NewPantryController(p *services.PantryService) *PantryController {
	return &PantryController{Pantry: p}
}

// GET /pantry
func (pc *PantryController) List(c *gin.Context) {
	uid := c.GetUint("userID")
	items, err := pc.Pantry.ListItems(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type pantryItemInput struct {
	ItemType      string  `json:"item_type" binding:"required"`
	ItemID        uint    `json:"item_id" binding:"required"`
	QuantityGrams float64 `json:"quantity_grams" binding:"required"`
	ExpiryDate    string  `json:"expiry_date"` // YYYY-MM-DD
	Location      string  `json:"location"`
	CostPerGram   float64 `json:"cost_per_gram"`
}

// POST /pantry
func (pc *PantryController) Add(c *gin.Context) {
	uid := c.GetUint("userID")

	var input pantryItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := models.PantryItem{
		ItemType:      models.EntryType(input.ItemType),
		ItemID:        input.ItemID,
		QuantityGrams: input.QuantityGrams,
		Location:      input.Location,
		CostPerGram:   input.CostPerGram,
	}
	if input.ExpiryDate != "" {
		exp, err := time.ParseInLocation("2006-01-02", input.ExpiryDate, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiry_date, want YYYY-MM-DD"})
			return
		}
		item.ExpiryDate = exp
	}

	if err := pc.Pantry.AddItem(uid, &item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, item)
}

type pantryUpdateInput struct {
	QuantityGrams float64 `json:"quantity_grams"`
	ExpiryDate    string  `json:"expiry_date"`
	Location      string  `json:"location"`
}

// PATCH /pantry/:id
func (pc *PantryController) Update(c *gin.Context) {
	uid := c.GetUint("userID")
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	var input pantryUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var expiry *time.Time
	if input.ExpiryDate != "" {
		exp, err := time.ParseInLocation("2006-01-02", input.ExpiryDate, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiry_date, want YYYY-MM-DD"})
			return
		}
		expiry = &exp
	}

	item, err := pc.Pantry.UpdateItem(uid, uint(id), input.QuantityGrams, expiry, input.Location)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "pantry item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// DELETE /pantry/:id
func (pc *PantryController) Remove(c *gin.Context) {
	uid := c.GetUint("userID")
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	if err := pc.Pantry.RemoveItem(uid, uint(id)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "pantry item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item removed"})
}

// GET /pantry/expiring?days=N
func (pc *PantryController) ExpiringSoon(c *gin.Context) {
	uid := c.GetUint("userID")
	days := 3
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}

	items, err := pc.Pantry.ExpiringSoonItems(uid, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "within_days": days})
}

// GET /pantry/expired
func (pc *PantryController) Expired(c *gin.Context) {
	uid := c.GetUint("userID")
	items, err := pc.Pantry.ExpiredItems(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type priceInput struct {
	ItemType     string  `json:"item_type" binding:"required"`
	ItemID       uint    `json:"item_id" binding:"required"`
	StoreName    string  `json:"store_name"`
	Region       string  `json:"region"`
	PricePerUnit float64 `json:"price_per_unit" binding:"required"`
	UnitGrams    float64 `json:"unit_grams" binding:"required"`
}

// POST /pantry/prices
func (pc *PantryController) RecordPrice(c *gin.Context) {
	var input priceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := models.PriceEntry{
		ItemType:     models.EntryType(input.ItemType),
		ItemID:       input.ItemID,
		StoreName:    input.StoreName,
		Region:       input.Region,
		PricePerUnit: input.PricePerUnit,
		UnitGrams:    input.UnitGrams,
	}
	if err := pc.Pantry.RecordPrice(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, entry)
}
