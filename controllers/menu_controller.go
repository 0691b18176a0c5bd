package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ChubiniShato/pku-diet-app-sub001/services"

	"github.com/gin-gonic/gin"
)

type MenuController struct {
	Menu *services.MenuService
}

func NewMenuController(m *services.MenuService) *MenuController {
	return &MenuController{Menu: m}
}

// parseDate accepts YYYY-MM-DD; empty means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

type generateInput struct {
	Date      string `json:"date"`      // YYYY-MM-DD, defaults to today
	Emergency bool   `json:"emergency"` // skip variety rules
}

// POST /menu/generate
func (mc *MenuController) GenerateDay(c *gin.Context) {
	uid := c.GetUint("userID")

	var input generateInput
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := parseDate(input.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
		return
	}

	gd, err := mc.Menu.GenerateDay(uid, date, input.Emergency)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gd)
}

// POST /menu/generate-week
func (mc *MenuController) GenerateWeek(c *gin.Context) {
	uid := c.GetUint("userID")

	var input generateInput
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := parseDate(input.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
		return
	}

	days, err := mc.Menu.GenerateWeek(uid, start, input.Emergency)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

// GET /menu/day/:date
func (mc *MenuController) GetDay(c *gin.Context) {
	uid := c.GetUint("userID")
	date, err := parseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
		return
	}

	day, err := mc.Menu.GetDay(uid, date)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no menu for that day"})
		return
	}
	c.JSON(http.StatusOK, day)
}

// GET /menu?from=YYYY-MM-DD&to=YYYY-MM-DD
func (mc *MenuController) GetRange(c *gin.Context) {
	uid := c.GetUint("userID")
	from, err := parseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}

	days, err := mc.Menu.GetRange(uid, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

// GET /menu/day/:date/validate
func (mc *MenuController) ValidateDay(c *gin.Context) {
	uid := c.GetUint("userID")
	date, err := parseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
		return
	}

	res, err := mc.Menu.ValidateDate(uid, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

type consumeInput struct {
	Grams float64 `json:"grams"` // 0 means "as planned"
}

// POST /menu/entries/:id/consume
func (mc *MenuController) ConsumeEntry(c *gin.Context) {
	uid := c.GetUint("userID")
	entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	var input consumeInput
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := mc.Menu.MarkConsumed(uid, uint(entryID), input.Grams)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entry)
}
