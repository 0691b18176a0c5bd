package controllers

import (
	"net/http"
	"strconv"

	"github.com/ChubiniShato/pku-diet-app-sub001/config"
	"github.com/ChubiniShato/pku-diet-app-sub001/models"

	"github.com/gin-gonic/gin"
)

// GET /alerts?limit=N
func ListAlerts(c *gin.Context) {
	uid := c.GetUint("userID")

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	var alerts []models.Alert
	if err := config.DB.
		Where("user_id = ?", uid).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
