package controllers

import (
	"net/http"
	"time"

	"github.com/ChubiniShato/pku-diet-app-sub001/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Analytics *services.AnalyticsService
	Norms     *services.NormsService
}

func NewAnalyticsController(a *services.AnalyticsService, n *services.NormsService) *AnalyticsController {
	return &AnalyticsController{Analytics: a, Norms: n}
}

// GET /analytics/summary?from=YYYY-MM-DD&to=YYYY-MM-DD (defaults: last 7 days)
func (ac *AnalyticsController) Summary(c *gin.Context) {
	uid := c.GetUint("userID")

	to, err := parseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}
	from := to.AddDate(0, 0, -6)
	if v := c.Query("from"); v != "" {
		from, err = time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
	}

	norm, err := ac.Norms.ActiveFor(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	summary, err := ac.Analytics.Summary(c.Request.Context(), uid, from, to, norm)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
