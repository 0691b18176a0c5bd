package controllers

import (
	"net/http"

	"github.com/ChubiniShato/pku-diet-app-sub001/services"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	Report *services.ReportService
	Norms  *services.NormsService
}

func NewReportController(r *services.ReportService, n *services.NormsService) *ReportController {
	return &ReportController{Report: r, Norms: n}
}

// POST /reports/weekly?to=YYYY-MM-DD (defaults to today)
func (rc *ReportController) Weekly(c *gin.Context) {
	uid := c.GetUint("userID")

	to, err := parseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}

	norm, err := rc.Norms.ActiveFor(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	url, err := rc.Report.GenerateWeekly(c.Request.Context(), uid, to, norm)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
