package controllers

import (
	"net/http"

	"github.com/ChubiniShato/pku-diet-app-sub001/services"

	"github.com/gin-gonic/gin"
)

type RecommendationController struct {
	Rec   *services.RecService
	Menu  *services.MenuService
	Norms *services.NormsService
}

func NewRecommendationController(r *services.RecService, m *services.MenuService, n *services.NormsService) *RecommendationController {
	return &RecommendationController{Rec: r, Menu: m, Norms: n}
}

// GET /recommendations
func (rc *RecommendationController) Get(c *gin.Context) {
	uid := c.GetUint("userID")

	recs, err := rc.Rec.GetRecs(uid, rc.Menu, rc.Norms)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}
