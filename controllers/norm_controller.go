package controllers

import (
	"net/http"

	"github.com/ChubiniShato/pku-diet-app-sub001/services"

	"github.com/gin-gonic/gin"
)

type NormController struct {
	Norms *services.NormsService
}

func NewNormController(n *services.NormsService) *NormController {
	return &NormController{Norms: n}
}

// POST /norms
func (nc *NormController) Set(c *gin.Context) {
	uid := c.GetUint("userID")

	var input services.PrescriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	norm, err := nc.Norms.SetPrescription(uid, input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, norm)
}

// GET /norms/active
func (nc *NormController) Active(c *gin.Context) {
	uid := c.GetUint("userID")

	norm, err := nc.Norms.ActiveFor(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if norm == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active prescription"})
		return
	}
	c.JSON(http.StatusOK, norm)
}

// GET /norms/history
func (nc *NormController) History(c *gin.Context) {
	uid := c.GetUint("userID")

	norms, err := nc.Norms.History(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prescriptions": norms})
}
