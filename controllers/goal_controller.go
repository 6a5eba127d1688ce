package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NygerianPrynce/kalTrackV2/models"
	"github.com/NygerianPrynce/kalTrackV2/services"
)

type GoalController struct {
	Goals *services.GoalService
}

func NewGoalController(goals *services.GoalService) *GoalController {
	return &GoalController{Goals: goals}
}

func (h *GoalController) GetGoals(c *gin.Context) {
	c.JSON(http.StatusOK, h.Goals.Get())
}

func (h *GoalController) SetGoals(c *gin.Context) {
	var body models.NutritionGoals
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid goals body"})
		return
	}
	h.Goals.Set(body)
	c.JSON(http.StatusOK, gin.H{"ok": true, "goals": body})
}
