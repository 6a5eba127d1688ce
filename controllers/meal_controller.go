package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NygerianPrynce/kalTrackV2/models"
	"github.com/NygerianPrynce/kalTrackV2/services"
)

type MealController struct {
	Meals  *services.MealService
	Parser *services.ParserService
	Log    *zap.Logger
}

func NewMealController(meals *services.MealService, parser *services.ParserService, log *zap.Logger) *MealController {
	return &MealController{Meals: meals, Parser: parser, Log: log}
}

type logMealRequest struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	MealType  string `json:"meal_type"`
}

// LogMeal parses a free-text meal description with the AI collaborator,
// persists the normalized record and reads back a speech line.
func (h *MealController) LogMeal(c *gin.Context) {
	var body logMealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid 'text' field"})
		return
	}

	text := strings.TrimSpace(body.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid 'text' field"})
		return
	}

	mealTime := time.Now()
	if body.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, body.Timestamp)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timestamp format"})
			return
		}
		mealTime = parsed
	}

	parsed, err := h.Parser.ParseMeal(c.Request.Context(), text)
	if err != nil {
		h.Log.Error("meal parse failed", zap.Error(err))
		respondError(c, err)
		return
	}

	log := models.MealLog{
		MealTime:    mealTime,
		RawText:     text,
		Totals:      parsed.Totals,
		Items:       parsed.Items,
		Confidence:  parsed.Confidence,
		Assumptions: parsed.Assumptions,
	}
	if body.MealType != "" {
		log.MealType = &body.MealType
	}

	if err := h.Meals.Insert(c.Request.Context(), &log); err != nil {
		h.Log.Error("meal insert failed", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"id":          log.ID,
		"meal_time":   log.MealTime,
		"totals":      log.Totals,
		"confidence":  log.Confidence,
		"assumptions": log.Assumptions,
		"speech":      services.GenerateSpeech(log.Totals, log.Confidence),
	})
}

type updateMealRequest struct {
	ID     string              `json:"id"`
	Totals *models.TotalsPatch `json:"totals"`
}

// UpdateMeal merges a partial totals patch into an existing log.
func (h *MealController) UpdateMeal(c *gin.Context) {
	var body updateMealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid 'id' field"})
		return
	}
	if body.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid 'id' field"})
		return
	}
	if body.Totals == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid 'totals' field"})
		return
	}

	updated, err := h.Meals.UpdateTotals(c.Request.Context(), body.ID, *body.Totals)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": updated})
}

type deleteMealRequest struct {
	ID string `json:"id"`
}

// DeleteMeal removes a log by id.
func (h *MealController) DeleteMeal(c *gin.Context) {
	var body deleteMealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid 'id' field"})
		return
	}
	if body.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid 'id' field"})
		return
	}

	if err := h.Meals.Delete(c.Request.Context(), body.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": body.ID})
}
