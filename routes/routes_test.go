package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/NygerianPrynce/kalTrackV2/models"
	"github.com/NygerianPrynce/kalTrackV2/routes"
)

const parsedEggs = `{
  "meal_summary": "Two eggs and toast",
  "items": [
    {"name": "Eggs", "qty": "2 large", "calories": 140, "protein_g": 12.0, "carbs_g": 1.0, "fat_g": 10.0, "fiber_g": 0.0},
    {"name": "Toast", "qty": "1 slice", "calories": 80, "protein_g": 3.0, "carbs_g": 15.0, "fat_g": 1.0, "fiber_g": 2.0}
  ],
  "totals": {"calories": 220, "protein_g": 15.0, "carbs_g": 16.0, "fat_g": 11.0, "fiber_g": 2.0},
  "confidence": 0.9,
  "assumptions": []
}`

type scriptedAI struct {
	responses []string
	calls     int
}

func (s *scriptedAI) Complete(_ context.Context, _, _ string) (string, error) {
	i := s.calls
	s.calls++
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return s.responses[i], nil
}

func newTestServer(t *testing.T, ai *scriptedAI) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.MealLog{}))

	return routes.SetupRouter(db, ai, zap.NewNop()), db
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestLogMealDefaultsTimestampAndSpeaks(t *testing.T) {
	r, db := newTestServer(t, &scriptedAI{responses: []string{parsedEggs}})

	before := time.Now()
	w := doJSON(r, http.MethodPost, "/log-meal", gin.H{"text": "two eggs and toast"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, true, body["ok"])
	assert.NotEmpty(t, body["id"])

	mealTime, err := time.Parse(time.RFC3339, body["meal_time"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, before, mealTime, time.Minute)

	speech := body["speech"].(string)
	assert.Contains(t, speech, "220 calories")
	assert.Contains(t, speech, "15 grams protein")
	assert.Contains(t, speech, "2 grams fiber")

	var count int64
	db.Model(&models.MealLog{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLogMealExplicitTimestamp(t *testing.T) {
	r, _ := newTestServer(t, &scriptedAI{responses: []string{parsedEggs}})

	w := doJSON(r, http.MethodPost, "/log-meal", gin.H{
		"text":      "two eggs and toast",
		"timestamp": "2024-03-01T08:30:00Z",
		"meal_type": "breakfast",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	mealTime, err := time.Parse(time.RFC3339, body["meal_time"].(string))
	require.NoError(t, err)
	assert.True(t, mealTime.Equal(time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)))
}

func TestLogMealValidation(t *testing.T) {
	r, _ := newTestServer(t, &scriptedAI{responses: []string{parsedEggs}})

	w := doJSON(r, http.MethodPost, "/log-meal", gin.H{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing or invalid 'text' field", decode(t, w)["error"])

	w = doJSON(r, http.MethodPost, "/log-meal", gin.H{"text": "eggs", "timestamp": "yesterday"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid timestamp format", decode(t, w)["error"])
}

func TestLogMealAIFailureIs502(t *testing.T) {
	r, _ := newTestServer(t, &scriptedAI{responses: []string{"{broken", "{still broken"}})

	w := doJSON(r, http.MethodPost, "/log-meal", gin.H{"text": "eggs"})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	body := decode(t, w)
	assert.Equal(t, "Failed to parse meal with AI", body["error"])
	assert.NotEmpty(t, body["details"])
}

func TestGetLogsInvalidTimezone(t *testing.T) {
	r, _ := newTestServer(t, &scriptedAI{responses: []string{parsedEggs}})

	w := doJSON(r, http.MethodGet, "/get-logs?tz=Invalid/Zone", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid timezone", decode(t, w)["error"])
}

func TestGetLogsEmpty(t *testing.T) {
	r, _ := newTestServer(t, &scriptedAI{responses: []string{parsedEggs}})

	w := doJSON(r, http.MethodGet, "/get-logs?tz=UTC", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, []interface{}{}, body["logs"])
	today := body["today_totals"].(map[string]interface{})
	assert.Equal(t, 0.0, today["calories"])
	avg := body["last_7_avg"].(map[string]interface{})
	assert.Equal(t, 0.0, avg["calories"])
}

func TestGetLogsExplicitDatesOverrideRange(t *testing.T) {
	r, db := newTestServer(t, &scriptedAI{responses: []string{parsedEggs}})

	old := models.MealLog{
		MealTime:    time.Date(2024, 1, 2, 12, 0, 0, 0, time.Local),
		RawText:     "old meal",
		Totals:      models.MealTotals{Calories: 500, ProteinG: 30},
		Items:       models.MealItems{},
		Assumptions: models.StringList{},
	}
	require.NoError(t, db.Create(&old).Error)

	// the named range alone cannot reach January 2024
	w := doJSON(r, http.MethodGet, "/get-logs?range=7d&tz=UTC", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["logs"], 0)

	// explicit dates win over the token
	w = doJSON(r, http.MethodGet, "/get-logs?range=7d&from=2024-01-01&to=2024-01-03&tz=UTC", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	require.Len(t, body["logs"], 1)
	daily := body["daily_totals"].([]interface{})
	require.Len(t, daily, 1)
	day := daily[0].(map[string]interface{})
	assert.Equal(t, 500.0, day["calories"])
	assert.Equal(t, 30.0, day["protein_g"])
}

func TestGetLogsMalformedDatesFallBackToRange(t *testing.T) {
	r, db := newTestServer(t, &scriptedAI{responses: []string{parsedEggs}})

	recent := models.MealLog{
		MealTime:    time.Now().Add(-time.Hour),
		RawText:     "recent meal",
		Totals:      models.MealTotals{Calories: 300},
		Items:       models.MealItems{},
		Assumptions: models.StringList{},
	}
	require.NoError(t, db.Create(&recent).Error)

	w := doJSON(r, http.MethodGet, "/get-logs?range=7d&from=garbage&to=2024-01-03&tz=UTC", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["logs"], 1)
}

func TestUpdateMealMergesPatch(t *testing.T) {
	r, db := newTestServer(t, &scriptedAI{responses: []string{parsedEggs}})

	log := models.MealLog{
		MealTime:    time.Now(),
		RawText:     "meal",
		Totals:      models.MealTotals{Calories: 500, ProteinG: 30, CarbsG: 50},
		Items:       models.MealItems{},
		Assumptions: models.StringList{},
	}
	require.NoError(t, db.Create(&log).Error)

	w := doJSON(r, http.MethodPut, "/update-meal", gin.H{
		"id":     log.ID,
		"totals": gin.H{"protein_g": 40},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, true, body["ok"])
	totals := body["data"].(map[string]interface{})["totals"].(map[string]interface{})
	assert.Equal(t, 500.0, totals["calories"])
	assert.Equal(t, 40.0, totals["protein_g"])
	assert.Equal(t, 50.0, totals["carbs_g"])
}

func TestUpdateMealValidationAndNotFound(t *testing.T) {
	r, _ := newTestServer(t, &scriptedAI{responses: []string{parsedEggs}})

	w := doJSON(r, http.MethodPost, "/update-meal", gin.H{"totals": gin.H{"protein_g": 40}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/update-meal", gin.H{"id": "abc"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing or invalid 'totals' field", decode(t, w)["error"])

	w = doJSON(r, http.MethodPut, "/update-meal", gin.H{"id": "no-such-id", "totals": gin.H{"calories": 100}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Meal not found", decode(t, w)["error"])
}

func TestDeleteMeal(t *testing.T) {
	r, db := newTestServer(t, &scriptedAI{responses: []string{parsedEggs}})

	log := models.MealLog{
		MealTime:    time.Now(),
		RawText:     "meal",
		Totals:      models.MealTotals{Calories: 500},
		Items:       models.MealItems{},
		Assumptions: models.StringList{},
	}
	require.NoError(t, db.Create(&log).Error)

	w := doJSON(r, http.MethodDelete, "/delete-meal", gin.H{"id": log.ID})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, log.ID, body["id"])

	var count int64
	db.Model(&models.MealLog{}).Count(&count)
	assert.Equal(t, int64(0), count)

	w = doJSON(r, http.MethodPost, "/delete-meal", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreflightIsOpen(t *testing.T) {
	r, _ := newTestServer(t, &scriptedAI{responses: []string{parsedEggs}})

	for _, path := range []string{"/log-meal", "/get-logs", "/update-meal", "/delete-meal"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"), path)
	}
}

func TestHealth(t *testing.T) {
	r, _ := newTestServer(t, &scriptedAI{responses: []string{parsedEggs}})

	w := doJSON(r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["ok"])

	w = doJSON(r, http.MethodPost, "/health", gin.H{"timestamp": "2024-03-01T08:30:00Z"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["isValid"])
	assert.Equal(t, "2024-03-01T08:30:00Z", body["received"])
}

func TestGoalsRoundTrip(t *testing.T) {
	r, _ := newTestServer(t, &scriptedAI{responses: []string{parsedEggs}})

	w := doJSON(r, http.MethodGet, "/goals", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2500.0, decode(t, w)["calories_goal"])

	w = doJSON(r, http.MethodPut, "/goals", gin.H{
		"calories_goal":  2000,
		"protein_goal_g": 160,
		"carbs_goal_g":   220,
		"fat_goal_g":     70,
		"fiber_goal_g":   35,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/goals", nil)
	assert.Equal(t, 2000.0, decode(t, w)["calories_goal"])
}
