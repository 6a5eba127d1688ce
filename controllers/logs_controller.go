package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NygerianPrynce/kalTrackV2/models"
	"github.com/NygerianPrynce/kalTrackV2/services"
	"github.com/NygerianPrynce/kalTrackV2/utils"
)

type LogsController struct {
	Meals *services.MealService
	Agg   *services.AggregationService
}

func NewLogsController(meals *services.MealService, agg *services.AggregationService) *LogsController {
	return &LogsController{Meals: meals, Agg: agg}
}

// GetLogs fetches the requested window and computes today's totals, the
// per-day rollup and the trailing-7-day average in one pass. Explicit
// from/to dates take precedence over the range token; malformed dates fall
// through to the token. The reporting window is resolved in server time,
// while bucketing follows the caller's timezone.
func (h *LogsController) GetLogs(c *gin.Context) {
	loc, err := utils.LoadTimezone(c.Query("tz"))
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	from, to, ok := utils.ResolveDates(c.Query("from"), c.Query("to"), time.Local)
	if !ok {
		from, to = utils.ResolveWindow(c.Query("range"), now)
	}

	logs, err := h.Meals.ListByTimeRange(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	if logs == nil {
		logs = []models.MealLog{}
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":         logs,
		"today_totals": h.Agg.TodayTotals(logs, loc),
		"daily_totals": h.Agg.DailyTotals(logs, loc),
		"last_7_avg":   h.Agg.Last7Avg(logs, loc, now),
	})
}
