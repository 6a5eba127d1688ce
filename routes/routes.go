package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/NygerianPrynce/kalTrackV2/controllers"
	"github.com/NygerianPrynce/kalTrackV2/middlewares"
	"github.com/NygerianPrynce/kalTrackV2/services"
)

// SetupRouter wires the middleware chain and the four meal operations plus
// the health and goals endpoints. Paths mirror the deployed function names
// the web client already calls.
func SetupRouter(db *gorm.DB, ai services.Completer, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.Recovery(log))
	r.Use(middlewares.CORS())

	mealSvc := services.NewMealService(db)
	parserSvc := services.NewParserService(ai)
	aggSvc := services.NewAggregationService()
	goalSvc := services.NewGoalService()

	meals := controllers.NewMealController(mealSvc, parserSvc, log)
	logs := controllers.NewLogsController(mealSvc, aggSvc)
	goals := controllers.NewGoalController(goalSvc)

	r.POST("/log-meal", meals.LogMeal)
	r.GET("/get-logs", logs.GetLogs)
	r.PUT("/update-meal", meals.UpdateMeal)
	r.POST("/update-meal", meals.UpdateMeal)
	r.DELETE("/delete-meal", meals.DeleteMeal)
	r.POST("/delete-meal", meals.DeleteMeal)

	r.GET("/health", controllers.Health)
	r.POST("/health", controllers.HealthProbe)

	r.GET("/goals", goals.GetGoals)
	r.PUT("/goals", goals.SetGoals)

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	r.HandleMethodNotAllowed = true

	return r
}
