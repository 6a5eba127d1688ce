package main

import (
	"go.uber.org/zap"

	"github.com/NygerianPrynce/kalTrackV2/config"
	"github.com/NygerianPrynce/kalTrackV2/routes"
	"github.com/NygerianPrynce/kalTrackV2/services"
)

func main() {
	logger, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuration error", zap.Error(err))
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	r := routes.SetupRouter(db, services.NewOpenAIService(), logger)

	logger.Info("listening", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger() (*zap.Logger, error) {
	c := zap.NewProductionConfig()
	c.InitialFields = map[string]interface{}{"service": "kaltrack"}
	return c.Build()
}
