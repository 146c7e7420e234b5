package main

import (
	"context"
	"time"

	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/anonto42/snapgram/backend/internal/repositories"
	"github.com/anonto42/snapgram/backend/internal/router"
	"github.com/anonto42/snapgram/backend/pkg/config"
	"github.com/anonto42/snapgram/backend/pkg/logger"
	"github.com/labstack/echo/v4"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.Env, cfg.LogLevel)

	db, err := config.InitDB(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize databases")
	}
	defer db.CloseDB()

	if err := models.AutoMigrate(db.Postgres); err != nil {
		log.WithError(err).Fatal("failed to auto migrate models")
	}
	log.Info("PostgreSQL auto-migrations completed")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	uploadRepo := repositories.NewMongoUploadRepository(db.Mongo.Database(cfg.MongoDatabase))
	err = uploadRepo.EnsureIndexes(ctx)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("failed to create upload indexes")
	}

	metricsServer := echo.New()
	metricsServer.HideBanner = true
	router.SetupMetricsRoutes(metricsServer, log)
	go func() {
		if err := metricsServer.Start(":" + cfg.MetricsPort); err != nil {
			log.WithError(err).Error("metrics server stopped")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	config.SetupMiddleware(e, log)
	router.SetupRoutes(e, db.Postgres, db.Mongo, log)

	log.WithField("port", cfg.Port).Info("starting server")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.WithError(err).Error("server stopped")
	}
}
