package router

import (
	"github.com/anonto42/snapgram/backend/internal/handlers"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupRoutes configures the operational endpoints of the data service
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, log *logrus.Logger) {
	health := handlers.NewHealthHandler(pgdb, mgClient)
	e.GET("/health", health.HealthCheck)
	log.Info("health route configured")
}

// SetupMetricsRoutes exposes the Prometheus registry on e
func SetupMetricsRoutes(e *echo.Echo, log *logrus.Logger) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	log.Info("metrics route configured")
}
