package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// HealthHandler reports whether the data stores are reachable
type HealthHandler struct {
	postgres *gorm.DB
	mongo    *mongo.Client
}

// NewHealthHandler creates a new HealthHandler. A nil store is not checked.
func NewHealthHandler(pgdb *gorm.DB, mgClient *mongo.Client) *HealthHandler {
	return &HealthHandler{postgres: pgdb, mongo: mgClient}
}

func (h *HealthHandler) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if h.postgres != nil {
		checks["postgres"] = "ok"
		sqlDB, err := h.postgres.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			checks["postgres"] = err.Error()
			healthy = false
		}
	}

	if h.mongo != nil {
		checks["mongo"] = "ok"
		if err := h.mongo.Ping(ctx, nil); err != nil {
			checks["mongo"] = err.Error()
			healthy = false
		}
	}

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	return c.JSON(code, echo.Map{
		"status":  status,
		"service": "snapgram-data",
		"checks":  checks,
	})
}
