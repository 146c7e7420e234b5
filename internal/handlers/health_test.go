package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/snapgram/backend/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), config.GormConfig())
	require.NoError(t, err)
	return db
}

func runHealthCheck(t *testing.T, h *HealthHandler) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.HealthCheck(c))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthCheckHealthy(t *testing.T) {
	db := openTestDB(t)
	rec, body := runHealthCheck(t, NewHealthHandler(db, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "snapgram-data", body["service"])
	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "ok", checks["postgres"])
	assert.NotContains(t, checks, "mongo")
}

func TestHealthCheckUnhealthy(t *testing.T) {
	db := openTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rec, body := runHealthCheck(t, NewHealthHandler(db, nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", body["status"])
}
