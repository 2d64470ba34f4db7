package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/helpdesk-service/internal/config"
)

func TestNewLogger_FallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "chatty"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/tickets/:id", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/tickets/:id", "GET", 200, 30*time.Millisecond)
	m.RecordError("/api/tickets/:id", "GET", "NOT_FOUND")

	snap := m.Snapshot()

	assert.Equal(t, int64(2), snap.Requests["/api/tickets/:id|GET|200"])
	assert.InDelta(t, 20.0, snap.AvgLatencyMS["/api/tickets/:id|GET|200"], 0.001)
	assert.Equal(t, int64(1), snap.Errors["/api/tickets/:id|GET|NOT_FOUND"])

	var nilMetrics *Metrics
	nilMetrics.RecordRequest("/", "GET", 200, 0)
	assert.Empty(t, nilMetrics.Snapshot().Requests)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	metrics := NewMetrics()

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), metrics))
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		if c.Params("id") == "boom" {
			return fiber.NewError(http.StatusInternalServerError, "boom")
		}
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/items/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	snap := metrics.Snapshot()
	assert.Equal(t, int64(1), snap.Requests["/items/:id|GET|200"])
	assert.Equal(t, int64(1), snap.Requests["/items/:id|GET|500"])
	assert.Equal(t, 1, logs.FilterMessage("http request").FilterField(zap.Int("status", 500)).Len())
	assert.Equal(t, 2, logs.FilterMessage("http request").Len())
}
