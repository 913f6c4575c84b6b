// handlers_health.go - Health check handlers
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	views   ViewManager
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, views ViewManager) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		views:   views,
		started: time.Now(),
	}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	resp := map[string]interface{}{
		"status":        "ok",
		"version":       h.version,
		"uptimeSeconds": int64(time.Since(h.started).Seconds()),
	}
	if h.views != nil {
		resp["activeViews"] = h.views.ViewCount()
	}
	return c.JSON(http.StatusOK, resp)
}
