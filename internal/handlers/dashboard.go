package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"dues_portal_echo/internal/middleware"
	"dues_portal_echo/internal/services"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboard *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Dashboard returns the signed-in member's dues, totals and recent notifications
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	dash, err := h.dashboard.Get(c.Request().Context(), getUintFromContext(c, middleware.ContextUserID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dash)
}

// Helper to safely get string from context
func getStringFromContext(c echo.Context, key string) string {
	val := c.Get(key)
	if val == nil {
		return ""
	}
	strVal, ok := val.(string)
	if !ok {
		return ""
	}
	return strVal
}

func getUintFromContext(c echo.Context, key string) uint {
	val := c.Get(key)
	if val == nil {
		return 0
	}
	uintVal, ok := val.(uint)
	if !ok {
		return 0
	}
	return uintVal
}

func bindJSON(c echo.Context, dest interface{}) error {
	if err := c.Bind(dest); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return nil
}
