package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// DashboardStats returns invoice totals and monthly figures
func (h *Handler) DashboardStats(c echo.Context) error {
	stats, err := h.reader.GetDashboardStats(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    stats,
	})
}
