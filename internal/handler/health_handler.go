package handler

import (
	"net/http"
	"strings"
	"time"

	"invoice-service/internal/service"
	"invoice-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Health reports whether the service and its database are reachable
func (h *Handler) Health(c echo.Context) error {
	if err := h.maintenance.Ping(c.Request().Context()); err != nil {
		logger.FromContext(c).Warn("Health check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status":  "unhealthy",
			"service": h.serviceName,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": h.serviceName,
	})
}

// TestDB checks the database connection
func (h *Handler) TestDB(c echo.Context) error {
	if err := h.maintenance.Ping(c.Request().Context()); err != nil {
		return h.fail(c, service.Internal("Database connection failed", err))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"message":   "Database connection successful",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// SetupDatabase creates the tables and loads the reference catalog
func (h *Handler) SetupDatabase(c echo.Context) error {
	log := logger.FromContext(c)

	missing, err := h.maintenance.Setup(c.Request().Context())
	if err != nil {
		return h.fail(c, service.Internal("Database setup failed", err))
	}
	if len(missing) > 0 {
		return h.fail(c, service.Internal("Database setup incomplete",
			&missingTablesError{tables: missing}))
	}

	log.Info("Database setup completed")
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Database setup completed successfully",
	})
}

type missingTablesError struct {
	tables []string
}

func (e *missingTablesError) Error() string {
	return "missing tables: " + strings.Join(e.tables, ", ")
}
