package middleware

import (
	"invoice-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = echo.HeaderXRequestID

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
			c.Request().Header.Set(RequestIDHeader, requestID)
		}

		c.Response().Header().Set(RequestIDHeader, requestID)

		// Request-scoped logger, reachable from both echo and Go contexts
		logger.SetEcho(c, logger.GetLogger().With(zap.String("request_id", requestID)))

		return next(c)
	}
}
