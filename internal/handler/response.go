package handler

import (
	"errors"
	"fmt"
	"net/http"

	"invoice-service/internal/service"
	"invoice-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func statusOf(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail renders err in the error envelope. Causes of internal errors are only
// exposed outside production.
func (h *Handler) fail(c echo.Context, err error) error {
	log := logger.FromContext(c)

	var se *service.Error
	if !errors.As(err, &se) {
		se = service.Internal("Internal server error", err)
	}

	body := ErrorResponse{Error: se.Message}
	status := statusOf(se.Kind)
	if status == http.StatusInternalServerError {
		log.Error(se.Message, zap.Error(se.Err))
		if h.exposeDetails && se.Err != nil {
			body.Details = se.Err.Error()
		}
	} else {
		log.Warn("Request rejected",
			zap.String("kind", string(se.Kind)),
			zap.String("reason", se.Message))
	}
	return c.JSON(status, body)
}

// ErrorHandler renders errors escaping the handlers, such as unknown routes,
// in the error envelope
func ErrorHandler(exposeDetails bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := ErrorResponse{Error: "Internal server error"}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			body.Error = fmt.Sprint(he.Message)
			if he.Internal != nil && exposeDetails {
				body.Details = he.Internal.Error()
			}
		} else if exposeDetails {
			body.Details = err.Error()
		}

		if status >= http.StatusInternalServerError {
			logger.FromContext(c).Error("Unhandled error", zap.Error(err))
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			logger.FromContext(c).Error("Failed to write error response", zap.Error(werr))
		}
	}
}
