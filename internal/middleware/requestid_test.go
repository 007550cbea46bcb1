package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"invoice-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, *zap.Logger) {
	t.Helper()
	e := echo.New()
	var seen *zap.Logger
	e.Use(RequestIDMiddleware)
	e.GET("/", func(c echo.Context) error {
		seen = logger.FromCtx(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen
}

func TestRequestIDGenerated(t *testing.T) {
	rec, seen := serve(t, httptest.NewRequest(http.MethodGet, "/", nil))

	id := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotNil(t, seen)
}

func TestRequestIDPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")

	rec, _ := serve(t, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}
