package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := log
	log = zap.New(core)
	t.Cleanup(func() { log = prev })
	return logs
}

func TestInitLogger(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		require.NoError(t, InitLogger(&LogConfig{Level: "debug", Environment: env, ServiceName: "invoice-service"}))
		assert.True(t, GetLogger().Core().Enabled(zapcore.DebugLevel))
	}
	require.NoError(t, InitLogger(&LogConfig{Level: "bogus", Environment: "development"}))
	assert.False(t, GetLogger().Core().Enabled(zapcore.DebugLevel))
}

func TestFromCtxFallsBackToGlobal(t *testing.T) {
	observe(t)
	assert.Same(t, GetLogger(), FromCtx(context.Background()))

	scoped := zap.NewNop()
	assert.Same(t, scoped, FromCtx(WithLogger(context.Background(), scoped)))
}

func TestSetEchoReachesBothContexts(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	scoped := zap.NewNop()

	SetEcho(c, scoped)

	assert.Same(t, scoped, FromContext(c))
	assert.Same(t, scoped, FromCtx(c.Request().Context()))
}

func TestMiddlewareLogsRenderedStatus(t *testing.T) {
	logs := observe(t)
	e := echo.New()
	e.Use(Middleware())
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, errors.New("nope").Error())
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(http.StatusNotFound), entries[0].ContextMap()["status"])
	assert.Equal(t, "/missing", entries[0].ContextMap()["path"])
}
