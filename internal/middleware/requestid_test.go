package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lead-service/pkg/logger"
)

func TestRequestIDMiddlewareAttachesLogger(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var inner echo.Context
	handler := RequestIDMiddleware(func(c echo.Context) error {
		inner = c
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	// the scoped logger is reachable both ways: echo context and request context
	log, ok := inner.Get("logger").(*zap.Logger)
	require.True(t, ok)
	assert.Same(t, log, logger.FromContext(inner.Request().Context()))
}
