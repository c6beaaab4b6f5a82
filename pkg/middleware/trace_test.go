package middleware_test

import (
	"net/http/httptest"
	"testing"

	"github.com/Cleareds/plantspack-sub002/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTraceApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewTraceMiddleware().Middleware())
	app.Get("/trace", func(ctx *fiber.Ctx) error {
		return ctx.SendString(middleware.TraceIDFromContext(ctx))
	})
	return app
}

func TestTraceMiddleware_GeneratesTraceID(t *testing.T) {
	app := newTraceApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/trace", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-Id"))
}

func TestTraceMiddleware_KeepsIncomingTraceID(t *testing.T) {
	app := newTraceApp()

	req := httptest.NewRequest("GET", "/trace", nil)
	req.Header.Set("X-Trace-Id", "upstream-trace")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "upstream-trace", resp.Header.Get("X-Trace-Id"))
}
