package http_test

import (
	"io"
	"testing"

	"github.com/Cleareds/plantspack-sub002/pkg/classification"
	handlers "github.com/Cleareds/plantspack-sub002/pkg/handlers/http"
	"github.com/Cleareds/plantspack-sub002/pkg/infra/auth"
	"github.com/Cleareds/plantspack-sub002/pkg/middleware"
	"github.com/Cleareds/plantspack-sub002/pkg/policy"
	"github.com/Cleareds/plantspack-sub002/pkg/quota"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClassifyApp(t *testing.T, limits map[string]policy.Limit) *fiber.App {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := quota.NewMemoryStore(nil)
	t.Cleanup(store.Close)

	deps := handlers.ClassifyContentHandlerDeps{
		Logger:           logger,
		Gate:             quota.NewGate(quota.NewFailOpenStore(store, logger)),
		Limits:           limits,
		Classifier:       classification.NewAdapter(nil, logger),
		MaxContentLength: 10000,
	}

	app := fiber.New()
	app.Use(middleware.NewAuthMiddleware(logger, &stubVerifier{identity: &auth.Identity{UserID: "user-123"}}).Middleware())
	app.Post("/api/v1/classify", handlers.NewClassifyContentHandler(deps).Handle)
	return app
}

func TestClassifyContent_RequiresAuthentication(t *testing.T) {
	app := newClassifyApp(t, policy.DefaultLimits())

	status, payload := postJSON(t, app, "/api/v1/classify", `{"content": "is this recipe vegan?"}`, false)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "authentication required", payload["error"])
}

func TestClassifyContent_ReturnsClassification(t *testing.T) {
	app := newClassifyApp(t, policy.DefaultLimits())

	status, payload := postJSON(t, app, "/api/v1/classify", `{"content": "is this recipe vegan?"}`, true)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "question", payload["sentiment"])
	assert.Equal(t, true, payload["degraded"])
}

func TestClassifyContent_EmptyContentRejected(t *testing.T) {
	app := newClassifyApp(t, policy.DefaultLimits())

	status, _ := postJSON(t, app, "/api/v1/classify", `{"content": ""}`, true)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestClassifyContent_OwnQuotaBudget(t *testing.T) {
	limits := map[string]policy.Limit{
		policy.ActionContentAnalysis: {Limit: 1, Window: policy.DefaultLimits()[policy.ActionContentAnalysis].Window},
	}
	app := newClassifyApp(t, limits)

	status, _ := postJSON(t, app, "/api/v1/classify", `{"content": "first call"}`, true)
	require.Equal(t, fiber.StatusOK, status)

	status, payload := postJSON(t, app, "/api/v1/classify", `{"content": "second call"}`, true)
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Equal(t, policy.ActionContentAnalysis, payload["action"])
}
