package middleware

import (
	"github.com/Cleareds/plantspack-sub002/pkg/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const traceHeader = "X-Trace-Id"

// traceMiddleware tags every request with a trace id so a decision can be
// correlated across the gateway logs and the caller's own records. An
// incoming header wins so traces survive proxy hops.
type traceMiddleware struct{}

func NewTraceMiddleware() Middleware {
	return &traceMiddleware{}
}

func (m *traceMiddleware) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		traceID := ctx.Get(traceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		ctx.Locals(common.TraceIdKey, traceID)
		ctx.Set(traceHeader, traceID)
		return ctx.Next()
	}
}

// TraceIDFromContext returns the request's trace id, or an empty string
// outside the middleware chain.
func TraceIDFromContext(ctx *fiber.Ctx) string {
	traceID, ok := ctx.Locals(common.TraceIdKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
