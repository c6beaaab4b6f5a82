package middleware

import (
	"strings"

	"github.com/Cleareds/plantspack-sub002/pkg/common"
	"github.com/Cleareds/plantspack-sub002/pkg/infra/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const authorizationHeader = "Authorization"

// authMiddleware resolves the caller identity from the bearer token issued
// by the auth collaborator. Anonymous requests pass through with no
// identity set; handlers that require one reject them. Banned identities
// are rejected here, before any quota budget is spent.
type authMiddleware struct {
	logger   *logrus.Logger
	verifier auth.Verifier
}

func NewAuthMiddleware(logger *logrus.Logger, verifier auth.Verifier) Middleware {
	return &authMiddleware{
		logger:   logger,
		verifier: verifier,
	}
}

func (m *authMiddleware) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ctx.Locals(common.ClientIPContextKey, clientIP(ctx))

		header := ctx.Get(authorizationHeader)
		if header == "" {
			return ctx.Next()
		}

		token := strings.TrimPrefix(header, "Bearer ")
		identity, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.WithError(err).Debug("rejected bearer token")
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid session token"})
		}
		if identity.Banned {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "account suspended"})
		}

		ctx.Locals(common.IdentityContextKey, identity)
		return ctx.Next()
	}
}

func clientIP(ctx *fiber.Ctx) string {
	if ip := ctx.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if forwarded := ctx.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	return ctx.IP()
}

// IdentityFromContext returns the authenticated identity, or nil for
// anonymous callers.
func IdentityFromContext(ctx *fiber.Ctx) *auth.Identity {
	identity, ok := ctx.Locals(common.IdentityContextKey).(*auth.Identity)
	if !ok {
		return nil
	}
	return identity
}

// ClientIPFromContext returns the request's client address.
func ClientIPFromContext(ctx *fiber.Ctx) string {
	ip, ok := ctx.Locals(common.ClientIPContextKey).(string)
	if !ok {
		return ctx.IP()
	}
	return ip
}
