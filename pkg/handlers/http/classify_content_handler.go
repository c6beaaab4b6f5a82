package http

import (
	"strings"
	"unicode/utf8"

	"github.com/Cleareds/plantspack-sub002/pkg/classification"
	"github.com/Cleareds/plantspack-sub002/pkg/domain"
	"github.com/Cleareds/plantspack-sub002/pkg/handlers/http/request"
	"github.com/Cleareds/plantspack-sub002/pkg/middleware"
	"github.com/Cleareds/plantspack-sub002/pkg/policy"
	"github.com/Cleareds/plantspack-sub002/pkg/quota"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// classifyContentHandler surfaces the classification adapter directly. The
// external classifier costs money per call, so the endpoint carries its own
// quota actions, separate from the submission-creation budget, and requires
// an authenticated identity.
type classifyContentHandler struct {
	logger           *logrus.Logger
	gate             *quota.Gate
	limits           map[string]policy.Limit
	classifier       *classification.Adapter
	maxContentLength int
}

type ClassifyContentHandlerDeps struct {
	Logger           *logrus.Logger
	Gate             *quota.Gate
	Limits           map[string]policy.Limit
	Classifier       *classification.Adapter
	MaxContentLength int
}

func NewClassifyContentHandler(deps ClassifyContentHandlerDeps) Handler {
	return &classifyContentHandler{
		logger:           deps.Logger,
		gate:             deps.Gate,
		limits:           deps.Limits,
		classifier:       deps.Classifier,
		maxContentLength: deps.MaxContentLength,
	}
}

func (h *classifyContentHandler) Handle(ctx *fiber.Ctx) error {
	identity := middleware.IdentityFromContext(ctx)
	if identity == nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
	}

	var req request.ClassifyContentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Content) == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": domain.ErrEmptyContent.Error()})
	}
	if utf8.RuneCountInString(req.Content) > h.maxContentLength {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": domain.ErrContentTooLarge.Error()})
	}

	var checks []quota.Check
	if limit, ok := h.limits[policy.ActionContentAnalysisIP]; ok {
		checks = append(checks, quota.Check{
			Identifier: middleware.ClientIPFromContext(ctx),
			Action:     policy.ActionContentAnalysisIP,
			Limit:      limit.Limit,
			Window:     limit.Window,
		})
	}
	if limit, ok := h.limits[policy.ActionContentAnalysis]; ok {
		checks = append(checks, quota.Check{
			Identifier: identity.UserID,
			Action:     policy.ActionContentAnalysis,
			Limit:      limit.Limit,
			Window:     limit.Window,
		})
	}

	result, err := h.gate.Evaluate(ctx.UserContext(), checks)
	if err != nil {
		h.logger.WithError(err).Error("quota gate evaluation failed, admitting")
		result = quota.Result{Decision: quota.Decision{Allowed: true}}
	}
	if !result.Allowed {
		return rejectQuota(ctx, result)
	}

	classificationResult := h.classifier.Classify(ctx.UserContext(), req.Content)
	return ctx.Status(fiber.StatusOK).JSON(classificationResult)
}
