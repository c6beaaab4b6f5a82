package http

import (
	"context"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Cleareds/plantspack-sub002/pkg/classification"
	"github.com/Cleareds/plantspack-sub002/pkg/decision"
	"github.com/Cleareds/plantspack-sub002/pkg/domain"
	"github.com/Cleareds/plantspack-sub002/pkg/handlers/http/request"
	"github.com/Cleareds/plantspack-sub002/pkg/infra/prometheus"
	"github.com/Cleareds/plantspack-sub002/pkg/middleware"
	"github.com/Cleareds/plantspack-sub002/pkg/moderation"
	"github.com/Cleareds/plantspack-sub002/pkg/policy"
	"github.com/Cleareds/plantspack-sub002/pkg/quota"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type gateSubmissionHandler struct {
	logger           *logrus.Logger
	gate             *quota.Gate
	limits           map[string]policy.Limit
	classifier       *classification.Adapter
	scorer           *moderation.Service
	maxContentLength int
}

type GateSubmissionHandlerDeps struct {
	Logger           *logrus.Logger
	Gate             *quota.Gate
	Limits           map[string]policy.Limit
	Classifier       *classification.Adapter
	Scorer           *moderation.Service
	MaxContentLength int
}

func NewGateSubmissionHandler(deps GateSubmissionHandlerDeps) Handler {
	return &gateSubmissionHandler{
		logger:           deps.Logger,
		gate:             deps.Gate,
		limits:           deps.Limits,
		classifier:       deps.Classifier,
		scorer:           deps.Scorer,
		maxContentLength: deps.MaxContentLength,
	}
}

type gateSubmissionResponse struct {
	Decision       domain.Decision             `json:"decision"`
	Classification domain.ClassificationResult `json:"classification"`
	Moderation     domain.ModerationScore      `json:"moderation"`
	Quota          quota.Decision              `json:"quota"`
}

// Handle runs the full write-path gate for a submission: input validation,
// the ordered quota checks, then the classifier and scorer concurrently,
// and finally the decision fusion. The caller persists the content only
// when the returned decision is not a block.
func (h *gateSubmissionHandler) Handle(ctx *fiber.Ctx) error {
	var req request.GateSubmissionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	// Cheapest check first: reject invalid input before any quota or
	// classification work happens.
	if err := h.validateContent(req.Content); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	detection, err := parseDetection(req.DomainDetection)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	checks := h.buildChecks(ctx, req.SubmissionType)
	result, err := h.gate.Evaluate(ctx.UserContext(), checks)
	if err != nil {
		// The store is wrapped to fail open, so this path should not be
		// reachable; admit rather than lock writes out if it ever is.
		h.logger.WithError(err).Error("quota gate evaluation failed, admitting")
		result = quota.Result{Decision: quota.Decision{Allowed: true}}
	}
	if !result.Allowed {
		return rejectQuota(ctx, result)
	}

	classificationResult, moderationScore := h.analyze(ctx.UserContext(), req.Content, req.ImageURL)

	verdict := decision.Evaluate(classificationResult, moderationScore, detection)
	prometheus.Decisions.WithLabelValues(string(verdict.Action)).Inc()
	h.logger.WithFields(logrus.Fields{
		"trace":  middleware.TraceIDFromContext(ctx),
		"action": verdict.Action,
	}).Debug("gate decision")

	return ctx.Status(fiber.StatusOK).JSON(gateSubmissionResponse{
		Decision:       verdict,
		Classification: classificationResult,
		Moderation:     moderationScore,
		Quota:          result.Decision,
	})
}

// analyze issues the two external calls concurrently; each fails open
// internally, so joining them never fails.
func (h *gateSubmissionHandler) analyze(
	ctx context.Context,
	content, imageURL string,
) (domain.ClassificationResult, domain.ModerationScore) {
	var (
		classificationResult domain.ClassificationResult
		moderationScore      domain.ModerationScore
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		classificationResult = h.classifier.Classify(gctx, content)
		return nil
	})
	g.Go(func() error {
		moderationScore = h.scorer.Score(gctx, moderation.Input{Content: content, ImageURL: imageURL})
		return nil
	})
	_ = g.Wait()
	return classificationResult, moderationScore
}

func (h *gateSubmissionHandler) validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return domain.ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > h.maxContentLength {
		return domain.ErrContentTooLarge
	}
	return nil
}

// buildChecks orders the quota checks cheap-first: IP scope before user
// scope. Anonymous callers only get the IP check, mirroring how the
// per-user limit is skipped without an identity.
func (h *gateSubmissionHandler) buildChecks(ctx *fiber.Ctx, submissionType string) []quota.Check {
	ipAction, userAction := submissionActions(submissionType)

	var checks []quota.Check
	if limit, ok := h.limits[ipAction]; ok {
		checks = append(checks, quota.Check{
			Identifier: middleware.ClientIPFromContext(ctx),
			Action:     ipAction,
			Limit:      limit.Limit,
			Window:     limit.Window,
		})
	}
	if identity := middleware.IdentityFromContext(ctx); identity != nil {
		if limit, ok := h.limits[userAction]; ok {
			checks = append(checks, quota.Check{
				Identifier: identity.UserID,
				Action:     userAction,
				Limit:      limit.Limit,
				Window:     limit.Window,
			})
		}
	}
	return checks
}

func submissionActions(submissionType string) (string, string) {
	if submissionType == "comment" {
		return policy.ActionCommentCreationIP, policy.ActionCommentCreation
	}
	return policy.ActionPostCreationIP, policy.ActionPostCreation
}

func parseDetection(req *request.DomainDetection) (*domain.DomainDetection, error) {
	if req == nil {
		return nil, nil
	}
	severity := req.Severity
	if severity == "" {
		severity = string(domain.SeverityNone)
	}
	parsed, err := domain.ParseSeverity(severity)
	if err != nil {
		return nil, err
	}
	return &domain.DomainDetection{
		Detected: req.Detected,
		Severity: parsed,
		Matches:  req.Matches,
	}, nil
}

func rejectQuota(ctx *fiber.Ctx, result quota.Result) error {
	prometheus.QuotaRejections.WithLabelValues(result.Action).Inc()

	retryAfter := int(math.Ceil(result.ResetIn.Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}
	ctx.Set("Retry-After", strconv.Itoa(retryAfter))
	return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error":      "rate limit exceeded",
		"action":     result.Action,
		"limit":      result.Limit,
		"remaining":  result.Remaining,
		"retryAfter": retryAfter,
	})
}
