package http

import (
	"strings"
	"unicode/utf8"

	"github.com/Cleareds/plantspack-sub002/pkg/decision"
	"github.com/Cleareds/plantspack-sub002/pkg/domain"
	"github.com/Cleareds/plantspack-sub002/pkg/handlers/http/request"
	"github.com/Cleareds/plantspack-sub002/pkg/moderation"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type moderateContentHandler struct {
	logger           *logrus.Logger
	scorer           *moderation.Service
	maxContentLength int
}

type ModerateContentHandlerDeps struct {
	Logger           *logrus.Logger
	Scorer           *moderation.Service
	MaxContentLength int
}

func NewModerateContentHandler(deps ModerateContentHandlerDeps) Handler {
	return &moderateContentHandler{
		logger:           deps.Logger,
		scorer:           deps.Scorer,
		maxContentLength: deps.MaxContentLength,
	}
}

type moderateContentResponse struct {
	Flagged        bool                        `json:"flagged"`
	Warnings       []string                    `json:"warnings"`
	Categories     map[domain.Category]bool    `json:"categories"`
	CategoryScores map[domain.Category]float64 `json:"categoryScores"`
	Recommendation domain.DecisionAction       `json:"recommendation"`
	Degraded       bool                        `json:"degraded"`
}

// Handle scores content and folds an optional caller-supplied domain
// detection into a recommendation, without touching the classifier.
func (h *moderateContentHandler) Handle(ctx *fiber.Ctx) error {
	var req request.ModerateContentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Content) == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": domain.ErrEmptyContent.Error()})
	}
	if utf8.RuneCountInString(req.Content) > h.maxContentLength {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": domain.ErrContentTooLarge.Error()})
	}

	detection, err := parseDetection(req.DomainDetection)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	score := h.scorer.Score(ctx.UserContext(), moderation.Input{
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	verdict := decision.Evaluate(domain.NeutralClassification(false), score, detection)

	return ctx.Status(fiber.StatusOK).JSON(moderateContentResponse{
		Flagged:        score.Flagged(),
		Warnings:       verdict.Warnings,
		Categories:     score.Categories,
		CategoryScores: score.CategoryScores,
		Recommendation: verdict.Action,
		Degraded:       score.Degraded,
	})
}
