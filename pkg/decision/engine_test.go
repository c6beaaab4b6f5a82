package decision_test

import (
	"testing"

	"github.com/Cleareds/plantspack-sub002/pkg/decision"
	"github.com/Cleareds/plantspack-sub002/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func score(flagged ...domain.Category) domain.ModerationScore {
	s := domain.NeutralModerationScore(false)
	for _, category := range flagged {
		s.Categories[category] = true
		s.CategoryScores[category] = 0.97
	}
	return s
}

func TestEvaluate_AllBenignAllows(t *testing.T) {
	verdict := decision.Evaluate(domain.NeutralClassification(false), score(), nil)
	assert.Equal(t, domain.ActionAllow, verdict.Action)
	assert.Empty(t, verdict.Warnings)
}

func TestEvaluate_SexualMinorsAlwaysBlocks(t *testing.T) {
	// A positive classification and no detection cannot soften rule 1.
	classification := domain.ClassificationResult{Sentiment: domain.SentimentPositive}
	verdict := decision.Evaluate(classification, score(domain.CategorySexualMinors), nil)
	assert.Equal(t, domain.ActionBlock, verdict.Action)
}

func TestEvaluate_BlockCategories(t *testing.T) {
	for _, category := range []domain.Category{
		domain.CategorySexualMinors,
		domain.CategorySelfHarm,
		domain.CategoryGraphicViolence,
	} {
		verdict := decision.Evaluate(domain.NeutralClassification(false), score(category), nil)
		assert.Equal(t, domain.ActionBlock, verdict.Action, "category %s", category)
	}
}

func TestEvaluate_DetectionSeverityBlocks(t *testing.T) {
	for _, severity := range []domain.Severity{domain.SeverityHigh, domain.SeverityMedium} {
		verdict := decision.Evaluate(
			domain.NeutralClassification(false),
			score(),
			&domain.DomainDetection{Detected: true, Severity: severity},
		)
		assert.Equal(t, domain.ActionBlock, verdict.Action, "severity %s", severity)
	}
}

func TestEvaluate_RecommendedBlockDowngradesToWarning(t *testing.T) {
	classification := domain.ClassificationResult{
		Sentiment:        domain.SentimentNegative,
		RecommendedBlock: true,
		FlaggedReason:    "promotes animal-product consumption",
	}
	verdict := decision.Evaluate(classification, score(), nil)
	assert.Equal(t, domain.ActionContentWarning, verdict.Action)
	assert.NotEmpty(t, verdict.Warnings)
}

func TestEvaluate_WarningCategoriesScanInFixedOrder(t *testing.T) {
	verdict := decision.Evaluate(
		domain.NeutralClassification(false),
		score(domain.CategoryViolence, domain.CategorySexual, domain.CategoryHate),
		nil,
	)
	assert.Equal(t, domain.ActionContentWarning, verdict.Action)
	assert.Equal(t, []string{"Sexual content", "Hateful content", "Violent content"}, verdict.Warnings)
}

func TestEvaluate_LowSeverityAndCategoryWarningsUnion(t *testing.T) {
	verdict := decision.Evaluate(
		domain.NeutralClassification(false),
		score(domain.CategoryHarassment),
		&domain.DomainDetection{Detected: true, Severity: domain.SeverityLow},
	)
	assert.Equal(t, domain.ActionContentWarning, verdict.Action)
	assert.Equal(t, []string{
		"Harassment",
		"Content conflicting with community guidelines",
	}, verdict.Warnings)
}

func TestEvaluate_IsPure(t *testing.T) {
	classification := domain.ClassificationResult{
		Sentiment:        domain.SentimentNegative,
		RecommendedBlock: true,
	}
	moderation := score(domain.CategoryHate)
	detection := &domain.DomainDetection{Detected: true, Severity: domain.SeverityLow}

	first := decision.Evaluate(classification, moderation, detection)
	second := decision.Evaluate(classification, moderation, detection)
	assert.Equal(t, first, second)
}
