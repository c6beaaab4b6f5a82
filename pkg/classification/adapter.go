package classification

import (
	"context"
	"regexp"

	"github.com/Cleareds/plantspack-sub002/pkg/domain"
	"github.com/Cleareds/plantspack-sub002/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

// Transformation narratives: a past-tense negative framing followed by a
// present-tense resolution. Matched locally so tier 1 holds deterministically
// even when the model verdict is off.
var (
	pastNegativePattern    = regexp.MustCompile(`(?is)\b(i\s+used\s+to|i\s+gave\s+up|i\s+quit|i\s+no\s+longer|i\s+stopped|never\s+again)\b`)
	presentPositivePattern = regexp.MustCompile(`(?is)\b(but\s+now|now\s+i|these\s+days|today\s+i|anymore)\b`)
)

// Adapter fronts the primary classifier with the precedence policy and the
// local fallback. Classify never returns an error: a primary failure means
// degraded accuracy, not a blocked write.
type Adapter struct {
	primary  Classifier
	fallback Classifier
	logger   *logrus.Logger
}

// NewAdapter accepts a nil primary for deployments without classifier
// credentials; the fallback then serves every request.
func NewAdapter(primary Classifier, logger *logrus.Logger) *Adapter {
	return &Adapter{
		primary:  primary,
		fallback: NewHeuristicClassifier(),
		logger:   logger,
	}
}

func (a *Adapter) Classify(ctx context.Context, content string) domain.ClassificationResult {
	if a.primary == nil {
		prometheus.ClassifierDegraded.Inc()
		result, _ := a.fallback.Classify(ctx, content)
		return applyPrecedence(content, result)
	}

	result, err := a.primary.Classify(ctx, content)
	if err != nil {
		prometheus.ClassifierDegraded.Inc()
		a.logger.WithError(err).Warn("semantic classifier failed, using local fallback")
		result, _ = a.fallback.Classify(ctx, content)
	}
	return applyPrecedence(content, result)
}

// applyPrecedence re-validates the verdict against the tier policy. Tiers
// are ordered; an earlier tier ruling makes the later ones inapplicable.
func applyPrecedence(content string, result domain.ClassificationResult) domain.ClassificationResult {
	transformation := isTransformationNarrative(content)

	// Tier 1: transformation narratives are always allowed.
	if transformation && result.Sentiment == domain.SentimentNegative {
		result.Sentiment = domain.SentimentTransformation
	}
	if transformation ||
		result.Sentiment == domain.SentimentTransformation ||
		result.Sentiment == domain.SentimentPositive {
		result.RecommendedBlock = false
		return result
	}

	// Tier 3 exception: educational content and genuine questions are never
	// flagged for hostility. A tier-2 domain flag stands on its own.
	if (result.Sentiment == domain.SentimentEducational || result.Sentiment == domain.SentimentQuestion) &&
		!result.IsFlaggedDomain {
		result.RecommendedBlock = false
	}
	return result
}

func isTransformationNarrative(content string) bool {
	return pastNegativePattern.MatchString(content) && presentPositivePattern.MatchString(content)
}
