package classification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Cleareds/plantspack-sub002/pkg/classification"
	"github.com/Cleareds/plantspack-sub002/pkg/domain"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type stubClassifier struct {
	result domain.ClassificationResult
	err    error
}

func (s *stubClassifier) Classify(context.Context, string) (domain.ClassificationResult, error) {
	return s.result, s.err
}

func TestAdapter_NoPrimaryUsesFallback(t *testing.T) {
	adapter := classification.NewAdapter(nil, logrus.New())

	result := adapter.Classify(context.Background(), "is tempeh a complete protein?")
	assert.True(t, result.Degraded)
	assert.Equal(t, domain.SentimentQuestion, result.Sentiment)
	assert.False(t, result.RecommendedBlock)
}

func TestAdapter_PrimaryErrorFallsBack(t *testing.T) {
	primary := &stubClassifier{err: domain.NewTransientServiceError("semantic classifier", errors.New("timeout"))}
	adapter := classification.NewAdapter(primary, logrus.New())

	result := adapter.Classify(context.Background(), "I love this lentil recipe")
	assert.True(t, result.Degraded)
	assert.Equal(t, domain.SentimentPositive, result.Sentiment)
	assert.False(t, result.RecommendedBlock)
}

func TestAdapter_FallbackNeutralByDefault(t *testing.T) {
	adapter := classification.NewAdapter(nil, logrus.New())

	result := adapter.Classify(context.Background(), "posting my meal plan for the week")
	assert.Equal(t, domain.SentimentNeutral, result.Sentiment)
	assert.False(t, result.RecommendedBlock)
}

func TestAdapter_TransformationNarrativeNeverBlocked(t *testing.T) {
	// Even a primary verdict that wants a block is overruled by tier 1
	// when the text is a transformation narrative.
	primary := &stubClassifier{result: domain.ClassificationResult{
		Sentiment:        domain.SentimentNegative,
		RecommendedBlock: true,
		FlaggedReason:    "mentions eating meat",
	}}
	adapter := classification.NewAdapter(primary, logrus.New())

	result := adapter.Classify(context.Background(), "I used to eat meat every single day, but now I love being vegan")
	assert.Equal(t, domain.SentimentTransformation, result.Sentiment)
	assert.False(t, result.RecommendedBlock)
}

func TestAdapter_PositiveSentimentNeverBlocked(t *testing.T) {
	primary := &stubClassifier{result: domain.ClassificationResult{
		Sentiment:        domain.SentimentPositive,
		RecommendedBlock: true,
	}}
	adapter := classification.NewAdapter(primary, logrus.New())

	result := adapter.Classify(context.Background(), "so proud of this community")
	assert.False(t, result.RecommendedBlock)
}

func TestAdapter_QuestionsNotFlaggedForHostility(t *testing.T) {
	primary := &stubClassifier{result: domain.ClassificationResult{
		Sentiment:        domain.SentimentQuestion,
		RecommendedBlock: true,
	}}
	adapter := classification.NewAdapter(primary, logrus.New())

	result := adapter.Classify(context.Background(), "why do some people quit veganism?")
	assert.False(t, result.RecommendedBlock)
}

func TestAdapter_FlaggedDomainPromotionStands(t *testing.T) {
	// Tier 2 is independent of the tier-3 education exception.
	primary := &stubClassifier{result: domain.ClassificationResult{
		Sentiment:        domain.SentimentEducational,
		IsFlaggedDomain:  true,
		FlaggedReason:    "promotes animal-product consumption",
		RecommendedBlock: true,
	}}
	adapter := classification.NewAdapter(primary, logrus.New())

	result := adapter.Classify(context.Background(), "everyone should eat more steak, here is why")
	assert.True(t, result.RecommendedBlock)
	assert.True(t, result.IsFlaggedDomain)
}
