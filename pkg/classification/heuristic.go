package classification

import (
	"context"
	"strings"

	"github.com/Cleareds/plantspack-sub002/pkg/domain"
)

var questionPrefixes = []string{
	"how", "why", "what", "when", "where", "who",
	"is ", "are ", "can ", "could ", "should ", "do ", "does ", "did ",
}

var positiveKeywords = []string{
	"love", "amazing", "delicious", "great", "wonderful",
	"thank", "happy", "excited", "beautiful", "proud", "grateful",
}

// HeuristicClassifier is the reduced-fidelity local fallback. It only
// guesses between question, positive and neutral; it must never recommend a
// block, failing open on the blocking decision and closed only on accuracy.
type HeuristicClassifier struct{}

func NewHeuristicClassifier() *HeuristicClassifier {
	return &HeuristicClassifier{}
}

func (c *HeuristicClassifier) Classify(_ context.Context, content string) (domain.ClassificationResult, error) {
	result := domain.NeutralClassification(true)
	result.Reasoning = "local heuristic classification"

	lowered := strings.ToLower(strings.TrimSpace(content))
	if strings.Contains(lowered, "?") || hasQuestionPrefix(lowered) {
		result.Sentiment = domain.SentimentQuestion
		return result, nil
	}
	for _, keyword := range positiveKeywords {
		if strings.Contains(lowered, keyword) {
			result.Sentiment = domain.SentimentPositive
			return result, nil
		}
	}
	return result, nil
}

func hasQuestionPrefix(lowered string) bool {
	for _, prefix := range questionPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return true
		}
	}
	return false
}
