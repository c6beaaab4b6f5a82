package domain

import "fmt"

// Sentiment is the closed set of verdicts the semantic classifier may return.
type Sentiment string

const (
	SentimentPositive       Sentiment = "positive"
	SentimentNegative       Sentiment = "negative"
	SentimentNeutral        Sentiment = "neutral"
	SentimentQuestion       Sentiment = "question"
	SentimentEducational    Sentiment = "educational"
	SentimentTransformation Sentiment = "transformation"
)

// ParseSentiment validates a raw classifier payload value against the closed set.
func ParseSentiment(value string) (Sentiment, error) {
	switch s := Sentiment(value); s {
	case SentimentPositive, SentimentNegative, SentimentNeutral,
		SentimentQuestion, SentimentEducational, SentimentTransformation:
		return s, nil
	default:
		return "", fmt.Errorf("unknown sentiment %q", value)
	}
}

// ClassificationResult is the validated output of the classification adapter.
type ClassificationResult struct {
	Sentiment        Sentiment `json:"sentiment"`
	Tags             []string  `json:"tags"`
	IsFlaggedDomain  bool      `json:"isFlaggedDomain"`
	FlaggedReason    string    `json:"flaggedReason,omitempty"`
	RecommendedBlock bool      `json:"recommendedBlock"`
	Reasoning        string    `json:"reasoning"`
	Degraded         bool      `json:"degraded"`
}

// NeutralClassification is the result used when no classifier signal is available.
func NeutralClassification(degraded bool) ClassificationResult {
	return ClassificationResult{
		Sentiment: SentimentNeutral,
		Tags:      []string{},
		Degraded:  degraded,
	}
}
