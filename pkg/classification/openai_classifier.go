package classification

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Cleareds/plantspack-sub002/pkg/domain"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const (
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 5 * time.Second
)

const systemPrompt = `You are the content classifier for PlantsPack, a plant-based-lifestyle social network.
Classify the submitted text and answer with a single JSON object, no markdown, with exactly these keys:
{"sentiment": "positive|negative|neutral|question|educational|transformation",
 "tags": ["..."],
 "is_flagged_domain": bool,
 "flagged_reason": "...",
 "recommended_block": bool,
 "reasoning": "..."}

Apply these rules strictly in order; once a rule matches, the later ones do not apply:
1. A transformation narrative (a past negative stance or behavior resolving into a present positive one,
   e.g. "I used to eat meat, but now I love being vegan") is sentiment "transformation" or "positive"
   and recommended_block must be false, no matter what appears in the past-tense portion.
2. Present-tense promotion of animal-product consumption is is_flagged_domain true with a short
   flagged_reason, unless it is quoted or framed inside a rule-1 narrative.
3. Present-tense hostility toward any group is recommended_block true, with the same rule-1 exception.
   Purely educational content and genuine questions are never flagged by this rule.`

type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// OpenAIClassifier is the primary semantic classifier path.
type OpenAIClassifier struct {
	client openai.Client
	config Config
}

type classifierVerdict struct {
	Sentiment        string   `json:"sentiment"`
	Tags             []string `json:"tags"`
	IsFlaggedDomain  bool     `json:"is_flagged_domain"`
	FlaggedReason    string   `json:"flagged_reason"`
	RecommendedBlock bool     `json:"recommended_block"`
	Reasoning        string   `json:"reasoning"`
}

func NewOpenAIClassifier(config Config) (*OpenAIClassifier, error) {
	if config.APIKey == "" {
		return nil, domain.NewConfigurationError("semantic classifier")
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	return &OpenAIClassifier{
		client: openai.NewClient(option.WithAPIKey(config.APIKey)),
		config: config,
	}, nil
}

func (c *OpenAIClassifier) Classify(ctx context.Context, content string) (domain.ClassificationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(content),
		},
	})
	if err != nil {
		return domain.ClassificationResult{}, domain.NewTransientServiceError("semantic classifier", err)
	}
	if len(resp.Choices) == 0 {
		return domain.ClassificationResult{}, domain.NewTransientServiceError("semantic classifier", errEmptyCompletion)
	}

	return parseVerdict(resp.Choices[0].Message.Content)
}

var errEmptyCompletion = jsonError("empty completion")

type jsonError string

func (e jsonError) Error() string { return string(e) }

// parseVerdict validates the loosely-typed model payload against the closed
// sentiment enumeration before it can reach the decision engine.
func parseVerdict(raw string) (domain.ClassificationResult, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var verdict classifierVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return domain.ClassificationResult{}, domain.NewTransientServiceError("semantic classifier", err)
	}

	sentiment, err := domain.ParseSentiment(verdict.Sentiment)
	if err != nil {
		return domain.ClassificationResult{}, domain.NewTransientServiceError("semantic classifier", err)
	}

	tags := verdict.Tags
	if tags == nil {
		tags = []string{}
	}
	return domain.ClassificationResult{
		Sentiment:        sentiment,
		Tags:             tags,
		IsFlaggedDomain:  verdict.IsFlaggedDomain,
		FlaggedReason:    verdict.FlaggedReason,
		RecommendedBlock: verdict.RecommendedBlock,
		Reasoning:        verdict.Reasoning,
	}, nil
}
