package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Cleareds/plantspack-sub002/pkg/domain"
	"github.com/Cleareds/plantspack-sub002/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
)

const (
	OpenAIModerationURL = "https://api.openai.com/v1/moderations"
	moderationModel     = "omni-moderation-latest"
	defaultTimeout      = 5 * time.Second
)

// categoryMapping folds the scorer's native category names into the fixed
// category set. Threatening and intent sub-categories collapse into their
// parents.
var categoryMapping = map[string]domain.Category{
	"sexual":                 domain.CategorySexual,
	"hate":                   domain.CategoryHate,
	"hate/threatening":       domain.CategoryHate,
	"harassment":             domain.CategoryHarassment,
	"harassment/threatening": domain.CategoryHarassment,
	"violence":               domain.CategoryViolence,
	"self-harm":              domain.CategorySelfHarm,
	"self-harm/intent":       domain.CategorySelfHarm,
	"self-harm/instructions": domain.CategorySelfHarm,
	"violence/graphic":       domain.CategoryGraphicViolence,
	"sexual/minors":          domain.CategorySexualMinors,
}

type Config struct {
	APIKey  string
	URL     string
	Timeout time.Duration
}

type OpenAIScorer struct {
	client  httpx.Client
	breaker httpx.CircuitBreaker
	logger  *logrus.Logger
	config  Config
}

type moderationRequest struct {
	Input []moderationInput `json:"input"`
	Model string            `json:"model,omitempty"`
}

type moderationInput struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type moderationResponse struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Results []moderationResult `json:"results"`
}

type moderationResult struct {
	Flagged        bool               `json:"flagged"`
	Categories     map[string]bool    `json:"categories"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

func NewOpenAIScorer(
	logger *logrus.Logger,
	client httpx.Client,
	breaker httpx.CircuitBreaker,
	config Config,
) (*OpenAIScorer, error) {
	if config.APIKey == "" {
		return nil, domain.NewConfigurationError("moderation scorer")
	}
	if config.URL == "" {
		config.URL = OpenAIModerationURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if client == nil {
		client = &http.Client{}
	}
	return &OpenAIScorer{
		client:  client,
		breaker: breaker,
		logger:  logger,
		config:  config,
	}, nil
}

func (s *OpenAIScorer) Score(ctx context.Context, input Input) (domain.ModerationScore, error) {
	inputs := []moderationInput{{Type: "text", Text: input.Content}}
	if input.ImageURL != "" {
		inputs = append(inputs, moderationInput{Type: "image_url", ImageURL: &imageURL{URL: input.ImageURL}})
	}

	jsonData, err := json.Marshal(moderationRequest{Input: inputs, Model: moderationModel})
	if err != nil {
		return domain.ModerationScore{}, fmt.Errorf("marshal moderation request: %w", err)
	}

	var body []byte
	call := func() error {
		var callErr error
		body, callErr = s.send(ctx, jsonData)
		return callErr
	}
	if s.breaker != nil {
		err = s.breaker.Execute(call)
	} else {
		err = call()
	}
	if err != nil {
		return domain.ModerationScore{}, domain.NewTransientServiceError("moderation scorer", err)
	}

	var response moderationResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return domain.ModerationScore{}, domain.NewTransientServiceError("moderation scorer", err)
	}

	return s.fold(response.Results), nil
}

func (s *OpenAIScorer) send(ctx context.Context, jsonData []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.URL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create moderation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send moderation request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read moderation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("moderation API returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// fold unions flags and keeps the max score per category across all results.
func (s *OpenAIScorer) fold(results []moderationResult) domain.ModerationScore {
	score := domain.NeutralModerationScore(false)
	for _, result := range results {
		for name, flagged := range result.Categories {
			category, ok := categoryMapping[name]
			if !ok {
				continue
			}
			if flagged {
				score.Categories[category] = true
			}
		}
		for name, value := range result.CategoryScores {
			category, ok := categoryMapping[name]
			if !ok {
				continue
			}
			if value > score.CategoryScores[category] {
				score.CategoryScores[category] = value
			}
		}
	}
	return score
}
