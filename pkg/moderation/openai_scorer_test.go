package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/Cleareds/plantspack-sub002/pkg/domain"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHTTPClient struct {
	status  int
	body    string
	err     error
	lastReq *http.Request
	sent    []byte
}

func (c *stubHTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.lastReq = req
	if req.Body != nil {
		c.sent, _ = io.ReadAll(req.Body)
	}
	if c.err != nil {
		return nil, c.err
	}
	return &http.Response{
		StatusCode: c.status,
		Body:       io.NopCloser(bytes.NewBufferString(c.body)),
	}, nil
}

func newScorer(t *testing.T, client *stubHTTPClient) *OpenAIScorer {
	t.Helper()
	scorer, err := NewOpenAIScorer(logrus.New(), client, nil, Config{APIKey: "test-key"})
	require.NoError(t, err)
	return scorer
}

func TestNewOpenAIScorer_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIScorer(logrus.New(), nil, nil, Config{})
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
}

func TestScore_FoldsNativeCategories(t *testing.T) {
	client := &stubHTTPClient{status: http.StatusOK, body: `{
		"id": "modr-1",
		"results": [{
			"flagged": true,
			"categories": {
				"harassment": true,
				"harassment/threatening": false,
				"violence/graphic": true,
				"self-harm/intent": true
			},
			"category_scores": {
				"harassment": 0.4,
				"harassment/threatening": 0.9,
				"violence/graphic": 0.7,
				"self-harm/intent": 0.2
			}
		}]
	}`}
	scorer := newScorer(t, client)

	score, err := scorer.Score(context.Background(), Input{Content: "some text"})
	require.NoError(t, err)

	assert.True(t, score.Flagged())
	assert.True(t, score.Categories[domain.CategoryHarassment])
	assert.True(t, score.Categories[domain.CategoryGraphicViolence])
	assert.True(t, score.Categories[domain.CategorySelfHarm])
	assert.False(t, score.Categories[domain.CategorySexual])
	// Sub-categories collapse into their parent keeping the max score.
	assert.Equal(t, 0.9, score.CategoryScores[domain.CategoryHarassment])
	assert.False(t, score.Degraded)
}

func TestScore_UnknownCategoriesIgnored(t *testing.T) {
	client := &stubHTTPClient{status: http.StatusOK, body: `{
		"results": [{"flagged": true, "categories": {"illicit": true}, "category_scores": {"illicit": 0.8}}]
	}`}
	scorer := newScorer(t, client)

	score, err := scorer.Score(context.Background(), Input{Content: "some text"})
	require.NoError(t, err)
	assert.False(t, score.Flagged())
}

func TestScore_SendsBearerAuthAndImageInput(t *testing.T) {
	client := &stubHTTPClient{status: http.StatusOK, body: `{"results": []}`}
	scorer := newScorer(t, client)

	_, err := scorer.Score(context.Background(), Input{Content: "caption", ImageURL: "https://example.com/pic.jpg"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", client.lastReq.Header.Get("Authorization"))

	var request moderationRequest
	require.NoError(t, json.Unmarshal(client.sent, &request))
	require.Len(t, request.Input, 2)
	assert.Equal(t, "text", request.Input[0].Type)
	assert.Equal(t, "image_url", request.Input[1].Type)
	assert.Equal(t, "https://example.com/pic.jpg", request.Input[1].ImageURL.URL)
}

func TestScore_TransportErrorIsTransient(t *testing.T) {
	client := &stubHTTPClient{err: errors.New("connection refused")}
	scorer := newScorer(t, client)

	_, err := scorer.Score(context.Background(), Input{Content: "some text"})
	require.Error(t, err)

	var transient *domain.TransientServiceError
	require.ErrorAs(t, err, &transient)
	assert.Equal(t, "moderation scorer", transient.Dependency)
}

func TestScore_NonOKStatusIsTransient(t *testing.T) {
	client := &stubHTTPClient{status: http.StatusTooManyRequests, body: `{"error": "rate limited"}`}
	scorer := newScorer(t, client)

	_, err := scorer.Score(context.Background(), Input{Content: "some text"})
	require.Error(t, err)

	var transient *domain.TransientServiceError
	assert.ErrorAs(t, err, &transient)
}
