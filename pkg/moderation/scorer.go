// Package moderation wraps the external harmful-content scorer behind a
// fixed category set, with a neutral fail-open fallback.
package moderation

import (
	"context"

	"github.com/Cleareds/plantspack-sub002/pkg/domain"
)

// Scorer scores a piece of content against the fixed harmful-content
// categories.
type Scorer interface {
	Score(ctx context.Context, input Input) (domain.ModerationScore, error)
}

// Input is the content handed to the scorer. ImageURL is optional.
type Input struct {
	Content  string
	ImageURL string
}
