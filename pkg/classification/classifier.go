// Package classification wraps the external semantic classifier with a
// deterministic precedence policy and a reduced-fidelity local fallback.
//
// The precedence tiers, evaluated in order with each tier short-circuiting
// the ones below:
//
//  1. Transformation narratives are always allowed. A past negative stance
//     resolving into a present positive one ("I used to eat meat every day,
//     but now I love being vegan") never recommends a block, regardless of
//     which keywords appear in the past-tense portion.
//  2. Present-tense promotion of animal-product consumption is flagged,
//     unless quoted inside a tier-1 narrative.
//  3. Present-tense hostility toward any group is flagged, with the same
//     tier-1 exception. Educational content and genuine questions are never
//     flagged by this tier.
package classification

import (
	"context"

	"github.com/Cleareds/plantspack-sub002/pkg/domain"
)

// Classifier produces a semantic verdict for submitted text.
type Classifier interface {
	Classify(ctx context.Context, content string) (domain.ClassificationResult, error)
}
