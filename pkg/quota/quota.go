// Package quota implements durable, concurrency-safe fixed-window rate
// limiting for protected actions.
//
// Counting is fixed-window: a window starts at the first request for a key
// and the counter resets once it elapses. Bursts of up to roughly twice the
// limit can occur across a window boundary; this is a known tradeoff of the
// scheme, accepted for its single-round-trip atomicity.
package quota

import (
	"context"
	"time"
)

// Decision is the outcome of a single quota check.
type Decision struct {
	Allowed   bool          `json:"allowed"`
	Limit     int           `json:"limit"`
	Current   int64         `json:"current"`
	Remaining int64         `json:"remaining"`
	ResetIn   time.Duration `json:"resetIn"`
}

// Store is the atomic counter primitive behind every quota check. The
// read-increment-compare must be a single atomic round trip against the
// backing store; implementations must never read then write separately.
type Store interface {
	CheckAndIncrement(ctx context.Context, identifier, action string, limit int, window time.Duration) (Decision, error)
}

func decide(limit int, count int64, resetIn time.Duration) Decision {
	remaining := int64(limit) - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= int64(limit),
		Limit:     limit,
		Current:   count,
		Remaining: remaining,
		ResetIn:   resetIn,
	}
}
