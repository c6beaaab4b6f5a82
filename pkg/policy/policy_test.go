package policy_test

import (
	"testing"
	"time"

	"github.com/Cleareds/plantspack-sub002/pkg/policy"
	"github.com/stretchr/testify/assert"
)

func TestMerge_OverridesDefaults(t *testing.T) {
	limits := policy.Merge(map[string]policy.Limit{
		policy.ActionPostCreation: {Limit: 5, Window: 10 * time.Minute},
	})

	assert.Equal(t, policy.Limit{Limit: 5, Window: 10 * time.Minute}, limits[policy.ActionPostCreation])
	// Untouched actions keep their defaults.
	assert.Equal(t, policy.Limit{Limit: 100, Window: time.Hour}, limits[policy.ActionPostCreationIP])
}

func TestMerge_IgnoresInvalidOverrides(t *testing.T) {
	limits := policy.Merge(map[string]policy.Limit{
		policy.ActionPostCreation:    {Limit: 0, Window: time.Hour},
		policy.ActionCommentCreation: {Limit: 10, Window: 0},
	})

	defaults := policy.DefaultLimits()
	assert.Equal(t, defaults[policy.ActionPostCreation], limits[policy.ActionPostCreation])
	assert.Equal(t, defaults[policy.ActionCommentCreation], limits[policy.ActionCommentCreation])
}

func TestMerge_AcceptsNewActions(t *testing.T) {
	limits := policy.Merge(map[string]policy.Limit{
		"report_creation": {Limit: 3, Window: time.Hour},
	})

	assert.Equal(t, policy.Limit{Limit: 3, Window: time.Hour}, limits["report_creation"])
}
