// Package policy holds the static trust-gateway policy tables: per-action
// quota limits and the category precedence used when fusing moderation
// signals into a decision.
package policy

import (
	"time"

	"github.com/Cleareds/plantspack-sub002/pkg/domain"
)

// Protected action names. IP-scoped actions are checked before their
// user-scoped counterparts so bulk unauthenticated abuse is intercepted
// before the authenticated check runs.
const (
	ActionPostCreationIP    = "post_creation_ip"
	ActionPostCreation      = "post_creation"
	ActionCommentCreationIP = "comment_creation_ip"
	ActionCommentCreation   = "comment_creation"
	ActionContentAnalysisIP = "content_analysis_ip"
	ActionContentAnalysis   = "content_analysis_user"
)

// Limit pairs a request budget with its fixed counting window.
type Limit struct {
	Limit  int
	Window time.Duration
}

// DefaultLimits is the shipped quota table. Entries can be overridden from
// configuration; unknown actions fall back to nothing (no quota).
func DefaultLimits() map[string]Limit {
	return map[string]Limit{
		ActionPostCreationIP:    {Limit: 100, Window: time.Hour},
		ActionPostCreation:      {Limit: 20, Window: time.Hour},
		ActionCommentCreationIP: {Limit: 300, Window: time.Hour},
		ActionCommentCreation:   {Limit: 60, Window: time.Hour},
		ActionContentAnalysisIP: {Limit: 30, Window: time.Hour},
		ActionContentAnalysis:   {Limit: 10, Window: time.Hour},
	}
}

// Merge overlays configured overrides on the default quota table. Entries
// with a non-positive limit or window are ignored.
func Merge(overrides map[string]Limit) map[string]Limit {
	limits := DefaultLimits()
	for action, limit := range overrides {
		if limit.Limit > 0 && limit.Window > 0 {
			limits[action] = limit
		}
	}
	return limits
}

// BlockCategories force an outright block when flagged, before any other
// signal is considered.
func BlockCategories() []domain.Category {
	return []domain.Category{
		domain.CategorySexualMinors,
		domain.CategorySelfHarm,
		domain.CategoryGraphicViolence,
	}
}

// WarningScanOrder is the fixed order in which remaining categories are
// scanned when building content-warning labels.
func WarningScanOrder() []domain.Category {
	return []domain.Category{
		domain.CategorySexual,
		domain.CategoryHate,
		domain.CategoryHarassment,
		domain.CategoryViolence,
		domain.CategorySelfHarm,
	}
}

var warningLabels = map[domain.Category]string{
	domain.CategorySexual:          "Sexual content",
	domain.CategoryHate:            "Hateful content",
	domain.CategoryHarassment:      "Harassment",
	domain.CategoryViolence:        "Violent content",
	domain.CategorySelfHarm:        "Self-harm content",
	domain.CategoryGraphicViolence: "Graphic violence",
	domain.CategorySexualMinors:    "Sexual content involving minors",
}

// WarningLabel returns the human-readable label for a category.
func WarningLabel(category domain.Category) string {
	return warningLabels[category]
}

// DomainWarningLabel is appended when the caller-supplied domain detector or
// the classifier flags content that goes against community guidelines.
const DomainWarningLabel = "Content conflicting with community guidelines"
