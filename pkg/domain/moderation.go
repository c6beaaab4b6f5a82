package domain

// Category is one of the fixed harmful-content categories the scorer reports on.
type Category string

const (
	CategorySexual          Category = "sexual"
	CategoryHate            Category = "hate"
	CategoryHarassment      Category = "harassment"
	CategoryViolence        Category = "violence"
	CategorySelfHarm        Category = "self_harm"
	CategoryGraphicViolence Category = "graphic_violence"
	CategorySexualMinors    Category = "sexual_minors"
)

// Categories returns the full category set in its canonical scan order.
func Categories() []Category {
	return []Category{
		CategorySexual,
		CategoryHate,
		CategoryHarassment,
		CategoryViolence,
		CategorySelfHarm,
		CategoryGraphicViolence,
		CategorySexualMinors,
	}
}

// ModerationScore carries per-category flags and scores for a piece of content.
type ModerationScore struct {
	Categories     map[Category]bool    `json:"categories"`
	CategoryScores map[Category]float64 `json:"categoryScores"`
	Degraded       bool                 `json:"degraded"`
}

// Flagged reports whether any category is set.
func (m ModerationScore) Flagged() bool {
	for _, flagged := range m.Categories {
		if flagged {
			return true
		}
	}
	return false
}

// NeutralModerationScore returns an all-clear score. It is the scorer's
// fail-open value when the external service is unreachable.
func NeutralModerationScore(degraded bool) ModerationScore {
	categories := make(map[Category]bool, len(Categories()))
	scores := make(map[Category]float64, len(Categories()))
	for _, c := range Categories() {
		categories[c] = false
		scores[c] = 0.0
	}
	return ModerationScore{
		Categories:     categories,
		CategoryScores: scores,
		Degraded:       degraded,
	}
}
