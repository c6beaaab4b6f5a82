// Package decision fuses the classifier verdict, the moderation score and an
// optional caller-supplied domain detection into a single outcome.
package decision

import (
	"fmt"
	"strings"

	"github.com/Cleareds/plantspack-sub002/pkg/domain"
	"github.com/Cleareds/plantspack-sub002/pkg/policy"
)

// Evaluate is a total, side-effect-free function over its inputs: identical
// inputs always yield the identical decision. Rules are ordered, first match
// wins.
func Evaluate(
	classification domain.ClassificationResult,
	moderation domain.ModerationScore,
	detection *domain.DomainDetection,
) domain.Decision {
	// Rule 1: the unconditional-block categories.
	var blocked []string
	for _, category := range policy.BlockCategories() {
		if moderation.Categories[category] {
			blocked = append(blocked, policy.WarningLabel(category))
		}
	}
	if len(blocked) > 0 {
		return domain.Decision{
			Action:    domain.ActionBlock,
			Warnings:  blocked,
			Reasoning: fmt.Sprintf("blocked for: %s", strings.Join(blocked, ", ")),
		}
	}

	// Rule 2: a medium or high domain detection blocks outright.
	if detection != nil && (detection.Severity == domain.SeverityHigh || detection.Severity == domain.SeverityMedium) {
		return domain.Decision{
			Action:    domain.ActionBlock,
			Warnings:  []string{policy.DomainWarningLabel},
			Reasoning: fmt.Sprintf("domain detection severity %s", detection.Severity),
		}
	}

	// Rule 3: remaining moderation flags, a low-severity detection or a
	// classifier block recommendation each warrant a content warning. The
	// warning sets are a union, scanned in the fixed category order first.
	var warnings []string
	for _, category := range policy.WarningScanOrder() {
		if moderation.Categories[category] {
			warnings = append(warnings, policy.WarningLabel(category))
		}
	}
	lowSeverity := detection != nil && detection.Severity == domain.SeverityLow
	if lowSeverity || classification.RecommendedBlock {
		warnings = append(warnings, policy.DomainWarningLabel)
	}
	if len(warnings) > 0 {
		return domain.Decision{
			Action:    domain.ActionContentWarning,
			Warnings:  warnings,
			Reasoning: warningReasoning(classification, lowSeverity, len(warnings)),
		}
	}

	// Rule 4: nothing flagged.
	return domain.Decision{
		Action:    domain.ActionAllow,
		Warnings:  []string{},
		Reasoning: classification.Reasoning,
	}
}

func warningReasoning(classification domain.ClassificationResult, lowSeverity bool, count int) string {
	var parts []string
	if count > 0 {
		parts = append(parts, fmt.Sprintf("%d warning signal(s)", count))
	}
	if classification.RecommendedBlock {
		reason := classification.FlaggedReason
		if reason == "" {
			reason = classification.Reasoning
		}
		if reason != "" {
			parts = append(parts, reason)
		}
	}
	if lowSeverity {
		parts = append(parts, "low-severity domain detection")
	}
	return strings.Join(parts, "; ")
}
