package domain

import "fmt"

// Severity grades a caller-supplied domain detection.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func ParseSeverity(value string) (Severity, error) {
	switch s := Severity(value); s {
	case SeverityNone, SeverityLow, SeverityMedium, SeverityHigh:
		return s, nil
	default:
		return "", fmt.Errorf("unknown severity %q", value)
	}
}

// DomainDetection is a pre-computed signal supplied by the caller, produced
// outside this service. It never triggers network calls here.
type DomainDetection struct {
	Detected bool     `json:"detected"`
	Severity Severity `json:"severity"`
	Matches  []string `json:"matches"`
}
