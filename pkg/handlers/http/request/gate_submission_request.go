package request

// DomainDetection mirrors the caller-supplied detector signal.
type DomainDetection struct {
	Detected bool     `json:"detected"`
	Severity string   `json:"severity"`
	Matches  []string `json:"matches"`
}

// GateSubmissionRequest is a content submission to run through the full
// write-path gate. SubmissionType picks the quota actions; it defaults to
// "post".
type GateSubmissionRequest struct {
	Content         string           `json:"content"`
	ImageURL        string           `json:"imageUrl,omitempty"`
	SubmissionType  string           `json:"submissionType,omitempty"`
	DomainDetection *DomainDetection `json:"domainDetection,omitempty"`
}
