package domain

// DecisionAction is the final verdict for a submission.
type DecisionAction string

const (
	ActionAllow          DecisionAction = "allow"
	ActionContentWarning DecisionAction = "content_warning"
	ActionBlock          DecisionAction = "block"
)

// Decision is the fused outcome the caller acts on. Content is persisted by
// the caller only when Action != ActionBlock.
type Decision struct {
	Action    DecisionAction `json:"action"`
	Warnings  []string       `json:"warnings"`
	Reasoning string         `json:"reasoning"`
}
