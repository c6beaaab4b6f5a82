package request

type ClassifyContentRequest struct {
	Content string `json:"content"`
}

type ModerateContentRequest struct {
	Content         string           `json:"content"`
	ImageURL        string           `json:"imageUrl,omitempty"`
	DomainDetection *DomainDetection `json:"domainDetection,omitempty"`
}
