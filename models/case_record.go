package models

// CaseRecord represents a single candidate legal authority (case, statute,
// or regulation) surfaced by a search provider. Heterogeneous provider
// payloads are normalized into this shape at the provider boundary.
type CaseRecord struct {
	Identifier     string  `json:"id"`
	Name           string  `json:"name"`
	Court          string  `json:"court"`
	Date           string  `json:"date"`
	Snippet        string  `json:"snippet"`
	Jurisdiction   string  `json:"jurisdiction"`
	Citation       string  `json:"citation,omitempty"`
	URL            string  `json:"url,omitempty"`
	Source         string  `json:"source"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Provenance tags used by the search providers.
const (
	SourceOfficialReporter = "official-reporter"
	SourceStatuteDB        = "statute-db"
	SourceDemo             = "demo"
)
