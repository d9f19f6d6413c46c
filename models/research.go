package models

import (
	"time"

	"github.com/google/uuid"
)

// ThreatLevel classifies how dangerous a set of opposing authorities is
// to the primary position.
type ThreatLevel string

const (
	ThreatLevelHigh   ThreatLevel = "HIGH"
	ThreatLevelMedium ThreatLevel = "MEDIUM"
)

// PrimaryArgument is the affirmative IRAC analysis built from the
// top-ranked supporting cases.
type PrimaryArgument struct {
	Text            string       `json:"text"`
	SupportingCases []CaseRecord `json:"supporting_cases"`
	Confidence      float64      `json:"confidence"`
}

// Opposition is the adversarial "opposing counsel" analysis built from
// contrary authorities.
type Opposition struct {
	Text          string       `json:"text"`
	OpposingCases []CaseRecord `json:"opposing_cases"`
	ThreatLevel   ThreatLevel  `json:"threat_level"`
}

// CounterRebuttal strengthens the original position against the opposition.
type CounterRebuttal struct {
	Text                 string  `json:"text"`
	StrengthenedPosition bool    `json:"strengthened_position"`
	FinalConfidence      float64 `json:"final_confidence"`
}

// ResearchNode is one round of research for a query: primary argument,
// opposition, and counter-rebuttal, with the cases each side relied on.
type ResearchNode struct {
	ID                uuid.UUID       `json:"id"`
	Query             string          `json:"query"`
	Jurisdiction      string          `json:"jurisdiction,omitempty"`
	Depth             int             `json:"depth"`
	Timestamp         time.Time       `json:"timestamp"`
	PrimaryArgument   PrimaryArgument `json:"primary_argument"`
	Opposition        Opposition      `json:"opposition"`
	CounterRebuttal   CounterRebuttal `json:"counter_rebuttal"`
	Expandable        bool            `json:"expandable"`
	CaseStrengthScore int             `json:"case_strength_score"`
}

// TotalCasesAnalyzed counts the authorities consulted for this node.
func (n *ResearchNode) TotalCasesAnalyzed() int {
	return len(n.PrimaryArgument.SupportingCases) + len(n.Opposition.OpposingCases)
}
