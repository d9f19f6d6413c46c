package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chinesepowered/appliedai/llm"
	"github.com/chinesepowered/appliedai/models"
	"github.com/chinesepowered/appliedai/ranking"
	"github.com/chinesepowered/appliedai/search"
)

// ResearchService orchestrates one round of legal research: query
// expansion, source fan-out, ranking, and argument generation.
type ResearchService struct {
	searcher  *search.Searcher
	expander  *search.QueryExpander
	generator llm.Generator
	maxDepth  int
}

// ResearchServiceOption is a functional option for ResearchService.
type ResearchServiceOption func(*ResearchService)

// WithSearcher sets the provider fan-out searcher.
func WithSearcher(searcher *search.Searcher) ResearchServiceOption {
	return func(s *ResearchService) {
		s.searcher = searcher
	}
}

// WithQueryExpander sets the query expander.
func WithQueryExpander(expander *search.QueryExpander) ResearchServiceOption {
	return func(s *ResearchService) {
		s.expander = expander
	}
}

// WithGenerator sets the text-completion service.
func WithGenerator(generator llm.Generator) ResearchServiceOption {
	return func(s *ResearchService) {
		s.generator = generator
	}
}

// WithMaxDepth sets the default recursion ceiling for research nodes.
func WithMaxDepth(depth int) ResearchServiceOption {
	return func(s *ResearchService) {
		s.maxDepth = depth
	}
}

// NewResearchService creates a new research service.
func NewResearchService(opts ...ResearchServiceOption) *ResearchService {
	s := &ResearchService{maxDepth: 2}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrEmptyQuery       = errors.New("query is required")
	ErrMaxDepthExceeded = errors.New("research depth exceeds the maximum")
)

const (
	primaryConfidence = 0.85
	finalConfidence   = 0.92
	maxOpposingCases  = 4
	maxPromptCases    = 3
)

type argumentType string

const (
	argumentPrimary         argumentType = "primary"
	argumentOpposition      argumentType = "opposition"
	argumentCounterRebuttal argumentType = "counter-rebuttal"
)

// ResearchRequest represents a request to build one research node.
type ResearchRequest struct {
	Query        string
	Jurisdiction string
	Depth        int
	MaxDepth     int
}

// ResearchResult represents the result of building a research node.
type ResearchResult struct {
	Node       *models.ResearchNode
	Memorandum string
}

// SearchRequest represents a ranked-search-only request.
type SearchRequest struct {
	Query        string
	Jurisdiction string
}

// SearchResult represents the result of a ranked search.
type SearchResult struct {
	Cases []models.CaseRecord
}

// SearchCases expands the query, fans it out to every source, and returns
// the ranked, deduplicated, capped candidate list.
func (s *ResearchService) SearchCases(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if s.searcher == nil {
		return nil, errors.New("searcher not set")
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}

	terms := s.expander.Expand(ctx, req.Query, req.Jurisdiction)
	candidates := s.searcher.Collect(ctx, terms, req.Jurisdiction)
	cases := ranking.Rank(req.Query, req.Jurisdiction, candidates)

	return &SearchResult{Cases: cases}, nil
}

// Research builds one research node: a primary IRAC argument from the
// top-ranked supporting cases, an opposing-counsel analysis from contrary
// authorities, and a counter-rebuttal, plus an assembled memorandum.
func (s *ResearchService) Research(ctx context.Context, req ResearchRequest) (*ResearchResult, error) {
	if s.searcher == nil {
		return nil, errors.New("searcher not set")
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}

	maxDepth := req.MaxDepth
	if maxDepth <= 0 {
		maxDepth = s.maxDepth
	}
	if req.Depth >= maxDepth {
		return nil, ErrMaxDepthExceeded
	}

	// 1. Expand the query and collect supporting candidates.
	terms := s.expander.Expand(ctx, req.Query, req.Jurisdiction)
	candidates := s.searcher.Collect(ctx, terms, req.Jurisdiction)
	primaryCases := ranking.Rank(req.Query, req.Jurisdiction, candidates)

	// 2. Generate the primary argument.
	primaryText := s.generateArgument(ctx, req.Query, primaryCases, argumentPrimary)

	// 3. Search for contrary authority and rank it separately.
	opposingQuery := "contrary authority " + req.Query
	opposingCandidates := s.searcher.Collect(ctx, []string{opposingQuery}, req.Jurisdiction)
	opposingCases := ranking.Rank(opposingQuery, req.Jurisdiction, opposingCandidates)
	if len(opposingCases) > maxOpposingCases {
		opposingCases = opposingCases[:maxOpposingCases]
	}

	// 4. Generate the opposition argument and the counter-rebuttal.
	oppositionText := s.generateArgument(ctx, req.Query, opposingCases, argumentOpposition)
	rebuttalText := s.generateArgument(ctx, req.Query, primaryCases, argumentCounterRebuttal)

	threat := models.ThreatLevelMedium
	if len(opposingCases) > 2 {
		threat = models.ThreatLevelHigh
	}

	node := &models.ResearchNode{
		ID:           uuid.New(),
		Query:        req.Query,
		Jurisdiction: req.Jurisdiction,
		Depth:        req.Depth,
		Timestamp:    time.Now().UTC(),
		PrimaryArgument: models.PrimaryArgument{
			Text:            primaryText,
			SupportingCases: primaryCases,
			Confidence:      primaryConfidence,
		},
		Opposition: models.Opposition{
			Text:          oppositionText,
			OpposingCases: opposingCases,
			ThreatLevel:   threat,
		},
		CounterRebuttal: models.CounterRebuttal{
			Text:                 rebuttalText,
			StrengthenedPosition: true,
			FinalConfidence:      finalConfidence,
		},
		Expandable:        req.Depth < maxDepth-1,
		CaseStrengthScore: caseStrength(primaryCases, opposingCases),
	}

	return &ResearchResult{
		Node:       node,
		Memorandum: s.assembleMemorandum(req, node),
	}, nil
}

// generateArgument renders the prompt for the requested argument type and
// calls the text-completion service. When generation fails the original
// demo's fallback text is returned so the research node stays usable.
func (s *ResearchService) generateArgument(
	ctx context.Context,
	query string,
	cases []models.CaseRecord,
	argType argumentType,
) string {
	fallback := fmt.Sprintf("[Fallback] Legal analysis for %s based on %d relevant cases.", query, len(cases))

	if s.generator == nil {
		return fallback
	}

	prompt, temperature := buildArgumentPrompt(query, cases, argType)
	text, err := s.generator.Generate(ctx, prompt, temperature)
	if err != nil {
		log.Printf("Warning: %s argument generation failed: %v. Using fallback text.", argType, err)
		return fallback
	}
	return text
}

// buildCaseContext formats the top cases into the context block shared by
// all three argument prompts.
func buildCaseContext(cases []models.CaseRecord) string {
	var builder strings.Builder
	for i, c := range cases {
		if i >= maxPromptCases {
			break
		}
		snippet := c.Snippet
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}
		builder.WriteString(fmt.Sprintf("Case %d: %s (%s)\n", i+1, c.Name, c.Citation))
		builder.WriteString(fmt.Sprintf("Court: %s\n", c.Court))
		builder.WriteString(fmt.Sprintf("Key Point: %s\n", snippet))
		if c.URL != "" {
			builder.WriteString(fmt.Sprintf("URL: %s\n", c.URL))
		}
		builder.WriteString("\n")
	}
	return builder.String()
}

func buildArgumentPrompt(query string, cases []models.CaseRecord, argType argumentType) (string, float32) {
	caseContext := buildCaseContext(cases)

	switch argType {
	case argumentOpposition:
		return fmt.Sprintf(`You are opposing counsel finding weaknesses in the claimant's argument about: %s

Based on these contrary authorities:
%s
Draft a counter-argument that:
1. Identifies the strongest opposing legal precedent
2. Distinguishes or undermines the claimant's position
3. Cites specific case law that favors the opposing party
4. Points out factual or legal gaps in the claimant's argument

Be aggressive but professional. Under 250 words.`, query, caseContext), 0.3

	case argumentCounterRebuttal:
		return fmt.Sprintf(`You are strengthening the original argument against opposition. Query: %s

Using these supporting authorities:
%s
Create a counter-rebuttal that:
1. Addresses the opposition's strongest points
2. Distinguishes contrary cases or shows they're not controlling
3. Reinforces your original argument with additional authority
4. Anticipates and preempts further attacks

Make it bulletproof. Under 250 words.`, query, caseContext), 0.3

	default:
		return fmt.Sprintf(`You are a skilled attorney drafting a legal argument. Based on the following cases, create a strong primary argument for: %s

Available Cases:
%s
Structure your response as a clear IRAC analysis:
1. Issue: What is the legal question?
2. Rule: What legal principles apply (cite the cases)?
3. Application: How do the facts apply to the law?
4. Conclusion: What should the outcome be?

Make it persuasive and cite specific case law. Keep it under 300 words.`, query, caseContext), 0.2
	}
}

// caseStrength is the demo's headline number: more (and less contested)
// supporting authority moves it up from a neutral baseline.
func caseStrength(primary, opposing []models.CaseRecord) int {
	strength := 50 + 5*len(primary) - 3*len(opposing)
	if strength > 95 {
		strength = 95
	}
	if strength < 20 {
		strength = 20
	}
	return strength
}

// assembleMemorandum combines the node's arguments and authorities into a
// plain-text legal memorandum.
func (s *ResearchService) assembleMemorandum(req ResearchRequest, node *models.ResearchNode) string {
	var builder strings.Builder

	builder.WriteString("LEGAL RESEARCH MEMORANDUM\n\n")

	builder.WriteString("QUESTION PRESENTED\n")
	builder.WriteString(req.Query)
	if req.Jurisdiction != "" {
		builder.WriteString(fmt.Sprintf(" (jurisdiction: %s)", req.Jurisdiction))
	}
	builder.WriteString("\n\n")

	builder.WriteString("I. AUTHORITIES REVIEWED\n")
	if len(node.PrimaryArgument.SupportingCases) == 0 {
		builder.WriteString("No supporting authorities were located.\n")
	}
	for _, c := range node.PrimaryArgument.SupportingCases {
		builder.WriteString(fmt.Sprintf("- %s", c.Name))
		if c.Citation != "" {
			builder.WriteString(fmt.Sprintf(", %s", c.Citation))
		}
		if c.Court != "" {
			builder.WriteString(fmt.Sprintf(" (%s", c.Court))
			if c.Date != "" {
				builder.WriteString(fmt.Sprintf(", %s", c.Date))
			}
			builder.WriteString(")")
		}
		builder.WriteString("\n")
	}
	builder.WriteString("\n")

	builder.WriteString("II. ANALYSIS\n")
	builder.WriteString(node.PrimaryArgument.Text)
	builder.WriteString("\n\n")

	builder.WriteString("III. OPPOSING AUTHORITY ASSESSMENT\n")
	builder.WriteString(fmt.Sprintf("Threat level: %s\n", node.Opposition.ThreatLevel))
	builder.WriteString(node.Opposition.Text)
	builder.WriteString("\n\n")

	builder.WriteString("IV. COUNTER-REBUTTAL\n")
	builder.WriteString(node.CounterRebuttal.Text)
	builder.WriteString("\n\n")

	builder.WriteString("V. CONCLUSION\n")
	builder.WriteString(fmt.Sprintf(
		"Based on %d authorities reviewed, the position presents a case strength of %d/100.\n",
		node.TotalCasesAnalyzed(), node.CaseStrengthScore))

	return builder.String()
}
