package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chinesepowered/appliedai/models"
	"github.com/chinesepowered/appliedai/search"
)

type fakeProvider struct {
	name    string
	records []models.CaseRecord
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Search(_ context.Context, _, _ string) ([]models.CaseRecord, error) {
	return p.records, nil
}

// scriptedGenerator routes on a distinctive substring of each prompt so one
// fake can answer all three argument types plus query expansion.
type scriptedGenerator struct {
	err     error
	prompts []string
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string, _ float32) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	switch {
	case strings.Contains(prompt, "IRAC"):
		return "primary analysis", nil
	case strings.Contains(prompt, "opposing counsel"):
		return "opposition analysis", nil
	case strings.Contains(prompt, "counter-rebuttal"):
		return "rebuttal analysis", nil
	default:
		return "unlawful detainer", nil
	}
}

func twoCases() []models.CaseRecord {
	return []models.CaseRecord{
		{
			Identifier: "c1",
			Name:       "Green v. Superior Court",
			Court:      "CA Supreme Court",
			Date:       "2023-03-15",
			Snippet:    "Security deposits must be returned within 21 days.",
			Citation:   "2023 Cal. LEXIS 1234",
		},
		{
			Identifier: "c2",
			Name:       "Tenant Rights Coalition v. Metro Housing",
			Court:      "9th Circuit",
			Date:       "2022-11-08",
			Snippet:    "Landlords bear the burden of proof for deductions.",
			Citation:   "2022 F.3d 567",
		},
	}
}

func newTestService(gen *scriptedGenerator, records []models.CaseRecord) *ResearchService {
	searcher := search.NewSearcher(time.Second, &fakeProvider{name: "demo", records: records})
	opts := []ResearchServiceOption{WithSearcher(searcher), WithMaxDepth(2)}
	if gen != nil {
		opts = append(opts, WithGenerator(gen))
	}
	return NewResearchService(opts...)
}

func TestResearch_EmptyQuery(t *testing.T) {
	svc := newTestService(nil, nil)

	_, err := svc.Research(context.Background(), ResearchRequest{Query: "   "})
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestResearch_DepthAtCeiling(t *testing.T) {
	svc := newTestService(nil, nil)

	_, err := svc.Research(context.Background(), ResearchRequest{
		Query: "security deposit", Depth: 2, MaxDepth: 2,
	})
	assert.ErrorIs(t, err, ErrMaxDepthExceeded)

	// Default ceiling applies when the request leaves MaxDepth unset.
	_, err = svc.Research(context.Background(), ResearchRequest{
		Query: "security deposit", Depth: 5,
	})
	assert.ErrorIs(t, err, ErrMaxDepthExceeded)
}

func TestResearch_SearcherRequired(t *testing.T) {
	svc := NewResearchService()

	_, err := svc.Research(context.Background(), ResearchRequest{Query: "security deposit"})
	require.Error(t, err)

	_, err = svc.SearchCases(context.Background(), SearchRequest{Query: "security deposit"})
	require.Error(t, err)
}

func TestResearch_BuildsNode(t *testing.T) {
	gen := &scriptedGenerator{}
	svc := newTestService(gen, twoCases())

	result, err := svc.Research(context.Background(), ResearchRequest{
		Query:        "California landlord security deposit",
		Jurisdiction: "ca",
	})

	require.NoError(t, err)
	node := result.Node
	require.NotNil(t, node)

	assert.NotEqual(t, uuid.Nil, node.ID)
	assert.Equal(t, "California landlord security deposit", node.Query)
	assert.Equal(t, 0, node.Depth)
	assert.False(t, node.Timestamp.IsZero())

	assert.Equal(t, "primary analysis", node.PrimaryArgument.Text)
	assert.InDelta(t, 0.85, node.PrimaryArgument.Confidence, 1e-9)
	assert.Len(t, node.PrimaryArgument.SupportingCases, 2)

	assert.Equal(t, "opposition analysis", node.Opposition.Text)
	assert.Equal(t, models.ThreatLevelMedium, node.Opposition.ThreatLevel)
	assert.Len(t, node.Opposition.OpposingCases, 2)

	assert.Equal(t, "rebuttal analysis", node.CounterRebuttal.Text)
	assert.True(t, node.CounterRebuttal.StrengthenedPosition)
	assert.InDelta(t, 0.92, node.CounterRebuttal.FinalConfidence, 1e-9)

	assert.True(t, node.Expandable, "depth 0 of 2 leaves room for one more round")
	assert.Equal(t, 54, node.CaseStrengthScore)
	assert.Equal(t, 4, node.TotalCasesAnalyzed())
}

func TestResearch_DeepestNodeNotExpandable(t *testing.T) {
	svc := newTestService(nil, twoCases())

	result, err := svc.Research(context.Background(), ResearchRequest{
		Query: "security deposit", Depth: 1, MaxDepth: 2,
	})

	require.NoError(t, err)
	assert.False(t, result.Node.Expandable)
}

func TestResearch_ThreatLevelHigh(t *testing.T) {
	records := []models.CaseRecord{
		{Identifier: "1", Name: "Case One"},
		{Identifier: "2", Name: "Case Two"},
		{Identifier: "3", Name: "Case Three"},
		{Identifier: "4", Name: "Case Four"},
		{Identifier: "5", Name: "Case Five"},
	}
	svc := newTestService(nil, records)

	result, err := svc.Research(context.Background(), ResearchRequest{Query: "security deposit"})

	require.NoError(t, err)
	assert.Equal(t, models.ThreatLevelHigh, result.Node.Opposition.ThreatLevel)
	assert.Len(t, result.Node.Opposition.OpposingCases, maxOpposingCases)
}

func TestResearch_GeneratorFailureUsesFallback(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("quota exceeded")}
	svc := newTestService(gen, twoCases())

	result, err := svc.Research(context.Background(), ResearchRequest{Query: "security deposit"})

	require.NoError(t, err)
	assert.Equal(t,
		"[Fallback] Legal analysis for security deposit based on 2 relevant cases.",
		result.Node.PrimaryArgument.Text)
	assert.True(t, strings.HasPrefix(result.Node.Opposition.Text, "[Fallback]"))
	assert.True(t, strings.HasPrefix(result.Node.CounterRebuttal.Text, "[Fallback]"))
}

func TestResearch_NoGeneratorUsesFallback(t *testing.T) {
	svc := newTestService(nil, twoCases())

	result, err := svc.Research(context.Background(), ResearchRequest{Query: "security deposit"})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Node.PrimaryArgument.Text, "[Fallback]"))
}

func TestResearch_MemorandumSections(t *testing.T) {
	gen := &scriptedGenerator{}
	svc := newTestService(gen, twoCases())

	result, err := svc.Research(context.Background(), ResearchRequest{
		Query:        "security deposit return",
		Jurisdiction: "ca",
	})

	require.NoError(t, err)
	memo := result.Memorandum
	assert.Contains(t, memo, "LEGAL RESEARCH MEMORANDUM")
	assert.Contains(t, memo, "QUESTION PRESENTED")
	assert.Contains(t, memo, "security deposit return (jurisdiction: ca)")
	assert.Contains(t, memo, "I. AUTHORITIES REVIEWED")
	assert.Contains(t, memo, "Green v. Superior Court, 2023 Cal. LEXIS 1234")
	assert.Contains(t, memo, "II. ANALYSIS\nprimary analysis")
	assert.Contains(t, memo, "Threat level: MEDIUM")
	assert.Contains(t, memo, "IV. COUNTER-REBUTTAL\nrebuttal analysis")
	assert.Contains(t, memo, "case strength of 54/100")
}

func TestSearchCases_RanksAndDedupes(t *testing.T) {
	records := []models.CaseRecord{
		{Identifier: "dup-a", Name: "Jones v. Landlord Co", Jurisdiction: "ca"},
		{Identifier: "dup-b", Name: "Jones v. Landlord Co", Jurisdiction: "ca"},
		{Identifier: "off", Name: "Smith v. Bank Merger Corp"},
	}
	svc := newTestService(nil, records)

	result, err := svc.SearchCases(context.Background(), SearchRequest{
		Query:        "California landlord security deposit",
		Jurisdiction: "ca",
	})

	require.NoError(t, err)
	require.Len(t, result.Cases, 2)
	assert.Equal(t, "dup-a", result.Cases[0].Identifier)
	assert.Greater(t, result.Cases[0].RelevanceScore, result.Cases[1].RelevanceScore)
}

func TestSearchCases_EmptyQuery(t *testing.T) {
	svc := newTestService(nil, nil)

	_, err := svc.SearchCases(context.Background(), SearchRequest{Query: ""})
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestCaseStrength_Clamped(t *testing.T) {
	many := make([]models.CaseRecord, 20)
	assert.Equal(t, 95, caseStrength(many, nil))
	assert.Equal(t, 20, caseStrength(nil, many))
	assert.Equal(t, 50, caseStrength(nil, nil))
	assert.Equal(t, 54, caseStrength(many[:2], many[:2]))
}

func TestBuildCaseContext_TruncatesAndCaps(t *testing.T) {
	long := strings.Repeat("x", 300)
	cases := []models.CaseRecord{
		{Name: "A v. B", Citation: "1 U.S. 1", Court: "Supreme Court", Snippet: long, URL: "http://example.com/a"},
		{Name: "C v. D"},
		{Name: "E v. F"},
		{Name: "G v. H"},
	}

	out := buildCaseContext(cases)

	assert.Contains(t, out, "Case 1: A v. B (1 U.S. 1)")
	assert.Contains(t, out, strings.Repeat("x", 200)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 201))
	assert.Contains(t, out, "URL: http://example.com/a")
	assert.Contains(t, out, "Case 3: E v. F")
	assert.NotContains(t, out, "G v. H")
}

func TestBuildArgumentPrompt_Temperatures(t *testing.T) {
	_, temp := buildArgumentPrompt("q", nil, argumentPrimary)
	assert.Equal(t, float32(0.2), temp)

	_, temp = buildArgumentPrompt("q", nil, argumentOpposition)
	assert.Equal(t, float32(0.3), temp)

	prompt, temp := buildArgumentPrompt("q", nil, argumentCounterRebuttal)
	assert.Equal(t, float32(0.3), temp)
	assert.Contains(t, prompt, "counter-rebuttal")
}
