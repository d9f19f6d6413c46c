package ranking

import (
	"sort"
	"strconv"
	"strings"

	"github.com/chinesepowered/appliedai/models"
)

// MaxResults caps the ranked output for a single pass.
const MaxResults = 10

// Weight constants. Only the relative ordering of the categories matters:
// statutory-citation match > domain-term match > jurisdiction match >
// source/court bonuses > recency.
const (
	jurisdictionBonus     = 25.0
	denyListPenalty       = -50.0
	domainTermBonus       = 40.0
	domainMismatchPenalty = -30.0
	recencyBonus          = 5.0
	recencyFloorYear      = 2000
	modernFloorYear       = 2020
)

// denyList names practice areas that are clearly off-topic for the demo's
// target domain. Each matching term compounds.
var denyList = []string{
	"antitrust",
	"securities",
	"patent",
	"trademark",
	"insurance",
	"merger",
}

// domainTerms is the landlord-tenant allow-list. A term only scores when it
// appears in both the query and the candidate name.
var domainTerms = []string{
	"landlord",
	"tenant",
	"deposit",
	"lease",
	"eviction",
	"rent",
	"habitability",
}

// sourceWeights is the flat credibility bonus per provenance tag. Statute
// sources score highest, demo data lowest.
var sourceWeights = map[string]float64{
	models.SourceStatuteDB:        18,
	models.SourceOfficialReporter: 15,
	models.SourceDemo:             3,
}

// courtTiers is an ordered vocabulary of court levels; the first matching
// tier wins.
var courtTiers = []struct {
	term   string
	weight float64
}{
	{"supreme", 15},
	{"appellate", 10},
	{"court of appeal", 10},
	{"circuit", 10},
	{"superior", 5},
	{"district", 5},
	{"trial", 5},
}

// statutoryTerms lists distinguished legal tokens whose exact co-occurrence
// between query and candidate text is the strongest relevance signal.
var statutoryTerms = map[string]float64{
	"1950.5":       60,
	"1942":         55,
	"21 days":      45,
	"21-day":       45,
	"small claims": 45,
}

// Score computes the additive relevance heuristic for one candidate against
// a (query, jurisdiction) pair. Missing fields contribute nothing; the scale
// is unnormalized and only meaningful for relative ordering within one pass.
func Score(query, jurisdiction string, rec models.CaseRecord) float64 {
	q := strings.ToLower(query)
	name := strings.ToLower(rec.Name)
	text := name + " " + strings.ToLower(rec.Snippet)

	var score float64

	if jurisdiction != "" &&
		strings.Contains(strings.ToLower(rec.Jurisdiction), strings.ToLower(jurisdiction)) {
		score += jurisdictionBonus
	}

	for _, term := range denyList {
		if strings.Contains(name, term) {
			score += denyListPenalty
		}
	}

	queryInDomain := false
	nameMatchesDomain := false
	for _, term := range domainTerms {
		if !strings.Contains(q, term) {
			continue
		}
		queryInDomain = true
		if strings.Contains(name, term) {
			score += domainTermBonus
			nameMatchesDomain = true
		}
	}
	if queryInDomain && !nameMatchesDomain {
		score += domainMismatchPenalty
	}

	score += sourceWeights[rec.Source]

	court := strings.ToLower(rec.Court)
	for _, tier := range courtTiers {
		if strings.Contains(court, tier.term) {
			score += tier.weight
			break
		}
	}

	for term, bonus := range statutoryTerms {
		if strings.Contains(q, term) && strings.Contains(text, term) {
			score += bonus
		}
	}

	if year, ok := leadingYear(rec.Date); ok {
		if year >= recencyFloorYear {
			score += recencyBonus
		}
		if year >= modernFloorYear {
			score += recencyBonus
		}
	}

	return score
}

// Rank scores every candidate, drops duplicates by name (the first
// occurrence in fetch order wins), sorts descending by score with ties
// keeping their original relative order, and truncates to MaxResults.
// It never fails: malformed candidates simply score low.
func Rank(query, jurisdiction string, candidates []models.CaseRecord) []models.CaseRecord {
	ranked := make([]models.CaseRecord, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))

	for _, rec := range candidates {
		key := strings.ToLower(strings.TrimSpace(rec.Name))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		rec.RelevanceScore = Score(query, jurisdiction, rec)
		ranked = append(ranked, rec)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})

	if len(ranked) > MaxResults {
		ranked = ranked[:MaxResults]
	}
	return ranked
}

// leadingYear parses the leading 4-digit year from an ISO-like date string.
func leadingYear(date string) (int, bool) {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0, false
	}
	return year, true
}
