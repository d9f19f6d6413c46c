package search

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/chinesepowered/appliedai/llm"
)

const maxExpansionTerms = 4

const expansionPrompt = `You are a legal research assistant. Given the research question below, list up to %d short search terms (2-5 words each) that would surface additional relevant authorities.

Return one term per line with no numbering or commentary.

Question: %s
Jurisdiction: %s`

// QueryExpander asks the language model for additional short search terms
// for a research question. It is best-effort: on any failure, or when no
// generator is configured, the original query is returned unchanged.
type QueryExpander struct {
	generator llm.Generator
}

// NewQueryExpander creates an expander backed by the given generator, which
// may be nil.
func NewQueryExpander(generator llm.Generator) *QueryExpander {
	return &QueryExpander{generator: generator}
}

// Expand returns the original query followed by up to maxExpansionTerms
// model-suggested terms.
func (e *QueryExpander) Expand(ctx context.Context, query, jurisdiction string) []string {
	if e == nil || e.generator == nil {
		return []string{query}
	}

	prompt := fmt.Sprintf(expansionPrompt, maxExpansionTerms, query, jurisdiction)
	out, err := e.generator.Generate(ctx, prompt, 0.4)
	if err != nil {
		log.Printf("Warning: query expansion failed: %v. Searching with the original query only.", err)
		return []string{query}
	}

	terms := []string{query}
	seen := map[string]struct{}{strings.ToLower(query): {}}
	for _, term := range parseTerms(out) {
		key := strings.ToLower(term)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		terms = append(terms, term)
		if len(terms) > maxExpansionTerms {
			break
		}
	}
	return terms
}

// parseTerms extracts clean search terms from model output, tolerating
// numbering, bullets, and comma-separated lists.
func parseTerms(out string) []string {
	var terms []string
	fields := strings.FieldsFunc(out, func(r rune) bool {
		return r == '\n' || r == ','
	})
	for _, field := range fields {
		term := strings.TrimSpace(field)
		term = strings.TrimLeft(term, "-* ")
		term = stripNumbering(term)
		term = strings.Trim(term, `"'`)
		if term == "" || len(term) > 60 {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// stripNumbering removes a leading "1." or "1)" list marker without eating
// terms that legitimately start with a number, like "21 day deadline".
func stripNumbering(term string) string {
	i := 0
	for i < len(term) && term[i] >= '0' && term[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(term) || (term[i] != '.' && term[i] != ')') {
		return term
	}
	rest := term[i+1:]
	if rest != "" && rest[0] != ' ' {
		return term
	}
	return strings.TrimSpace(rest)
}
