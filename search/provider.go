package search

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/chinesepowered/appliedai/models"
)

// Provider is a single upstream legal-search source. Implementations must
// normalize their payloads into models.CaseRecord before returning.
type Provider interface {
	Name() string
	Search(ctx context.Context, query, jurisdiction string) ([]models.CaseRecord, error)
}

const defaultCallTimeout = 10 * time.Second

// Searcher fans search terms out to every configured provider and collects
// whatever comes back into one candidate list.
type Searcher struct {
	providers []Provider
	timeout   time.Duration
}

// NewSearcher creates a searcher with a per-call timeout for provider requests.
func NewSearcher(timeout time.Duration, providers ...Provider) *Searcher {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &Searcher{providers: providers, timeout: timeout}
}

// Collect issues one call per (provider, term) pair concurrently, each with
// its own timeout. A call that fails or times out contributes an empty set.
// Identical (provider, term) pairs are only issued once per collect pass.
// Results are flattened in (provider, term) order so downstream ranking sees
// a deterministic candidate order.
func (s *Searcher) Collect(ctx context.Context, terms []string, jurisdiction string) []models.CaseRecord {
	type call struct {
		provider Provider
		term     string
	}

	calls := make([]call, 0, len(s.providers)*len(terms))
	issued := make(map[string]struct{})
	for _, p := range s.providers {
		for _, term := range terms {
			if term == "" {
				continue
			}
			key := p.Name() + "\x00" + term
			if _, dup := issued[key]; dup {
				continue
			}
			issued[key] = struct{}{}
			calls = append(calls, call{provider: p, term: term})
		}
	}

	results := make([][]models.CaseRecord, len(calls))
	var wg sync.WaitGroup
	for i, c := range calls {
		wg.Add(1)
		go func(i int, c call) {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			records, err := c.provider.Search(callCtx, c.term, jurisdiction)
			if err != nil {
				log.Printf("Warning: %s search for %q failed: %v. Continuing without its results.",
					c.provider.Name(), c.term, err)
				return
			}
			results[i] = records
		}(i, c)
	}
	wg.Wait()

	var candidates []models.CaseRecord
	for _, records := range results {
		candidates = append(candidates, records...)
	}
	return candidates
}
