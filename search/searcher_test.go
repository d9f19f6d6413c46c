package search

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chinesepowered/appliedai/models"
)

type stubProvider struct {
	name    string
	records []models.CaseRecord
	err     error
	delay   time.Duration
	calls   int32
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Search(ctx context.Context, _, _ string) ([]models.CaseRecord, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.delay):
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.records, nil
}

func TestCollect_FlattensInProviderTermOrder(t *testing.T) {
	first := &stubProvider{name: "first", records: []models.CaseRecord{
		{Identifier: "a1"}, {Identifier: "a2"},
	}}
	second := &stubProvider{name: "second", records: []models.CaseRecord{
		{Identifier: "b1"},
	}}
	s := NewSearcher(time.Second, first, second)

	candidates := s.Collect(context.Background(), []string{"deposit"}, "ca")

	require.Len(t, candidates, 3)
	assert.Equal(t, "a1", candidates[0].Identifier)
	assert.Equal(t, "a2", candidates[1].Identifier)
	assert.Equal(t, "b1", candidates[2].Identifier)
}

func TestCollect_FailingProviderContributesNothing(t *testing.T) {
	broken := &stubProvider{name: "broken", err: errors.New("upstream down")}
	healthy := &stubProvider{name: "healthy", records: []models.CaseRecord{{Identifier: "ok"}}}
	s := NewSearcher(time.Second, broken, healthy)

	candidates := s.Collect(context.Background(), []string{"deposit"}, "")

	require.Len(t, candidates, 1)
	assert.Equal(t, "ok", candidates[0].Identifier)
}

func TestCollect_DuplicateTermsIssuedOnce(t *testing.T) {
	p := &stubProvider{name: "p", records: []models.CaseRecord{{Identifier: "x"}}}
	s := NewSearcher(time.Second, p)

	candidates := s.Collect(context.Background(), []string{"deposit", "deposit", "deposit"}, "")

	assert.Equal(t, int32(1), atomic.LoadInt32(&p.calls))
	assert.Len(t, candidates, 1)
}

func TestCollect_SkipsEmptyTerms(t *testing.T) {
	p := &stubProvider{name: "p", records: []models.CaseRecord{{Identifier: "x"}}}
	s := NewSearcher(time.Second, p)

	candidates := s.Collect(context.Background(), []string{"", "deposit", ""}, "")

	assert.Equal(t, int32(1), atomic.LoadInt32(&p.calls))
	assert.Len(t, candidates, 1)
}

func TestCollect_SlowProviderTimesOut(t *testing.T) {
	slow := &stubProvider{name: "slow", delay: 500 * time.Millisecond,
		records: []models.CaseRecord{{Identifier: "late"}}}
	fast := &stubProvider{name: "fast", records: []models.CaseRecord{{Identifier: "ok"}}}
	s := NewSearcher(20*time.Millisecond, slow, fast)

	start := time.Now()
	candidates := s.Collect(context.Background(), []string{"deposit"}, "")

	assert.Less(t, time.Since(start), 400*time.Millisecond)
	require.Len(t, candidates, 1)
	assert.Equal(t, "ok", candidates[0].Identifier)
}

func TestCollect_NoTermsNoCalls(t *testing.T) {
	p := &stubProvider{name: "p"}
	s := NewSearcher(time.Second, p)

	candidates := s.Collect(context.Background(), nil, "")

	assert.Empty(t, candidates)
	assert.Equal(t, int32(0), atomic.LoadInt32(&p.calls))
}
