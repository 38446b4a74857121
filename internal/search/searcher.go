package search

import (
	"context"
	"errors"
)

// DefaultAcceptConfidence is the cutoff above which the best candidate
// for a query ends the provider chain early.
const DefaultAcceptConfidence = 0.8

// providerFunc is one international provider tier.
type providerFunc struct {
	name string
	call func(ctx context.Context, query string) ([]Metadata, error)
}

// Searcher runs the provider chain for one entry: the regional
// aggregator first, then the international providers in fixed
// priority. Construct once and inject into the pipeline.
type Searcher struct {
	client     *Client
	aggregator Aggregator

	// AcceptConfidence ends the query loop once exceeded.
	AcceptConfidence float64

	// Logf, when set, receives provider failure notes. Failures never
	// propagate; a failed call contributes no candidates.
	Logf func(format string, args ...interface{})
}

// NewSearcher creates a Searcher over the given provider client.
func NewSearcher(client *Client) *Searcher {
	return &Searcher{
		client:           client,
		aggregator:       NewAggregator(),
		AcceptConfidence: DefaultAcceptConfidence,
	}
}

// Resolve finds the best canonical record for a bibliography entry.
// Returns nil when no tier produced an acceptable candidate.
func (s *Searcher) Resolve(ctx context.Context, params Params) *Metadata {
	if hit := s.aggregator.Lookup(params); hit != nil {
		return hit
	}

	if best := s.searchInternational(ctx, params); best != nil {
		return best
	}

	// Last resort for Cyrillic entries: an eLibrary search link.
	return s.aggregator.FallbackLookup(params)
}

// searchInternational walks the query variants through the provider
// priority order, pooling relevance-filtered candidates. The loop
// stops at the first query whose best candidate exceeds the cutoff;
// otherwise the best candidate seen across all queries is returned.
func (s *Searcher) searchInternational(ctx context.Context, params Params) *Metadata {
	providers := []providerFunc{
		{SourceCrossref, s.client.searchCrossref},
		{SourceOpenLibrary, s.client.searchOpenLibrary},
		{SourceArxiv, s.client.searchArxiv},
		{SourceGoogleBooks, s.client.searchGoogleBooks},
	}

	var pool []Metadata
	for _, query := range BuildQueries(params) {
		for _, p := range providers {
			candidates, err := p.call(ctx, query)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return bestOf(pool)
				}
				if !errors.Is(err, ErrNoAPIKey) {
					s.logf("%s: %v", p.name, err)
				}
				continue
			}
			for _, c := range candidates {
				if IsRelevant(c, params.RawText) {
					pool = append(pool, c)
				}
			}
		}

		if best := bestOf(pool); best != nil && best.Confidence > s.AcceptConfidence {
			return best
		}
	}

	return bestOf(pool)
}

func bestOf(pool []Metadata) *Metadata {
	deduped := Deduplicate(pool)
	if len(deduped) == 0 {
		return nil
	}
	best := deduped[0]
	return &best
}

func (s *Searcher) logf(format string, args ...interface{}) {
	if s.Logf != nil {
		s.Logf(format, args...)
	}
}
