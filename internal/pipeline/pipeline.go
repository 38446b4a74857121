// Package pipeline runs the sequential citation analysis over a
// segmented document: locate markers, detect the bibliography, bind
// markers to entries, extract fields, enrich entries from the local
// library or external providers, and optionally verify citations
// against stored full texts.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/refcheck/refcheck/internal/bibliography"
	"github.com/refcheck/refcheck/internal/citation"
	"github.com/refcheck/refcheck/internal/document"
	"github.com/refcheck/refcheck/internal/library"
	"github.com/refcheck/refcheck/internal/search"
	"github.com/refcheck/refcheck/internal/verify"
)

// ErrNoFragments is returned for an empty fragment list, the only
// input the pipeline treats as fatal.
var ErrNoFragments = errors.New("no text fragments to analyze")

// Options selects the optional pipeline stages for one run.
type Options struct {
	// Online enables the external provider chain for entries the
	// local library cannot satisfy.
	Online bool
	// Verify enables semantic verification for entries matched to a
	// library record with stored full text.
	Verify bool
}

// Pipeline holds the components of one analysis run. Construct it
// once and pass it by reference; nil optional components disable the
// corresponding stage.
type Pipeline struct {
	Citations citation.Config
	Resolver  bibliography.Resolver

	Store    *library.Store   // nil disables local matching and verification
	Matcher  *library.Matcher // nil falls back to default scoring
	Searcher *search.Searcher // nil disables online enrichment
	Verifier *verify.Verifier // nil falls back to default config

	Logf func(format string, args ...interface{})
}

// New returns a pipeline with default configuration and the given
// optional components.
func New(store *library.Store, searcher *search.Searcher) *Pipeline {
	return &Pipeline{
		Citations: citation.DefaultConfig(),
		Resolver:  bibliography.NewOrdinalResolver(),
		Store:     store,
		Matcher:   library.NewMatcher(library.DefaultScoring()),
		Searcher:  searcher,
		Verifier:  verify.NewVerifier(verify.DefaultConfig()),
	}
}

// CitationReport is one located marker in the output report.
type CitationReport struct {
	Marker   string `json:"marker"`
	Sentence string `json:"sentence"`
	Context  string `json:"context"`
	Page     int    `json:"page"`
}

// Summary aggregates marker-to-entry binding for the whole document.
type Summary struct {
	TotalMarkers int     `json:"total_citation_markers"`
	MissingCount int     `json:"missing_count"`
	UnusedCount  int     `json:"unused_entry_count"`
	Completeness float64 `json:"completeness_ratio"`
}

// Report is the full analysis output for one document.
type Report struct {
	Citations []CitationReport     `json:"citations"`
	Entries   []bibliography.Entry `json:"bibliography_entries"`
	Missing   []string             `json:"missing_references"`
	Summary   Summary              `json:"summary"`
}

// Run analyzes a segmented document. Stage failures degrade to empty
// results; only an empty fragment list is an error. Cancellation is
// coarse: partial enrichment for the run is discarded, the library
// store is never left corrupted.
func (p *Pipeline) Run(ctx context.Context, frags []document.Fragment, opts Options) (*Report, error) {
	if len(frags) == 0 {
		return nil, ErrNoFragments
	}

	markers := citation.Locate(frags, p.Citations)
	entries := bibliography.FindSection(frags)
	for i := range entries {
		entries[i].Fields = bibliography.ExtractFields(entries[i].RawText)
	}

	resolver := p.Resolver
	if resolver == nil {
		resolver = bibliography.NewOrdinalResolver()
	}
	res := resolver.Resolve(markers, entries)

	byLabel := make(map[string]citation.Marker, len(markers))
	for _, m := range markers {
		byLabel[m.Label] = m
	}

	for i := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		p.enrich(ctx, &entries[i], byLabel, opts)
	}

	report := &Report{
		Citations: make([]CitationReport, 0, len(markers)),
		Entries:   entries,
		Missing:   res.Missing,
		Summary: Summary{
			TotalMarkers: len(markers),
			MissingCount: len(res.Missing),
			UnusedCount:  len(res.Unused),
			Completeness: completeness(len(res.Valid), len(markers)),
		},
	}
	for _, m := range markers {
		report.Citations = append(report.Citations, CitationReport{
			Marker:   m.Label,
			Sentence: m.Sentence,
			Context:  m.Context,
			Page:     m.Page,
		})
	}
	return report, nil
}

// enrich attaches metadata to one entry, local library first, then
// the external chain. Lookup failures leave the entry unenriched.
func (p *Pipeline) enrich(ctx context.Context, entry *bibliography.Entry, byLabel map[string]citation.Marker, opts Options) {
	params := search.Params{
		RawText: entry.RawText,
		Authors: entry.Fields.Authors,
		Title:   entry.Fields.Title,
		Year:    entry.Fields.Year,
	}

	if p.Store != nil {
		records, err := p.Store.All()
		if err != nil {
			p.logf("library scan failed: %v", err)
		} else if rec, score, ok := p.matcher().Best(records, params); ok {
			meta := library.ToMetadata(rec, score)
			entry.Enrichment = &meta
			if err := p.Store.UpdateLastUsed(rec.ID); err != nil {
				p.logf("updating last-used for %s: %v", rec.ID, err)
			}
			if opts.Verify && rec.FullText {
				p.verifyEntry(entry, rec, byLabel)
			}
			return
		}
	}

	if opts.Online && p.Searcher != nil {
		if meta := p.Searcher.Resolve(ctx, params); meta != nil {
			entry.Enrichment = meta
		}
	}
}

// verifyEntry checks each citation bound to the entry against the
// record's stored full text, keeping the strongest result.
func (p *Pipeline) verifyEntry(entry *bibliography.Entry, rec library.Record, byLabel map[string]citation.Marker) {
	text, err := p.Store.FullText(rec.ID)
	if err != nil {
		p.logf("reading full text for %s: %v", rec.ID, err)
		return
	}
	src := verify.Source{
		Text:     text,
		Metadata: append([]string{rec.Title, rec.Publisher}, rec.Authors...),
	}

	var best *verify.Result
	for _, label := range entry.MatchedMarkers {
		m, ok := byLabel[label]
		if !ok {
			continue
		}
		result := p.verifier().Verify(fmt.Sprintf("%s %s", m.Sentence, m.Context), src)
		if best == nil || result.Confidence > best.Confidence {
			r := result
			best = &r
		}
	}
	entry.Verification = best
}

// completeness is the share of markers bound to an entry. A document
// with no markers has nothing missing.
func completeness(valid, total int) float64 {
	if total == 0 {
		return 1
	}
	return float64(valid) / float64(total)
}

func (p *Pipeline) matcher() *library.Matcher {
	if p.Matcher == nil {
		return library.NewMatcher(library.DefaultScoring())
	}
	return p.Matcher
}

func (p *Pipeline) verifier() *verify.Verifier {
	if p.Verifier == nil {
		return verify.NewVerifier(verify.DefaultConfig())
	}
	return p.Verifier
}

func (p *Pipeline) logf(format string, args ...interface{}) {
	if p.Logf != nil {
		p.Logf(format, args...)
	}
}
