package bibliography

import (
	"github.com/refcheck/refcheck/internal/citation"
)

// Resolver binds citation markers to bibliography entries. The
// interface exists so the positional strategy below can be swapped for
// one that reads numerals printed in the entry text.
type Resolver interface {
	Resolve(markers []citation.Marker, entries []Entry) Resolution
}

// Resolution partitions markers into those satisfied by an entry and
// those with no counterpart, and records which entries go unused.
type Resolution struct {
	Valid   []string `json:"valid_references"`
	Missing []string `json:"missing_references"`
	Unused  []int    `json:"unused_entries"` // ordinals with no attached marker
}

// OrdinalResolver resolves markers purely by position: marker k binds
// to the k-th accepted entry. Numerals physically printed in entry
// text are never consulted, so a reordered bibliography will bind
// incorrectly; callers that need label-aware binding should provide a
// different Resolver.
type OrdinalResolver struct{}

// NewOrdinalResolver returns the positional resolver used by default.
func NewOrdinalResolver() OrdinalResolver { return OrdinalResolver{} }

// Resolve partitions markers against the entry count N: numeric marker
// k is valid iff 1 <= k <= N. Non-numeric markers are always missing.
// Valid markers are attached to their entry's MatchedMarkers in place.
func (OrdinalResolver) Resolve(markers []citation.Marker, entries []Entry) Resolution {
	res := Resolution{
		Valid:   []string{},
		Missing: []string{},
	}

	for _, m := range markers {
		if m.Number >= 1 && m.Number <= len(entries) {
			res.Valid = append(res.Valid, m.Label)
			e := &entries[m.Number-1]
			e.MatchedMarkers = append(e.MatchedMarkers, m.Label)
		} else {
			res.Missing = append(res.Missing, m.Label)
		}
	}

	for i := range entries {
		if len(entries[i].MatchedMarkers) == 0 {
			res.Unused = append(res.Unused, entries[i].Ordinal)
		}
	}

	return res
}
