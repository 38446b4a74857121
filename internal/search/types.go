// Package search resolves bibliography entries to canonical
// publication records via a ranked chain of external bibliographic
// providers.
package search

import "time"

// Provider source identifiers, in lookup order.
const (
	SourceLocalLibrary = "local_library"
	SourceRSL          = "rsl"
	SourceCyberleninka = "cyberleninka"
	SourceELibrary     = "elibrary"
	SourceCrossref     = "crossref"
	SourceOpenLibrary  = "open_library"
	SourceArxiv        = "arxiv"
	SourceGoogleBooks  = "google_books"
)

// Metadata is a provider hit normalized to a common shape. Confidence
// is always in [0,1]; use NewMetadata or Clamp to keep it there.
type Metadata struct {
	Source      string    `json:"source"`
	Title       string    `json:"title,omitempty"`
	Authors     []string  `json:"authors,omitempty"`
	Year        string    `json:"year,omitempty"`
	Publisher   string    `json:"publisher,omitempty"`
	Journal     string    `json:"journal,omitempty"`
	Volume      string    `json:"volume,omitempty"`
	Issue       string    `json:"issue,omitempty"`
	Pages       string    `json:"pages,omitempty"`
	DOI         string    `json:"doi,omitempty"`
	ISBN        string    `json:"isbn,omitempty"`
	URL         string    `json:"url,omitempty"`
	Confidence  float64   `json:"confidence"`
	SearchLink  bool      `json:"is_search_link,omitempty"`
	RetrievedAt time.Time `json:"retrieved_at"`
}

// NewMetadata builds a Metadata with source and clamped confidence set.
func NewMetadata(source string, confidence float64) Metadata {
	return Metadata{
		Source:      source,
		Confidence:  Clamp(confidence),
		RetrievedAt: time.Now(),
	}
}

// Clamp bounds a confidence value into [0,1].
func Clamp(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// Params carries everything the resolver chain needs for one entry:
// the raw bibliography text plus the fields already extracted from it.
type Params struct {
	RawText string
	Authors []string
	Title   string
	Year    string
}
