// Package bibliography detects the reference-list section of a
// document, extracts structured fields from its entries, and binds
// in-text citation markers to entries by ordinal position.
package bibliography

import (
	"github.com/refcheck/refcheck/internal/search"
	"github.com/refcheck/refcheck/internal/verify"
)

// Fields holds the structured fields extracted from an entry's raw
// text. Extraction is best-effort: an empty value means the extractor
// found nothing, which is never an error.
type Fields struct {
	Authors   []string `json:"authors,omitempty"`
	Title     string   `json:"title,omitempty"`
	Year      string   `json:"year,omitempty"`
	DOI       string   `json:"doi,omitempty"`
	ISBN      string   `json:"isbn,omitempty"`
	Publisher string   `json:"publisher,omitempty"`
	Journal   string   `json:"journal,omitempty"`
}

// Entry is one reference record within the detected bibliography
// section. Ordinal is the 1-based, contiguous rank among accepted
// entries; citation marker k is valid iff 1 <= k <= len(entries).
type Entry struct {
	Ordinal        int              `json:"ordinal"`
	RawText        string           `json:"raw_text"`
	Page           int              `json:"page"`
	Fields         Fields           `json:"fields"`
	MatchedMarkers []string         `json:"matched_markers"`
	Enrichment     *search.Metadata `json:"enrichment,omitempty"`
	Verification   *verify.Result   `json:"verification,omitempty"`
}
