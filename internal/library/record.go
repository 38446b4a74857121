// Package library is the user-owned store of known publication
// records, searched before any external provider.
package library

import "time"

// Record is one persisted publication in a user's library. The
// analysis pipeline reads records and touches only LastUsed; all other
// mutation happens through explicit store operations.
type Record struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Authors        []string  `json:"authors"`
	Year           int       `json:"year,omitempty"`
	SourceType     string    `json:"source_type,omitempty"` // book, article, thesis, conference, report, other
	Journal        string    `json:"journal,omitempty"`
	Publisher      string    `json:"publisher,omitempty"`
	URL            string    `json:"url,omitempty"`
	DOI            string    `json:"doi,omitempty"`
	ISBN           string    `json:"isbn,omitempty"`
	CustomCitation string    `json:"custom_citation,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	FullText       bool      `json:"has_full_text"`
	CreatedAt      time.Time `json:"created_at"`
	LastUsed       time.Time `json:"last_used"`
}

// MatchScore is the transient ranking artifact produced when a record
// is scored against a bibliography entry. Value is never negative.
type MatchScore struct {
	Value         int      `json:"value"`
	MatchedFields []string `json:"matched_fields"`
}

// NewMatchScore clamps a raw score at zero.
func NewMatchScore(value int, matched []string) MatchScore {
	if value < 0 {
		value = 0
	}
	return MatchScore{Value: value, MatchedFields: matched}
}
