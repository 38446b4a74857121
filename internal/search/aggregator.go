package search

import (
	"net/url"
	"strings"
)

// Regional aggregator search endpoints. These catalogs have no open
// query API, so hits are search links with fixed moderate confidence
// rather than individually adjudicated records.
const (
	rslSearchURL          = "https://search.rsl.ru/ru/search?q="
	cyberleninkaSearchURL = "https://cyberleninka.ru/search?q="
	elibrarySearchURL     = "https://elibrary.ru/search.asp?phrase="
)

// Aggregator confidences, per catalog coverage.
const (
	rslConfidence          = 0.7
	cyberleninkaConfidence = 0.6
	elibraryConfidence     = 0.5
)

// Aggregator produces search-link hits for regional library catalogs.
type Aggregator struct{}

// NewAggregator returns the regional catalog searcher.
func NewAggregator() Aggregator { return Aggregator{} }

// Lookup builds a search-link hit for an entry. The regional catalogs
// index Russian-language sources only, so entries without Cyrillic
// text skip straight to the international tier. The RSL union catalog
// covers books; journal-flavored entries route to Cyberleninka.
// Returns nil when the tier does not apply.
func (Aggregator) Lookup(params Params) *Metadata {
	if !hasCyrillic(params.RawText) {
		return nil
	}
	query := aggregatorQuery(params)
	if query == "" {
		return nil
	}
	encoded := url.QueryEscape(query)

	lower := strings.ToLower(params.RawText)
	isArticle := strings.Contains(lower, "статья") || strings.Contains(lower, "журнал") ||
		strings.Contains(lower, "//")

	var md Metadata
	switch {
	case !isArticle:
		md = NewMetadata(SourceRSL, rslConfidence)
		md.URL = rslSearchURL + encoded
	case isArticle:
		md = NewMetadata(SourceCyberleninka, cyberleninkaConfidence)
		md.URL = cyberleninkaSearchURL + encoded
	}

	md.Title = params.Title
	md.Authors = params.Authors
	md.Year = params.Year
	md.SearchLink = true
	return &md
}

// FallbackLookup builds the eLibrary search link used when no other
// tier produced an acceptable record. Like Lookup, it only applies to
// Cyrillic entries.
func (Aggregator) FallbackLookup(params Params) *Metadata {
	if !hasCyrillic(params.RawText) {
		return nil
	}
	query := aggregatorQuery(params)
	if query == "" {
		return nil
	}

	md := NewMetadata(SourceELibrary, elibraryConfidence)
	md.URL = elibrarySearchURL + url.QueryEscape(query)
	md.Title = params.Title
	md.Authors = params.Authors
	md.Year = params.Year
	md.SearchLink = true
	return &md
}

func hasCyrillic(s string) bool {
	for _, r := range s {
		if r >= 'А' && r <= 'я' || r == 'ё' || r == 'Ё' {
			return true
		}
	}
	return false
}

// aggregatorQuery prefers "authors title", then title, then a prefix
// of the raw text.
func aggregatorQuery(params Params) string {
	if len(params.Authors) > 0 && params.Title != "" {
		return strings.Join(params.Authors, " ") + " " + params.Title
	}
	if params.Title != "" {
		return params.Title
	}

	runes := []rune(strings.TrimSpace(params.RawText))
	if len(runes) == 0 {
		return ""
	}
	if len(runes) > 100 {
		runes = runes[:100]
	}
	return string(runes)
}
