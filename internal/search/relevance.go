package search

import (
	"regexp"
	"strings"
)

// minSharedKeywords is the title-token overlap needed for relevance
// when neither authors nor the known-works table decide.
const minSharedKeywords = 2

// Tokens too generic to signal relevance: edition vocabulary and
// publishing place names in both corpus languages.
var keywordStopwords = map[string]bool{
	"издание": true, "учебник": true, "пособие": true, "автор": true,
	"москва": true, "санкт": true, "петербург": true, "издательство": true,
	"учебное": true, "практикум": true, "вузов": true, "университет": true,
	"институт": true,
	"edition": true, "textbook": true, "manual": true, "author": true,
	"publisher": true, "university": true, "institute": true, "press": true,
	"moscow": true, "petersburg": true,
}

// knownWorks maps author surnames (lowercase) to canonical titles the
// relevance filter accepts outright. Curated for works whose short
// titles defeat token overlap.
var knownWorks = map[string][]string{
	"толстой":  {"война и мир", "war and peace"},
	"orwell":   {"1984", "nineteen eighty-four"},
	"грачев":   {"бизнес-планирование", "business planning"},
	"лопарева": {"бизнес-планирование", "business planning"},
	"уланов":   {"технологическое предпринимательство", "technological entrepreneurship"},
}

var wordToken = regexp.MustCompile(`\p{L}{4,}`)

// IsRelevant reports whether a provider candidate plausibly describes
// the same work as the original entry text. A candidate passes on any
// of: two shared significant title keywords, an author-surname
// overlap, or a curated known-work pairing.
func IsRelevant(candidate Metadata, originalText string) bool {
	if candidate.Title == "" {
		return false
	}

	originalLower := strings.ToLower(originalText)
	titleLower := strings.ToLower(candidate.Title)

	if matchesKnownWork(originalLower, titleLower) {
		return true
	}

	if sharedKeywords(originalLower, titleLower) >= minSharedKeywords {
		return true
	}

	return authorsOverlap(originalLower, candidate.Authors)
}

func matchesKnownWork(originalLower, titleLower string) bool {
	for surname, works := range knownWorks {
		if !strings.Contains(originalLower, surname) {
			continue
		}
		for _, work := range works {
			if strings.Contains(titleLower, work) {
				return true
			}
		}
	}
	return false
}

// sharedKeywords counts significant tokens present in both texts.
func sharedKeywords(a, b string) int {
	tokensA := significantTokens(a)
	shared := 0
	for tok := range significantTokens(b) {
		if tokensA[tok] {
			shared++
		}
	}
	return shared
}

func significantTokens(text string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range wordToken.FindAllString(text, -1) {
		if !keywordStopwords[tok] {
			out[tok] = true
		}
	}
	return out
}

// authorsOverlap checks whether any candidate author's surname appears
// in the original entry text.
func authorsOverlap(originalLower string, authors []string) bool {
	for _, author := range authors {
		for _, word := range strings.Fields(strings.ToLower(author)) {
			word = strings.Trim(word, ".,")
			if len([]rune(word)) > 2 && strings.Contains(originalLower, word) {
				return true
			}
		}
	}
	return false
}
