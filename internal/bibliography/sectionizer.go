package bibliography

import (
	"regexp"
	"strings"

	"github.com/refcheck/refcheck/internal/document"
)

// Section-detection limits.
const (
	MaxHeaderLen      = 100 // header fragments longer than this are body text
	MinEntryLen       = 30  // runes
	MaxEntryLen       = 800 // runes
	MaxNonEntryStreak = 3   // consecutive non-entries that end the section
)

// Bibliography header keywords, lowercase. A fragment containing any of
// these (short, without a table-of-contents ellipsis) opens the section.
var headerKeywords = []string{
	"список используемых источников",
	"список литературы",
	"библиография",
	"литература",
	"источники",
	"references",
	"bibliography",
	"works cited",
	"literature",
}

// Tokens that mark a fragment as bibliographic prose: publishers,
// venues, edition vocabulary, city abbreviations.
var entryKeywords = []string{
	"изд-во", "издательство", "журнал", "вып.", "с.", "стр.", "сс.",
	"университет", "институт", "академия", "наук",
	"издание", "монография", "учебник", "пособие", "статья",
	"м.:", "спб.:", "киев:", "минск:",
	"press", "journal", "proceedings", "university", "vol.", "pp.", "ed.",
}

var abbreviationTokens = []string{"т.", "вып.", "с.", "сс.", "г.", "pp.", "vol."}

var (
	yearPattern          = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	numericPrefixPattern = regexp.MustCompile(`^\d{1,2}\.`)
	bracketPrefixPattern = regexp.MustCompile(`^\[\d+\]`)
	pricePattern         = regexp.MustCompile(`\d+[\s,]*(т\.р\.|руб|%)`)
)

// sectionState is the sectionizer's position in the document.
type sectionState int

const (
	seekingHeader sectionState = iota
	inSection
	sectionDone
)

// FindSection scans the fragment stream for the bibliography section
// and returns its entries with contiguous 1-based ordinals. A document
// with no detectable header yields no entries.
func FindSection(frags []document.Fragment) []Entry {
	var entries []Entry
	state := seekingHeader
	nonEntryStreak := 0

	for _, frag := range frags {
		if state == sectionDone {
			break
		}
		text := strings.TrimSpace(frag.Content)

		switch state {
		case seekingHeader:
			if isHeader(text) {
				state = inSection
			}

		case inSection:
			if IsEntry(text) {
				nonEntryStreak = 0
				entries = append(entries, Entry{
					Ordinal: len(entries) + 1,
					RawText: text,
					Page:    frag.Page,
				})
				continue
			}

			nonEntryStreak++
			if nonEntryStreak >= MaxNonEntryStreak ||
				isDefinitelyNotEntry(text) || looksLikeTableData(text) {
				state = sectionDone
			}
		}
	}

	return entries
}

// isHeader reports whether a fragment is the bibliography header.
// Table-of-contents lines repeat the keyword but carry a dot leader.
func isHeader(text string) bool {
	if len([]rune(text)) >= MaxHeaderLen || strings.Contains(text, "...") {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range headerKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// IsEntry classifies a fragment as a bibliography entry. One strong
// signal, or at least two weak ones, within a plausible length window.
func IsEntry(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)

	// A repeated header or a contents line is never an entry.
	for _, kw := range headerKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	if strings.Contains(text, "...") {
		return false
	}

	n := len([]rune(text))
	if n <= MinEntryLen || n >= MaxEntryLen {
		return false
	}

	hasYear := yearPattern.MatchString(text)
	hasKeyword := containsAny(lower, entryKeywords)
	punctCount := strings.Count(text, ".") + strings.Count(text, ",")
	hasPunctuation := punctCount >= 3
	hasAbbreviations := containsAny(text, abbreviationTokens)
	hasCommaAndYear := strings.Contains(text, ",") && hasYear

	strong := numericPrefixPattern.MatchString(text) ||
		bracketPrefixPattern.MatchString(text) ||
		(hasYear && hasPunctuation) ||
		(hasKeyword && hasYear) ||
		(hasCommaAndYear && hasPunctuation)
	if strong {
		return true
	}

	weak := 0
	for _, sig := range []bool{hasYear, hasKeyword, hasPunctuation, hasAbbreviations} {
		if sig {
			weak++
		}
	}
	return weak >= 2
}

// isDefinitelyNotEntry catches fragments that can only be body matter:
// prices, tax and production vocabulary, bare figures.
func isDefinitelyNotEntry(text string) bool {
	lower := strings.ToLower(text)
	if containsAny(lower, []string{"т.р.", "тыс. руб.", "руб.", "стоимость", "цена", "закупка", "ндс", "оборудован", "персонал", "производств"}) {
		return true
	}
	if len([]rune(text)) < 30 && strings.ContainsAny(text, "0123456789") {
		return true
	}
	return strings.ContainsAny(text, "+*=")
}

// looksLikeTableData catches numeric table rows that often trail a
// bibliography in extracted documents.
func looksLikeTableData(text string) bool {
	if pricePattern.MatchString(text) {
		return true
	}
	if len([]rune(text)) < 50 && strings.ContainsAny(text, "0123456789") {
		return true
	}
	return containsAny(strings.ToLower(text), []string{"цена", "стоимость", "закупка", "расход", "доход"})
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
