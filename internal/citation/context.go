package citation

import (
	"strings"
	"unicode/utf8"

	"github.com/refcheck/refcheck/internal/document"
)

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isClosingQuote(r rune) bool {
	return r == '"' || r == '»' || r == '”' || r == '\''
}

// occurrenceAt builds the sentence and extended context for a marker
// found at byte range [start,end) of the fragment content.
func occurrenceAt(frag document.Fragment, start, end int, cfg Config) Occurrence {
	runes := []rune(frag.Content)
	rStart := utf8.RuneCountInString(frag.Content[:start])
	rEnd := utf8.RuneCountInString(frag.Content[:end])

	sentence := sentenceAround(runes, rStart, rEnd, cfg.SentenceScan)
	if utf8.RuneCountInString(sentence) < cfg.MinSentenceLen {
		sentence = windowAround(runes, rStart, rEnd, cfg.ContextWindow)
	}

	return Occurrence{
		Sentence: sentence,
		Context:  windowAround(runes, rStart, rEnd, cfg.ContextWindow),
		Page:     frag.Page,
	}
}

// sentenceAround scans outwards from the marker to the nearest sentence
// terminators, at most scan runes in each direction. The end scan
// includes closing quotes that follow the terminator.
func sentenceAround(runes []rune, start, end, scan int) string {
	lo := start - scan
	if lo < 0 {
		lo = 0
	}
	// Without a terminator in range the sentence stays bounded by the
	// scan distance instead of swallowing the fragment head.
	sentStart := lo
	for i := start - 1; i >= lo; i-- {
		if isTerminator(runes[i]) {
			sentStart = i + 1
			break
		}
	}
	// Skip leading whitespace after the previous terminator.
	for sentStart < len(runes) && (runes[sentStart] == ' ' || runes[sentStart] == '\t' || runes[sentStart] == '\n') {
		sentStart++
	}

	hi := end + scan
	if hi > len(runes) {
		hi = len(runes)
	}
	sentEnd := hi
	for i := end; i < hi; i++ {
		if isTerminator(runes[i]) {
			sentEnd = i + 1
			for sentEnd < len(runes) && isClosingQuote(runes[sentEnd]) {
				sentEnd++
			}
			break
		}
	}

	if sentStart > start {
		sentStart = start
	}
	return strings.TrimSpace(string(runes[sentStart:sentEnd]))
}

// windowAround takes a fixed rune window on each side of the marker,
// adding ellipses where the window clips the fragment.
func windowAround(runes []rune, start, end, window int) string {
	lo := start - window
	hi := end + window
	clippedLo := lo > 0
	clippedHi := hi < len(runes)
	if lo < 0 {
		lo = 0
	}
	if hi > len(runes) {
		hi = len(runes)
	}

	out := strings.TrimSpace(string(runes[lo:hi]))
	if clippedLo {
		out = "..." + out
	}
	if clippedHi {
		out = out + "..."
	}
	return out
}
