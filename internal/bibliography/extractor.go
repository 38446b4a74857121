package bibliography

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Author-block patterns, tried in order. Cyrillic first since the
// extractor's primary corpus is GOST-style entries.
var authorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^([А-ЯЁ][а-яё]+,?\s+[А-ЯЁ]\.\s*[А-ЯЁ]\.)`), // Иванов И.И. / Иванов, И. И.
	regexp.MustCompile(`^([А-ЯЁ][а-яё]+\s+[А-ЯЁ]\.)`),              // Иванов И.
	regexp.MustCompile(`^([A-Z][a-z]+,?\s+[A-Z]\.(\s*[A-Z]\.)?)`),  // Smith J. / Smith, J. K.
}

// Surname-only fallback when no initials are present.
var surnamePattern = regexp.MustCompile(`^([А-ЯЁ][а-яё]{2,}|[A-Z][a-z]{2,})\b`)

var (
	doiPattern  = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)
	isbnPattern = regexp.MustCompile(`(?i)isbn[\s:]*([\d][\d\- ]{8,15}[\dXx])`)

	// Publisher after an em-dash city prefix: "— М.: Наука" or "— Наука".
	publisherPatterns = []*regexp.Regexp{
		regexp.MustCompile(`[—–]\s*[^:—–]*:\s*([^.,;]+)`),
		regexp.MustCompile(`[—–]\s*([^.,;0-9]{4,})`),
	}

	// Journal title after the "//" venue separator.
	journalPattern = regexp.MustCompile(`//\s*([^.,/]+)`)

	// Title ends at a colon/slash/dash boundary, at the year, or at a
	// period opening the next structural element (capitalized).
	titleBoundary = regexp.MustCompile(`[:/]|[—–]|\s(19|20)\d{2}\b|\.\s+[А-ЯЁA-Z]`)
)

// ExtractFields runs every field extractor over an entry's raw text.
// Each pass fails independently: a miss leaves the field empty. Results
// are deterministic for identical input.
func ExtractFields(raw string) Fields {
	text := strings.TrimSpace(stripOrdinalPrefix(raw))

	f := Fields{
		Authors: extractAuthors(text),
		Year:    extractYear(text),
	}
	f.Title = extractTitle(text, f.Authors)
	f.DOI = doiPattern.FindString(text)
	if m := isbnPattern.FindStringSubmatch(text); m != nil {
		f.ISBN = strings.TrimSpace(m[1])
	}
	f.Publisher = extractPublisher(text)
	f.Journal = extractJournal(text)
	return f
}

// stripOrdinalPrefix removes the leading "12." or "[12]" rank label.
func stripOrdinalPrefix(text string) string {
	text = strings.TrimSpace(text)
	if m := bracketPrefixPattern.FindString(text); m != "" {
		return strings.TrimSpace(text[len(m):])
	}
	if m := numericPrefixPattern.FindString(text); m != "" {
		return strings.TrimSpace(text[len(m):])
	}
	return text
}

func extractAuthors(text string) []string {
	var authors []string
	rest := text

	for len(authors) < 4 {
		matched := ""
		for _, pat := range authorPatterns {
			if m := pat.FindString(rest); m != "" {
				matched = m
				break
			}
		}
		if matched == "" {
			break
		}
		authors = append(authors, normalizeAuthor(matched))

		rest = strings.TrimSpace(rest[len(matched):])
		rest = strings.TrimLeft(rest, ",;")
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "и "))
	}

	if len(authors) == 0 {
		// Surname-token fallback: entries like "Грачев, С. А. ..." that the
		// initialed patterns miss still yield the family name.
		if m := surnamePattern.FindString(text); m != "" {
			authors = append(authors, m)
		}
	}
	return authors
}

func normalizeAuthor(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	return strings.Join(strings.Fields(s), " ")
}

func extractYear(text string) string {
	current := time.Now().Year()
	for _, m := range yearPattern.FindAllString(text, -1) {
		y, err := strconv.Atoi(m)
		if err == nil && y >= 1900 && y <= current {
			return m
		}
	}
	return ""
}

// extractTitle takes the span between the author block and the first
// structural boundary (colon, slash, dash, year).
func extractTitle(text string, authors []string) string {
	rest := text
	if len(authors) > 0 {
		// Drop everything through the end of the author block.
		if idx := authorBlockEnd(text); idx > 0 {
			rest = strings.TrimSpace(text[idx:])
		}
	}

	if loc := titleBoundary.FindStringIndex(rest); loc != nil {
		rest = rest[:loc[0]]
	}
	rest = strings.Trim(strings.TrimSpace(rest), ".,;")
	if len([]rune(rest)) < 3 {
		return ""
	}
	return rest
}

// authorBlockEnd finds the byte offset just past the leading author
// list: the last initial's dot before a capitalized title word.
func authorBlockEnd(text string) int {
	end := 0
	rest := text
	for {
		matched := ""
		for _, pat := range authorPatterns {
			if m := pat.FindString(rest); m != "" {
				matched = m
				break
			}
		}
		if matched == "" {
			break
		}
		consumed := len(matched)
		tail := rest[consumed:]
		trimmed := strings.TrimLeft(tail, " ,;")
		trimmed = strings.TrimPrefix(trimmed, "и ")
		consumed += len(tail) - len(trimmed)
		end += consumed
		rest = trimmed
	}
	return end
}

func extractPublisher(text string) string {
	for _, pat := range publisherPatterns {
		if m := pat.FindStringSubmatch(text); m != nil {
			pub := strings.TrimSpace(m[1])
			if len([]rune(pub)) > 3 && !yearPattern.MatchString(pub) {
				return pub
			}
		}
	}
	return ""
}

func extractJournal(text string) string {
	if m := journalPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
