package search

import (
	"regexp"
	"strings"
)

// MaxQueries caps the free-text query variants tried per entry.
const MaxQueries = 4

// minQueryLen drops degenerate queries; anything this short matches
// everything and nothing.
const minQueryLen = 10

var (
	bracketedText = regexp.MustCompile(`\[.*?\]`)
	junkChars     = regexp.MustCompile(`[^\p{L}\p{N}\s.,;:()\-]`)
	multiSpace    = regexp.MustCompile(`\s+`)

	// Edition descriptors and page references that pollute queries.
	descriptorText = regexp.MustCompile(`(?i)\b(изд-во|издательство|учебник|пособие|монография|статья|под ред|ред\.|с\.|стр\.|т\.|вып\.)\b[^.,]*[.,]?`)
	pageNumbers    = regexp.MustCompile(`\d+\.\d+|\d+-\d+`)
)

// BuildQueries derives up to MaxQueries free-text queries for an
// entry, from most to least specific context:
//
//  1. the full cleaned raw text
//  2. the cleaned text with edition descriptors stripped
//  3. "authors title"
//  4. title only
//
// Duplicates and queries shorter than minQueryLen are dropped.
func BuildQueries(params Params) []string {
	var queries []string

	clean := cleanEntryText(params.RawText)
	queries = append(queries, clean)

	simple := descriptorText.ReplaceAllString(clean, "")
	simple = pageNumbers.ReplaceAllString(simple, "")
	simple = strings.TrimSpace(multiSpace.ReplaceAllString(simple, " "))
	if simple != clean {
		queries = append(queries, simple)
	}

	if len(params.Authors) > 0 && params.Title != "" {
		queries = append(queries, strings.Join(params.Authors, " ")+" "+params.Title)
	}
	if params.Title != "" {
		queries = append(queries, params.Title)
	}

	seen := make(map[string]bool)
	var out []string
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if len([]rune(q)) <= minQueryLen || seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
		if len(out) == MaxQueries {
			break
		}
	}
	return out
}

// cleanEntryText strips bracket tokens and symbol noise from an
// entry's raw text, collapsing whitespace.
func cleanEntryText(text string) string {
	clean := bracketedText.ReplaceAllString(text, "")
	clean = junkChars.ReplaceAllString(clean, "")
	return strings.TrimSpace(multiSpace.ReplaceAllString(clean, " "))
}
