package search

import (
	"regexp"
	"sort"
	"strings"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}]`)

// Deduplicate collapses candidates describing the same work, keyed by
// DOI, then ISBN, then normalized title. The highest-confidence copy
// wins; output is sorted by confidence descending.
func Deduplicate(candidates []Metadata) []Metadata {
	best := make(map[string]Metadata)
	var order []string

	for _, c := range candidates {
		key := dedupeKey(c)
		if key == "" {
			continue
		}
		prev, ok := best[key]
		if !ok {
			order = append(order, key)
			best[key] = c
			continue
		}
		if c.Confidence > prev.Confidence {
			best[key] = c
		}
	}

	out := make([]Metadata, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

func dedupeKey(c Metadata) string {
	switch {
	case c.DOI != "":
		return "doi:" + strings.ToLower(c.DOI)
	case c.ISBN != "":
		return "isbn:" + c.ISBN
	case c.Title != "":
		return "title:" + nonWord.ReplaceAllString(strings.ToLower(c.Title), "")
	}
	return ""
}
