package pdftext

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Metadata is the best-effort description derived from an extracted
// text, used to prefill a library record on import.
type Metadata struct {
	Title      string
	Authors    []string
	Year       int
	SourceType string
}

var (
	metaAuthorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`[А-ЯЁ][а-яё]+\s+[А-ЯЁ]\.(?:\s*[А-ЯЁ]\.)?`), // Иванов И.И.
		regexp.MustCompile(`[А-ЯЁ]\.\s*[А-ЯЁ]\.\s+[А-ЯЁ][а-яё]+`),      // И.И. Иванов
	}
	metaYearPattern = regexp.MustCompile(`\b(19[0-9]{2}|20[0-9]{2})\b`)
)

var authorNoise = []string{"рис.", "табл.", "стр.", "с.", "г."}

// DeriveMetadata inspects the leading portion of an extracted text
// and guesses title, authors, year, and source type. Every field may
// come back empty.
func DeriveMetadata(text, filename string) Metadata {
	meta := Metadata{
		Title:      deriveTitle(text, filename),
		Authors:    deriveAuthors(text),
		Year:       deriveYear(text),
		SourceType: detectSourceType(text),
	}
	return meta
}

// deriveTitle takes the first substantial line of the text, falling
// back to a cleaned-up file name.
func deriveTitle(text, filename string) string {
	for _, line := range strings.Split(head(text, 3000), "\n") {
		line = strings.TrimSpace(line)
		runes := []rune(line)
		if len(runes) < 15 || len(runes) > 200 {
			continue
		}
		if metaYearPattern.MatchString(line) && len(runes) < 30 {
			continue
		}
		return line
	}
	return titleFromFilename(filename)
}

func titleFromFilename(filename string) string {
	base := filename
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return strings.TrimSpace(base)
}

func deriveAuthors(text string) []string {
	sample := head(text, 3000)
	var authors []string
	seen := make(map[string]bool)

	for _, pat := range metaAuthorPatterns {
		for _, m := range pat.FindAllString(sample, -1) {
			if len(m) < 6 || len(m) > 100 {
				continue
			}
			lower := strings.ToLower(m)
			noisy := false
			for _, bad := range authorNoise {
				if strings.Contains(lower, bad) {
					noisy = true
					break
				}
			}
			if noisy || seen[m] {
				continue
			}
			seen[m] = true
			authors = append(authors, m)
			if len(authors) == 5 {
				return authors
			}
		}
	}
	return authors
}

func deriveYear(text string) int {
	current := time.Now().Year()
	for _, m := range metaYearPattern.FindAllString(head(text, 5000), -1) {
		year, err := strconv.Atoi(m)
		if err == nil && year >= 1900 && year <= current {
			return year
		}
	}
	return 0
}

// detectSourceType classifies the text by genre keywords, defaulting
// to article.
func detectSourceType(text string) string {
	lower := strings.ToLower(head(text, 10000))
	switch {
	case containsAny(lower, "диссертация", "автореферат", "кандидатск", "докторск"):
		return "thesis"
	case containsAny(lower, "монография", "учебник", "книга"):
		return "book"
	case containsAny(lower, "конференция", "сборник", "proceedings"):
		return "conference"
	case containsAny(lower, "отчет", "исследование", "report"):
		return "report"
	default:
		return "article"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func head(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
