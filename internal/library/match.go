package library

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/refcheck/refcheck/internal/search"
)

// ScoringConfig holds the hand-tuned weights and thresholds of the
// local matcher. The values are empirical; keep them as configuration
// rather than inline constants so the policy stays testable.
type ScoringConfig struct {
	ExactTitle     int `yaml:"exact_title"`
	TitleSubstring int `yaml:"title_substring"`
	SharedKeyword  int `yaml:"shared_keyword"`
	AuthorSurname  int `yaml:"author_surname"`
	AuthorMismatch int `yaml:"author_mismatch"`
	YearMatch      int `yaml:"year_match"`
	YearMismatch   int `yaml:"year_mismatch"`

	// AcceptScore accepts a candidate outright. ReviewScore accepts
	// only when the stricter exact-surname check also passes.
	AcceptScore int `yaml:"accept_score"`
	ReviewScore int `yaml:"review_score"`
}

// DefaultScoring returns the standard weights.
func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		ExactTitle:     70,
		TitleSubstring: 60,
		SharedKeyword:  20,
		AuthorSurname:  50,
		AuthorMismatch: 40,
		YearMatch:      20,
		YearMismatch:   15,
		AcceptScore:    80,
		ReviewScore:    60,
	}
}

// Matcher scores library records against extracted bibliography
// fields. It holds no state beyond its configuration.
type Matcher struct {
	Scoring ScoringConfig
}

// NewMatcher returns a matcher with the given scoring; zero-value
// configs fall back to the defaults.
func NewMatcher(cfg ScoringConfig) *Matcher {
	if cfg == (ScoringConfig{}) {
		cfg = DefaultScoring()
	}
	return &Matcher{Scoring: cfg}
}

// Best returns the highest-scoring candidate among records for the
// given search params, with its score. ok is false when no candidate
// passes the acceptance rule.
func (m *Matcher) Best(records []Record, params search.Params) (Record, MatchScore, bool) {
	var best Record
	var bestScore MatchScore
	found := false

	for _, rec := range records {
		score := m.Score(rec, params)
		if !found || score.Value > bestScore.Value {
			best = rec
			bestScore = score
			found = true
		}
	}
	if !found || !m.accepts(best, bestScore, params) {
		return Record{}, MatchScore{MatchedFields: []string{}}, false
	}
	return best, bestScore, true
}

// Score rates one record against the extracted fields. The result is
// clamped at zero.
func (m *Matcher) Score(rec Record, params search.Params) MatchScore {
	var value int
	var fields []string

	recTitle := cleanTitle(rec.Title)
	wantTitle := cleanTitle(params.Title)

	if wantTitle != "" && recTitle != "" {
		switch {
		case recTitle == wantTitle:
			value += m.Scoring.ExactTitle
			fields = append(fields, "title")
		case strings.Contains(recTitle, wantTitle) || strings.Contains(wantTitle, recTitle):
			value += m.Scoring.TitleSubstring
			fields = append(fields, "title")
		default:
			if n := sharedKeywords(recTitle, wantTitle); n > 0 {
				value += n * m.Scoring.SharedKeyword
				fields = append(fields, "title_keywords")
			}
		}
	}

	if len(params.Authors) > 0 && len(rec.Authors) > 0 {
		matched := matchedSurnames(rec.Authors, params.Authors)
		if matched > 0 {
			value += matched * m.Scoring.AuthorSurname
			fields = append(fields, "authors")
		} else {
			value -= m.Scoring.AuthorMismatch
		}
	}

	if year, err := strconv.Atoi(params.Year); err == nil && rec.Year != 0 {
		if year == rec.Year {
			value += m.Scoring.YearMatch
			fields = append(fields, "year")
		} else {
			value -= m.Scoring.YearMismatch
		}
	}

	return NewMatchScore(value, fields)
}

func (m *Matcher) accepts(rec Record, score MatchScore, params search.Params) bool {
	if score.Value >= m.Scoring.AcceptScore {
		return true
	}
	if score.Value >= m.Scoring.ReviewScore {
		// Borderline scores need an exact surname agreement.
		return exactSurnameMatch(rec.Authors, params.Authors)
	}
	return false
}

// ToMetadata converts an accepted library record into enrichment
// metadata with confidence derived from the match score.
func ToMetadata(rec Record, score MatchScore) search.Metadata {
	confidence := float64(score.Value) / 100
	meta := search.NewMetadata(search.SourceLocalLibrary, confidence)
	meta.Title = rec.Title
	meta.Authors = rec.Authors
	if rec.Year != 0 {
		meta.Year = strconv.Itoa(rec.Year)
	}
	meta.Publisher = rec.Publisher
	meta.Journal = rec.Journal
	meta.DOI = rec.DOI
	meta.ISBN = rec.ISBN
	meta.URL = rec.URL
	return meta
}

var titleNoise = regexp.MustCompile(`[«»"'.,;!?()\[\]]+`)

func cleanTitle(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = titleNoise.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// sharedKeywords counts significant words (longer than 4 runes)
// present in both titles.
func sharedKeywords(a, b string) int {
	seen := make(map[string]bool)
	for _, w := range strings.Fields(a) {
		if len([]rune(w)) > 4 {
			seen[w] = true
		}
	}
	n := 0
	counted := make(map[string]bool)
	for _, w := range strings.Fields(b) {
		if len([]rune(w)) > 4 && seen[w] && !counted[w] {
			n++
			counted[w] = true
		}
	}
	return n
}

// matchedSurnames counts record authors whose surname appears in any
// of the extracted author strings.
func matchedSurnames(recAuthors, wantAuthors []string) int {
	n := 0
	for _, ra := range recAuthors {
		rs := surname(ra)
		if rs == "" {
			continue
		}
		for _, wa := range wantAuthors {
			if strings.Contains(strings.ToLower(wa), rs) {
				n++
				break
			}
		}
	}
	return n
}

// exactSurnameMatch requires at least one extracted author whose
// surname token equals a record author's surname token exactly.
func exactSurnameMatch(recAuthors, wantAuthors []string) bool {
	for _, ra := range recAuthors {
		rs := surname(ra)
		if rs == "" {
			continue
		}
		for _, wa := range wantAuthors {
			if surname(wa) == rs {
				return true
			}
		}
	}
	return false
}

// surname returns the lowercased first surname-looking token of an
// author string ("Иванов И.И." and "Иванов, И. И." both yield
// "иванов").
func surname(author string) string {
	author = strings.TrimSpace(author)
	for _, tok := range strings.FieldsFunc(author, func(r rune) bool {
		return r == ' ' || r == ','
	}) {
		tok = strings.TrimRight(tok, ".")
		if len([]rune(tok)) >= 2 {
			return strings.ToLower(tok)
		}
	}
	return ""
}
