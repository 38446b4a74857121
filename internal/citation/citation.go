// Package citation locates in-text citation markers and their
// enclosing sentences.
package citation

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/refcheck/refcheck/internal/document"
)

// Config holds the locator's tunable limits.
type Config struct {
	SentenceScan   int    // max chars scanned in each direction for a terminator
	ContextWindow  int    // chars taken on each side for the extended context
	MinSentenceLen int    // sentences shorter than this widen to the window
	MaxJoined      int    // cap for concatenated recurring-marker contexts
	Separator      string // joins contexts of recurring markers
}

// DefaultConfig returns the locator limits used by the pipeline.
func DefaultConfig() Config {
	return Config{
		SentenceScan:   300,
		ContextWindow:  100,
		MinSentenceLen: 20,
		MaxJoined:      800,
		Separator:      " … ",
	}
}

// Occurrence is a single appearance of a marker in the document.
type Occurrence struct {
	Sentence string `json:"sentence"`
	Context  string `json:"context"`
	Page     int    `json:"page"`
}

// Marker is a unique citation marker with all of its occurrences.
// Numeric markers carry the resolved integer; bracket tokens like
// "[3-5]" expand into one Marker per integer. Non-numeric tokens keep
// Number == 0 and are later reported as unsupported.
type Marker struct {
	Label       string       `json:"marker"`
	Number      int          `json:"number,omitempty"`
	Sentence    string       `json:"sentence"`
	Context     string       `json:"context"`
	Page        int          `json:"page"`
	Occurrences []Occurrence `json:"occurrences,omitempty"`
}

var bracketPattern = regexp.MustCompile(`\[([^\[\]]+)\]`)

// Token idioms that look like citations but are not.
var denyTokens = []string{
	"электронный ресурс",
	"electronic resource",
	"рис.",
	"см. рис",
	"табл.",
	"fig.",
	"прил.",
}

// Locate scans prose fragments for bracketed citation markers and
// returns the unique marker set sorted by number, then label.
// Denylisted tokens are dropped silently.
func Locate(frags []document.Fragment, cfg Config) []Marker {
	byLabel := make(map[string]*Marker)
	var order []string

	for _, frag := range frags {
		if !frag.IsProse() {
			continue
		}

		for _, m := range bracketPattern.FindAllStringSubmatchIndex(frag.Content, -1) {
			token := frag.Content[m[2]:m[3]]
			labels := expandToken(token)
			if len(labels) == 0 {
				continue
			}

			occ := occurrenceAt(frag, m[0], m[1], cfg)
			for _, label := range labels {
				mk, ok := byLabel[label]
				if !ok {
					n, _ := strconv.Atoi(label)
					mk = &Marker{Label: label, Number: n, Page: occ.Page}
					byLabel[label] = mk
					order = append(order, label)
				}
				mk.Occurrences = append(mk.Occurrences, occ)
			}
		}
	}

	markers := make([]Marker, 0, len(order))
	for _, label := range order {
		mk := byLabel[label]
		mk.Sentence = joinTruncated(sentences(mk.Occurrences), cfg.Separator, cfg.MaxJoined)
		mk.Context = joinTruncated(contexts(mk.Occurrences), cfg.Separator, cfg.MaxJoined)
		markers = append(markers, *mk)
	}

	sort.SliceStable(markers, func(i, j int) bool {
		a, b := markers[i], markers[j]
		if (a.Number > 0) != (b.Number > 0) {
			return a.Number > 0 // numeric markers first
		}
		if a.Number != b.Number {
			return a.Number < b.Number
		}
		return a.Label < b.Label
	})
	return markers
}

// expandToken resolves a bracket token into marker labels.
// "1" -> ["1"]; "2,4" -> ["2","4"]; "3-5" -> ["3","4","5"].
// Denylisted idioms return nil. Non-numeric parts are kept verbatim
// as unsupported labels, so a mixed token like "1, прочее" still
// yields its numeric markers.
func expandToken(token string) []string {
	lower := strings.ToLower(strings.TrimSpace(token))
	if lower == "" {
		return nil
	}
	for _, deny := range denyTokens {
		if strings.Contains(lower, deny) {
			return nil
		}
	}

	var labels []string
	for _, part := range strings.Split(token, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if start, end, ok := parseRange(part); ok {
			for n := start; n <= end; n++ {
				labels = append(labels, strconv.Itoa(n))
			}
			continue
		}
		if _, err := strconv.Atoi(part); err == nil {
			labels = append(labels, part)
			continue
		}
		// Author-style or malformed part: keep it so the resolver can
		// report it as unsupported rather than losing it.
		labels = append(labels, part)
	}
	return labels
}

// parseRange parses "n-m" dash ranges, tolerating en and em dashes.
func parseRange(part string) (start, end int, ok bool) {
	for _, dash := range []string{"-", "–", "—"} {
		if !strings.Contains(part, dash) {
			continue
		}
		pieces := strings.SplitN(part, dash, 2)
		a, errA := strconv.Atoi(strings.TrimSpace(pieces[0]))
		b, errB := strconv.Atoi(strings.TrimSpace(pieces[1]))
		if errA != nil || errB != nil || a > b {
			return 0, 0, false
		}
		return a, b, true
	}
	return 0, 0, false
}

func sentences(occs []Occurrence) []string {
	out := make([]string, 0, len(occs))
	for _, o := range occs {
		out = append(out, o.Sentence)
	}
	return out
}

func contexts(occs []Occurrence) []string {
	out := make([]string, 0, len(occs))
	for _, o := range occs {
		out = append(out, o.Context)
	}
	return out
}

// joinTruncated concatenates parts with sep, keeping the head and tail
// when the result exceeds max runes. Slicing happens on rune
// boundaries so multi-byte text survives truncation intact.
func joinTruncated(parts []string, sep string, max int) string {
	joined := strings.Join(dedupeStrings(parts), sep)
	runes := []rune(joined)
	if max <= 0 || len(runes) <= max {
		return joined
	}
	half := (max - len([]rune(sep))) / 2
	return string(runes[:half]) + sep + string(runes[len(runes)-half:])
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
