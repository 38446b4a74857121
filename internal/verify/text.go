package verify

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

var (
	blankLinePattern = regexp.MustCompile(`\n\s*\n`)
	sentenceEnd      = regexp.MustCompile(`(?m)([.!?])\s+`)
	nonWordPattern   = regexp.MustCompile(`[^\p{L}\p{N}\s.,!?;:()"'\-]+`)
)

// splitParagraphs splits a source text into paragraphs on blank
// lines. Texts without blank-line structure fall back to accumulating
// sentences up to maxLen runes per paragraph.
func splitParagraphs(text string, maxLen int) []string {
	var out []string
	for _, p := range blankLinePattern.Split(text, -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) > 1 {
		return out
	}

	return accumulateSentences(text, maxLen)
}

func accumulateSentences(text string, maxLen int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	sentences := sentenceEnd.Split(text, -1)
	ends := sentenceEnd.FindAllStringSubmatch(text, -1)

	var out []string
	var buf strings.Builder
	bufLen := 0
	for i, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if i < len(ends) {
			s += ends[i][1]
		}
		n := len([]rune(s))
		if bufLen > 0 && bufLen+n > maxLen {
			out = append(out, buf.String())
			buf.Reset()
			bufLen = 0
		}
		if bufLen > 0 {
			buf.WriteByte(' ')
			bufLen++
		}
		buf.WriteString(s)
		bufLen += n
	}
	if buf.Len() > 0 {
		out = append(out, buf.String())
	}
	return out
}

// similarity computes term-frequency cosine similarity between two
// texts, blended with Jaccard overlap when either text is short
// enough that sparse vectors misrepresent it.
func similarity(a, b string) float64 {
	ta := termFrequencies(a)
	tb := termFrequencies(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	cos := cosine(ta, tb)
	if len(ta) >= 15 && len(tb) >= 15 {
		return cos
	}
	return 0.5*cos + 0.5*jaccard(ta, tb)
}

// termFrequencies counts raw occurrences of each significant word.
func termFrequencies(text string) map[string]int {
	out := make(map[string]int)
	for _, w := range significantWords(text) {
		out[w]++
	}
	return out
}

func cosine(a, b map[string]int) float64 {
	var dot, na, nb float64
	for term, fa := range a {
		na += float64(fa * fa)
		if fb, ok := b[term]; ok {
			dot += float64(fa * fb)
		}
	}
	for _, fb := range b {
		nb += float64(fb * fb)
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func jaccard(a, b map[string]int) float64 {
	inter := 0
	for term := range a {
		if _, ok := b[term]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// keyPhrases extracts up to max frequency-ranked 1..3-gram phrases
// from the citation, skipping stopwords and phrases built solely from
// the record's own metadata vocabulary.
func keyPhrases(text string, metaVocab map[string]bool, max int) []string {
	words := significantWords(text)
	if len(words) == 0 {
		return nil
	}

	counts := make(map[string]int)
	order := make(map[string]int)
	rank := 0
	add := func(phrase string, n int) {
		// Weight longer n-grams so distinctive phrases outrank
		// single words with equal frequency.
		counts[phrase] += n
		if _, ok := order[phrase]; !ok {
			order[phrase] = rank
			rank++
		}
	}

	for i, w := range words {
		if !metaVocab[w] {
			add(w, 1)
		}
		if i+1 < len(words) {
			if !metaVocab[words[i]] || !metaVocab[words[i+1]] {
				add(words[i]+" "+words[i+1], 2)
			}
		}
		if i+2 < len(words) {
			if !metaVocab[words[i]] || !metaVocab[words[i+1]] || !metaVocab[words[i+2]] {
				add(words[i]+" "+words[i+1]+" "+words[i+2], 3)
			}
		}
	}

	type scored struct {
		phrase string
		weight int
	}
	ranked := make([]scored, 0, len(counts))
	for phrase, weight := range counts {
		ranked = append(ranked, scored{phrase, weight})
	}
	// Stable ordering: weight descending, then first occurrence.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0; j-- {
			a, b := ranked[j-1], ranked[j]
			if b.weight > a.weight || (b.weight == a.weight && order[b.phrase] < order[a.phrase]) {
				ranked[j-1], ranked[j] = b, a
			} else {
				break
			}
		}
	}

	if max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.phrase
	}
	return out
}

// significantWords lowercases, strips punctuation and drops stopwords
// and words of 2 runes or fewer.
func significantWords(text string) []string {
	text = strings.ToLower(text)
	text = nonWordPattern.ReplaceAllString(text, " ")

	var out []string
	for _, w := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-'
	}) {
		w = strings.Trim(w, "-")
		if len([]rune(w)) <= 2 || stopwords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

func metadataVocabulary(metadata []string) map[string]bool {
	vocab := make(map[string]bool)
	for _, m := range metadata {
		for _, w := range significantWords(m) {
			vocab[w] = true
		}
	}
	return vocab
}

// stopwords covers the Russian and English function words dominant in
// academic prose.
var stopwords = map[string]bool{}

func init() {
	for _, w := range []string{
		// Russian
		"или", "что", "как", "все", "она", "так", "его", "это", "этот",
		"только", "было", "еще", "нет", "ему", "теперь", "когда", "даже",
		"если", "уже", "быть", "был", "него", "вас", "опять", "вам",
		"ведь", "там", "потом", "себя", "ничего", "может", "они", "тут",
		"где", "есть", "надо", "ней", "для", "тебя", "чем", "была",
		"сам", "чтоб", "без", "будто", "чего", "раз", "тоже", "себе",
		"под", "будет", "тогда", "кто", "того", "потому", "этого",
		"какой", "совсем", "ним", "здесь", "этом", "один", "почти",
		"мой", "тем", "чтобы", "нее", "сейчас", "были", "куда", "зачем",
		"всех", "никогда", "можно", "при", "наконец", "два", "другой",
		"хоть", "после", "над", "больше", "тот", "через", "эти", "нас",
		"про", "всего", "них", "какая", "много", "разве", "три", "эту",
		"моя", "впрочем", "хорошо", "свою", "этой", "перед", "иногда",
		"лучше", "чуть", "том", "нельзя", "такой", "более", "всегда",
		"конечно", "всю", "между", "также", "который", "которых",
		// English
		"the", "and", "for", "are", "but", "not", "you", "all", "can",
		"her", "was", "one", "our", "out", "has", "have", "had", "this",
		"that", "with", "from", "they", "been", "were", "which", "their",
		"will", "would", "there", "what", "about", "when", "than",
		"them", "these", "some", "its", "into", "also", "such", "may",
		"more", "other", "both", "between", "each", "because", "while",
	} {
		stopwords[w] = true
	}
}
