// Package verify checks whether a citation is semantically supported
// by the stored full text of the library record matched to its
// bibliography entry.
package verify

import (
	"math"
	"strings"
	"unicode"
)

// Config holds the verification weights and thresholds. The values
// are empirical; keep them as configuration rather than inline
// constants so the policy stays testable.
type Config struct {
	SimilarityWeight float64 `yaml:"similarity_weight"`
	CoverageWeight   float64 `yaml:"coverage_weight"`
	MaxLengthBonus   float64 `yaml:"max_length_bonus"`
	VerifyThreshold  float64 `yaml:"verify_threshold"`

	HighLevel   float64 `yaml:"high_level"`
	MediumLevel float64 `yaml:"medium_level"`
	LowLevel    float64 `yaml:"low_level"`

	// MinParagraphLen discards undersized paragraphs, in runes.
	MinParagraphLen int `yaml:"min_paragraph_len"`
	// MaxParagraphLen bounds sentence-accumulation fallback, in runes.
	MaxParagraphLen int `yaml:"max_paragraph_len"`
	// MaxPhrases caps the key phrases extracted per citation.
	MaxPhrases int `yaml:"max_phrases"`
}

// DefaultConfig returns the standard verification parameters.
func DefaultConfig() Config {
	return Config{
		SimilarityWeight: 0.6,
		CoverageWeight:   0.4,
		MaxLengthBonus:   0.05,
		VerifyThreshold:  0.4,
		HighLevel:        0.7,
		MediumLevel:      0.5,
		LowLevel:         0.3,
		MinParagraphLen:  80,
		MaxParagraphLen:  600,
		MaxPhrases:       5,
	}
}

// Verification levels, banded by best-paragraph similarity.
const (
	LevelHigh    = "high"
	LevelMedium  = "medium"
	LevelLow     = "low"
	LevelVeryLow = "very_low"
)

// Source is the material a citation is verified against.
type Source struct {
	// Text is the stored full text of the matched record.
	Text string
	// Metadata lists the record's author, title and publisher strings,
	// used to skip front-matter paragraphs and metadata-only phrases.
	Metadata []string
}

// Result is the outcome of verifying one citation. Confidence is
// always populated and lies in [0, 100].
type Result struct {
	Verified       bool     `json:"verified"`
	Confidence     float64  `json:"confidence"`
	Level          string   `json:"level"`
	BestFragment   string   `json:"best_fragment,omitempty"`
	PhrasesMatched []string `json:"phrases_matched,omitempty"`
}

// Verifier scores citations against source texts.
type Verifier struct {
	cfg Config
}

// NewVerifier returns a verifier with the given config; zero-value
// configs fall back to the defaults.
func NewVerifier(cfg Config) *Verifier {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	return &Verifier{cfg: cfg}
}

// Verify checks a citation (sentence plus extended context) against
// the source's full text. A missing text yields an unverified result
// with zero confidence, never an error.
func (v *Verifier) Verify(citation string, src Source) Result {
	none := Result{Level: LevelVeryLow, PhrasesMatched: []string{}}
	if strings.TrimSpace(citation) == "" || strings.TrimSpace(src.Text) == "" {
		return none
	}

	metaVocab := metadataVocabulary(src.Metadata)
	phrases := keyPhrases(citation, metaVocab, v.cfg.MaxPhrases)

	paragraphs := splitParagraphs(src.Text, v.cfg.MaxParagraphLen)

	var best Result
	var bestScore, bestSimilarity float64
	for _, p := range paragraphs {
		if v.skipParagraph(p, metaVocab) {
			continue
		}

		sim := similarity(citation, p)

		lower := strings.ToLower(p)
		var matched []string
		for _, phrase := range phrases {
			if strings.Contains(lower, phrase) {
				matched = append(matched, phrase)
			}
		}
		coverage := 0.0
		if len(phrases) > 0 {
			coverage = float64(len(matched)) / float64(len(phrases))
		}

		bonus := math.Min(float64(len([]rune(p)))/10000, v.cfg.MaxLengthBonus)
		score := v.cfg.SimilarityWeight*sim + v.cfg.CoverageWeight*coverage + bonus

		if score > bestScore {
			bestScore = score
			bestSimilarity = sim
			best = Result{
				BestFragment:   truncate(p, 500),
				PhrasesMatched: matched,
			}
		}
	}

	if bestScore == 0 {
		return none
	}

	best.Verified = bestScore >= v.cfg.VerifyThreshold
	best.Confidence = math.Min(bestScore*100, 95)
	best.Level = v.level(bestSimilarity, len(best.PhrasesMatched))
	if best.PhrasesMatched == nil {
		best.PhrasesMatched = []string{}
	}
	if !best.Verified {
		// Below-threshold matches are reported but not credited.
		best.BestFragment = ""
	}
	return best
}

func (v *Verifier) level(sim float64, phrasesMatched int) string {
	switch {
	case sim > v.cfg.HighLevel:
		return LevelHigh
	case sim > v.cfg.MediumLevel:
		return LevelMedium
	case sim > v.cfg.LowLevel || phrasesMatched >= 2:
		return LevelLow
	default:
		return LevelVeryLow
	}
}

// skipParagraph drops undersized paragraphs and ones resembling front
// matter rather than body text.
func (v *Verifier) skipParagraph(p string, metaVocab map[string]bool) bool {
	runes := []rune(p)
	if len(runes) < v.cfg.MinParagraphLen {
		return true
	}

	// Short all-uppercase blocks are headings or title pages.
	if len(runes) < 200 && isAllUpper(p) {
		return true
	}

	// Body prose carries sentence punctuation.
	if !strings.ContainsAny(p, ".!?") {
		return true
	}

	// Paragraphs dominated by the record's own metadata vocabulary
	// are title pages or running headers, not citable content.
	if len(metaVocab) > 0 && len(runes) < 300 {
		words := significantWords(p)
		if len(words) > 0 {
			hits := 0
			for _, w := range words {
				if metaVocab[w] {
					hits++
				}
			}
			if hits*2 > len(words) {
				return true
			}
		}
	}
	return false
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
