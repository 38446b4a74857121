package verify

import (
	"strings"
	"testing"
)

const sourceText = `Министерство образования и науки

ЭКОНОМИКА ПРЕДПРИЯТИЯ

Рыночная экономика демонстрирует устойчивый рост производственных показателей в долгосрочной перспективе. Предприятия адаптируют свои стратегии к изменяющимся условиям внешней среды и усиливают конкурентные позиции.

Методика оценки эффективности включает анализ финансовых коэффициентов, рентабельности и оборачиваемости активов. Полученные результаты позволяют сформировать обоснованные управленческие решения.

Совершенно посторонний абзац о кулинарных рецептах и способах приготовления праздничных блюд для большой семьи в зимний период.`

func TestVerifyMatchingCitation(t *testing.T) {
	v := NewVerifier(DefaultConfig())
	citation := "Рыночная экономика демонстрирует устойчивый рост производственных показателей в долгосрочной перспективе [3]. Предприятия адаптируют свои стратегии к изменяющимся условиям внешней среды."

	result := v.Verify(citation, Source{Text: sourceText})

	if !result.Verified {
		t.Fatalf("expected verified=true, got %+v", result)
	}
	if result.Confidence <= 40 {
		t.Errorf("confidence = %f, want > 40", result.Confidence)
	}
	if result.Confidence > 95 {
		t.Errorf("confidence = %f, exceeds cap 95", result.Confidence)
	}
	if result.Level == LevelVeryLow {
		t.Errorf("level = %q for a near-verbatim match", result.Level)
	}
	if result.BestFragment == "" {
		t.Error("expected the matched paragraph in BestFragment")
	}
	if len(result.PhrasesMatched) < 2 {
		t.Errorf("phrases matched = %v, want at least 2", result.PhrasesMatched)
	}
}

func TestVerifyUnrelatedCitation(t *testing.T) {
	v := NewVerifier(DefaultConfig())
	citation := "Квантовая механика описывает поведение элементарных частиц при сверхнизких температурах в лабораторных условиях."

	result := v.Verify(citation, Source{Text: sourceText})

	if result.Verified {
		t.Errorf("expected verified=false, got %+v", result)
	}
	if result.Confidence > 40 {
		t.Errorf("confidence = %f for an unrelated citation", result.Confidence)
	}
}

func TestVerifyEmptyInputs(t *testing.T) {
	v := NewVerifier(DefaultConfig())

	for _, tc := range []struct {
		name     string
		citation string
		text     string
	}{
		{"empty citation", "", sourceText},
		{"empty source", "citation text", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			result := v.Verify(tc.citation, Source{Text: tc.text})
			if result.Verified {
				t.Error("expected verified=false")
			}
			if result.Confidence != 0 {
				t.Errorf("confidence = %f, want 0", result.Confidence)
			}
			if result.Level != LevelVeryLow {
				t.Errorf("level = %q, want very_low", result.Level)
			}
		})
	}
}

func TestVerifySkipsFrontMatter(t *testing.T) {
	v := NewVerifier(DefaultConfig())
	// The citation echoes the record's own title page, which must be
	// filtered out rather than credited.
	citation := "ЭКОНОМИКА ПРЕДПРИЯТИЯ Министерство образования и науки учебное пособие для студентов"

	result := v.Verify(citation, Source{
		Text:     sourceText,
		Metadata: []string{"Экономика предприятия", "Иванов И.И."},
	})

	if result.Verified {
		t.Errorf("front-matter echo verified: %+v", result)
	}
}

func TestSplitParagraphsBlankLines(t *testing.T) {
	paragraphs := splitParagraphs(sourceText, 600)
	if len(paragraphs) != 5 {
		t.Fatalf("paragraphs = %d, want 5", len(paragraphs))
	}
}

func TestSplitParagraphsSentenceFallback(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 20; i++ {
		sb.WriteString("Это предложение входит в сплошной текст без пустых строк между абзацами. ")
	}

	paragraphs := splitParagraphs(sb.String(), 200)
	if len(paragraphs) < 2 {
		t.Fatalf("paragraphs = %d, want sentence-accumulation split", len(paragraphs))
	}
	for _, p := range paragraphs {
		if len([]rune(p)) > 300 {
			t.Errorf("paragraph exceeds accumulation budget: %d runes", len([]rune(p)))
		}
	}
}

func TestSimilarityBounds(t *testing.T) {
	same := similarity("рыночная экономика демонстрирует рост", "рыночная экономика демонстрирует рост")
	if same < 0.99 {
		t.Errorf("identical texts similarity = %f, want ~1", same)
	}

	none := similarity("рыночная экономика", "кулинарные рецепты праздничных блюд")
	if none != 0 {
		t.Errorf("disjoint texts similarity = %f, want 0", none)
	}
}

func TestKeyPhrasesExcludeMetadataVocabulary(t *testing.T) {
	vocab := metadataVocabulary([]string{"экономика предприятия"})
	phrases := keyPhrases("экономика предприятия важна для развития региона", vocab, 5)

	for _, p := range phrases {
		if p == "экономика предприятия" {
			t.Errorf("metadata-only phrase %q survived", p)
		}
	}
	if len(phrases) == 0 {
		t.Error("expected phrases from the non-metadata words")
	}
}

func TestLevelBands(t *testing.T) {
	v := NewVerifier(DefaultConfig())
	tests := []struct {
		sim     float64
		phrases int
		want    string
	}{
		{0.8, 0, LevelHigh},
		{0.6, 0, LevelMedium},
		{0.35, 0, LevelLow},
		{0.1, 2, LevelLow},
		{0.1, 1, LevelVeryLow},
	}
	for _, tt := range tests {
		if got := v.level(tt.sim, tt.phrases); got != tt.want {
			t.Errorf("level(%f, %d) = %q, want %q", tt.sim, tt.phrases, got, tt.want)
		}
	}
}
