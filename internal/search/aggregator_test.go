package search

import (
	"strings"
	"testing"
)

func TestAggregatorLookupBook(t *testing.T) {
	agg := NewAggregator()
	params := Params{
		RawText: "Иванов И.И. Экономика предприятия. М.: Наука, 2015. — 320 с.",
		Authors: []string{"Иванов И.И."},
		Title:   "Экономика предприятия",
		Year:    "2015",
	}

	hit := agg.Lookup(params)
	if hit == nil {
		t.Fatal("expected an RSL hit for a Cyrillic book entry")
	}
	if hit.Source != SourceRSL {
		t.Errorf("source = %q, want %q", hit.Source, SourceRSL)
	}
	if hit.Confidence != rslConfidence {
		t.Errorf("confidence = %f, want %f", hit.Confidence, rslConfidence)
	}
	if !hit.SearchLink {
		t.Error("aggregator hit must be marked as a search link")
	}
	if !strings.HasPrefix(hit.URL, rslSearchURL) {
		t.Errorf("url = %q", hit.URL)
	}
}

func TestAggregatorLookupArticle(t *testing.T) {
	agg := NewAggregator()
	params := Params{
		RawText: "Сидоров С.С. Методы анализа // Вопросы экономики. 2020. № 4.",
		Title:   "Методы анализа",
	}

	hit := agg.Lookup(params)
	if hit == nil {
		t.Fatal("expected a Cyberleninka hit for a journal entry")
	}
	if hit.Source != SourceCyberleninka {
		t.Errorf("source = %q, want %q", hit.Source, SourceCyberleninka)
	}
	if hit.Confidence != cyberleninkaConfidence {
		t.Errorf("confidence = %f", hit.Confidence)
	}
}

func TestAggregatorSkipsNonCyrillic(t *testing.T) {
	agg := NewAggregator()
	params := Params{
		RawText: "Smith J. Economic Theory in Practice. Oxford, 2019.",
		Title:   "Economic Theory in Practice",
	}

	if hit := agg.Lookup(params); hit != nil {
		t.Errorf("expected nil for a non-Cyrillic entry, got %+v", hit)
	}
}

func TestAggregatorFallback(t *testing.T) {
	agg := NewAggregator()
	params := Params{
		RawText: "Петров П.П. Финансовый анализ",
		Title:   "Финансовый анализ",
	}

	hit := agg.FallbackLookup(params)
	if hit == nil {
		t.Fatal("expected an eLibrary fallback hit")
	}
	if hit.Source != SourceELibrary || hit.Confidence != elibraryConfidence {
		t.Errorf("source = %q confidence = %f", hit.Source, hit.Confidence)
	}
}

func TestAggregatorQueryPreference(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{
			"authors and title",
			Params{Authors: []string{"Иванов И.И."}, Title: "Экономика"},
			"Иванов И.И. Экономика",
		},
		{
			"title only",
			Params{Title: "Экономика"},
			"Экономика",
		},
		{
			"raw text prefix",
			Params{RawText: "Экономика предприятия без полей"},
			"Экономика предприятия без полей",
		},
		{"empty", Params{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := aggregatorQuery(tt.params); got != tt.want {
				t.Errorf("aggregatorQuery = %q, want %q", got, tt.want)
			}
		})
	}
}
