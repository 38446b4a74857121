package search

import "testing"

func TestDeduplicateByDOI(t *testing.T) {
	pool := []Metadata{
		{Source: SourceCrossref, DOI: "10.1000/ABC", Confidence: 0.5},
		{Source: SourceGoogleBooks, DOI: "10.1000/abc", Confidence: 0.9},
	}

	out := Deduplicate(pool)
	if len(out) != 1 {
		t.Fatalf("deduped = %d, want 1", len(out))
	}
	if out[0].Confidence != 0.9 {
		t.Errorf("kept confidence = %f, want the higher 0.9", out[0].Confidence)
	}
}

func TestDeduplicateByNormalizedTitle(t *testing.T) {
	pool := []Metadata{
		{Source: SourceOpenLibrary, Title: "Экономика предприятия!", Confidence: 0.6},
		{Source: SourceGoogleBooks, Title: "экономика предприятия", Confidence: 0.4},
		{Source: SourceCrossref, Title: "Совсем другая работа", Confidence: 0.5},
	}

	out := Deduplicate(pool)
	if len(out) != 2 {
		t.Fatalf("deduped = %d, want 2", len(out))
	}
	if out[0].Confidence != 0.6 {
		t.Errorf("expected confidence-descending order, first = %f", out[0].Confidence)
	}
}

func TestDeduplicateDropsKeyless(t *testing.T) {
	pool := []Metadata{{Source: SourceArxiv, Confidence: 0.7}}
	if out := Deduplicate(pool); len(out) != 0 {
		t.Errorf("candidate without doi/isbn/title survived: %v", out)
	}
}
