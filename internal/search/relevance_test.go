package search

import "testing"

func TestIsRelevant(t *testing.T) {
	tests := []struct {
		name      string
		candidate Metadata
		original  string
		want      bool
	}{
		{
			"shared title keywords",
			Metadata{Title: "Экономика предприятия"},
			"Иванов И.И. Экономика предприятия. М.: Наука, 2015.",
			true,
		},
		{
			"author surname overlap",
			Metadata{Title: "Another Title Entirely", Authors: []string{"John Ivanov"}},
			"Ivanov J. Selected works on economics, 2015.",
			true,
		},
		{
			"known work short title",
			Metadata{Title: "1984"},
			"Оруэлл Дж. 1984: роман. orwell george. М.: АСТ, 2015.",
			true,
		},
		{
			"unrelated",
			Metadata{Title: "Cooking for Beginners", Authors: []string{"Jane Doe"}},
			"Иванов И.И. Экономика предприятия. М.: Наука, 2015.",
			false,
		},
		{
			"stopword-only overlap",
			Metadata{Title: "Учебник университет издание"},
			"Петров П.П. Учебник для университет издание второе.",
			false,
		},
		{
			"empty title",
			Metadata{},
			"Иванов И.И. Экономика предприятия.",
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRelevant(tt.candidate, tt.original); got != tt.want {
				t.Errorf("IsRelevant = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestBuildQueries(t *testing.T) {
	params := Params{
		RawText: "1. Иванов И.И. Экономика предприятия: учебник [Текст]. М.: Наука, 2015. — 320 с.",
		Authors: []string{"Иванов И.И."},
		Title:   "Экономика предприятия",
	}

	queries := BuildQueries(params)
	if len(queries) == 0 {
		t.Fatal("expected at least one query")
	}
	if len(queries) > MaxQueries {
		t.Fatalf("queries = %d, exceeds cap %d", len(queries), MaxQueries)
	}

	seen := make(map[string]bool)
	for _, q := range queries {
		if len([]rune(q)) <= minQueryLen {
			t.Errorf("degenerate query %q", q)
		}
		if seen[q] {
			t.Errorf("duplicate query %q", q)
		}
		seen[q] = true
	}

	last := queries[len(queries)-1]
	if last != "Экономика предприятия" {
		t.Errorf("last query = %q, want the bare title", last)
	}
}

func TestBuildQueriesEmptyEntry(t *testing.T) {
	if queries := BuildQueries(Params{RawText: "—"}); len(queries) != 0 {
		t.Errorf("queries from garbage = %v, want none", queries)
	}
}
