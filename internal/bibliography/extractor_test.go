package bibliography

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractFieldsGOSTBook(t *testing.T) {
	raw := "1. Иванов И.И. Экономика предприятия. М.: Наука, 2015. — 320 с."
	f := ExtractFields(raw)

	if f.Year != "2015" {
		t.Errorf("year = %q, want %q", f.Year, "2015")
	}
	if len(f.Authors) != 1 || f.Authors[0] != "Иванов И.И." {
		t.Errorf("authors = %v, want [Иванов И.И.]", f.Authors)
	}
	if f.Title != "Экономика предприятия" {
		t.Errorf("title = %q, want %q", f.Title, "Экономика предприятия")
	}
}

func TestExtractFieldsCommaSeparatedAuthor(t *testing.T) {
	raw := "Грачев, С. А. Бизнес-планирование: учебник. — М., 2020"
	f := ExtractFields(raw)

	if len(f.Authors) == 0 || f.Authors[0] != "Грачев С. А." {
		t.Errorf("authors = %v, want [Грачев С. А.]", f.Authors)
	}
	if f.Title != "Бизнес-планирование" {
		t.Errorf("title = %q, want %q", f.Title, "Бизнес-планирование")
	}
	if f.Year != "2020" {
		t.Errorf("year = %q, want %q", f.Year, "2020")
	}
}

func TestExtractFieldsJournalArticle(t *testing.T) {
	raw := "3. Сидоров С.С. Методы анализа // Вопросы экономики. 2020. № 4. С. 15-28."
	f := ExtractFields(raw)

	if f.Journal != "Вопросы экономики" {
		t.Errorf("journal = %q, want %q", f.Journal, "Вопросы экономики")
	}
	if f.Year != "2020" {
		t.Errorf("year = %q, want %q", f.Year, "2020")
	}
}

func TestExtractFieldsDOIAndISBN(t *testing.T) {
	raw := "Smith J. Machine Learning Methods. Springer, 2021. DOI: 10.1007/978-3-030-12345-6. ISBN: 978-5-4461-0512-0."
	f := ExtractFields(raw)

	// The DOI pattern runs through the trailing period; the providers
	// tolerate it.
	if strings.TrimRight(f.DOI, ".") != "10.1007/978-3-030-12345-6" {
		t.Errorf("doi = %q", f.DOI)
	}
	if f.ISBN != "978-5-4461-0512-0" {
		t.Errorf("isbn = %q, want %q", f.ISBN, "978-5-4461-0512-0")
	}
}

func TestExtractFieldsLatinAuthors(t *testing.T) {
	raw := "Smith J., Brown K. Economic Theory in Practice. Oxford, 2019."
	f := ExtractFields(raw)

	want := []string{"Smith J.", "Brown K."}
	if !reflect.DeepEqual(f.Authors, want) {
		t.Errorf("authors = %v, want %v", f.Authors, want)
	}
}

func TestExtractFieldsIdempotent(t *testing.T) {
	raw := "2. Петров П.П. Финансовый анализ: учебник. СПб.: Питер, 2018. — 256 с."
	first := ExtractFields(raw)
	second := ExtractFields(raw)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestExtractFieldsEmptyOnGarbage(t *testing.T) {
	f := ExtractFields("—")
	if len(f.Authors) != 0 || f.Title != "" || f.Year != "" {
		t.Errorf("expected empty fields, got %+v", f)
	}
}

func TestStripOrdinalPrefix(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"12. Иванов И.И.", "Иванов И.И."},
		{"[3] Smith J.", "Smith J."},
		{"Иванов И.И.", "Иванов И.И."},
	}
	for _, tt := range tests {
		if got := stripOrdinalPrefix(tt.in); got != tt.want {
			t.Errorf("stripOrdinalPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
