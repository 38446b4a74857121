package library

import (
	"errors"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreAddGet(t *testing.T) {
	store := openTestStore(t)

	rec, err := store.Add(Record{
		Title:   "Экономика предприятия",
		Authors: []string{"Иванов И.И."},
		Year:    2015,
		Tags:    []string{"economics"},
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("expected generated ID")
	}
	if rec.CreatedAt.IsZero() || rec.LastUsed.IsZero() {
		t.Error("expected timestamps to be set")
	}

	got, err := store.Get(rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != rec.Title {
		t.Errorf("title = %q, want %q", got.Title, rec.Title)
	}
	if len(got.Authors) != 1 || got.Authors[0] != "Иванов И.И." {
		t.Errorf("authors = %v", got.Authors)
	}
	if got.Year != 2015 {
		t.Errorf("year = %d, want 2015", got.Year)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "economics" {
		t.Errorf("tags = %v", got.Tags)
	}
}

func TestStoreGetMissing(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.Get("no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStoreDelete(t *testing.T) {
	store := openTestStore(t)

	rec, err := store.Add(Record{Title: "Temporary"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Delete(rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("record still present after delete")
	}
	if err := store.Delete(rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestStoreListOrdersByLastUsed(t *testing.T) {
	store := openTestStore(t)

	first, _ := store.Add(Record{Title: "First"})
	second, _ := store.Add(Record{Title: "Second"})

	if err := store.UpdateLastUsed(first.ID); err != nil {
		t.Fatalf("UpdateLastUsed: %v", err)
	}

	recs, err := store.List(1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("list = %d records, want 2", len(recs))
	}
	if recs[0].ID != first.ID {
		t.Errorf("expected the just-used record first, got %q", recs[0].Title)
	}
	_ = second
}

func TestStoreCount(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 3; i++ {
		if _, err := store.Add(Record{Title: "Record"}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	n, err := store.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}

func TestStoreFullText(t *testing.T) {
	store := openTestStore(t)

	rec, err := store.Add(Record{Title: "With text"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := store.FullText(rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound before attach", err)
	}

	const text = "Полный текст источника для проверки цитирования."
	if err := store.AttachFullText(rec.ID, text); err != nil {
		t.Fatalf("AttachFullText: %v", err)
	}

	got, err := store.FullText(rec.ID)
	if err != nil {
		t.Fatalf("FullText: %v", err)
	}
	if got != text {
		t.Errorf("full text = %q, want %q", got, text)
	}

	stored, err := store.Get(rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !stored.FullText {
		t.Error("expected has_full_text flag after attach")
	}
}

func TestStoreAttachFullTextMissingRecord(t *testing.T) {
	store := openTestStore(t)

	if err := store.AttachFullText("no-such-id", "text"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
