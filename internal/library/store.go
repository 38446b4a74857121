package library

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned for lookups of records that do not exist.
var ErrNotFound = errors.New("library record not found")

const (
	// DBFile is the SQLite file name inside the library directory.
	DBFile = "library.db"

	// FullTextDir holds per-record full-text blobs, keyed by record ID.
	FullTextDir = "fulltext"

	// DefaultPageSize is the page size for List.
	DefaultPageSize = 20

	// timeLayout is fixed-width so TEXT timestamps sort correctly in
	// ORDER BY last_used.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

const createSourcesTable = `CREATE TABLE IF NOT EXISTS sources (
  id TEXT PRIMARY KEY,
  title TEXT,
  authors_json TEXT,
  year INTEGER,
  source_type TEXT,
  journal TEXT,
  publisher TEXT,
  url TEXT,
  doi TEXT,
  isbn TEXT,
  custom_citation TEXT,
  tags_json TEXT,
  has_full_text INTEGER DEFAULT 0,
  created_at TEXT,
  last_used TEXT
)`

// Store is a single-user library backed by SQLite, with full-text
// blobs stored as files beside the database. Writes are short and
// idempotent; concurrent analyses over the same store must be
// serialized by the caller.
type Store struct {
	dir string
	db  *sql.DB
}

// Open opens (creating if needed) the library store in dir. A missing
// or empty library is not an error.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, DBFile))
	if err != nil {
		return nil, fmt.Errorf("opening library database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createSourcesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &Store{dir: dir, db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add inserts a record, assigning a UUID and timestamps when absent.
// Returns the stored record.
func (s *Store) Add(rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.LastUsed.IsZero() {
		rec.LastUsed = now
	}

	authors, err := json.Marshal(rec.Authors)
	if err != nil {
		return Record{}, fmt.Errorf("encoding authors: %w", err)
	}
	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return Record{}, fmt.Errorf("encoding tags: %w", err)
	}

	_, err = s.db.Exec(`INSERT OR REPLACE INTO sources
  (id, title, authors_json, year, source_type, journal, publisher, url, doi, isbn,
   custom_citation, tags_json, has_full_text, created_at, last_used)
  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, string(authors), rec.Year, rec.SourceType, rec.Journal,
		rec.Publisher, rec.URL, rec.DOI, rec.ISBN, rec.CustomCitation, string(tags),
		boolToInt(rec.FullText), rec.CreatedAt.UTC().Format(timeLayout), rec.LastUsed.UTC().Format(timeLayout))
	if err != nil {
		return Record{}, fmt.Errorf("inserting record: %w", err)
	}
	return rec, nil
}

// Get returns a record by ID.
func (s *Store) Get(id string) (Record, error) {
	row := s.db.QueryRow(selectColumns+" FROM sources WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

// All returns every record in the store. Used by the match engine,
// which scores candidates in memory.
func (s *Store) All() ([]Record, error) {
	rows, err := s.db.Query(selectColumns + " FROM sources")
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// List returns a page of records, most recently used first.
func (s *Store) List(page, limit int) ([]Record, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	rows, err := s.db.Query(
		selectColumns+" FROM sources ORDER BY last_used DESC LIMIT ? OFFSET ?",
		limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// Delete removes a record and its full-text blob.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	os.Remove(s.fullTextPath(id)) // best effort
	return nil
}

// Count returns the number of stored records.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM sources").Scan(&n)
	return n, err
}

// UpdateLastUsed stamps a record as just used. This is the only field
// the analysis pipeline mutates.
func (s *Store) UpdateLastUsed(id string) error {
	_, err := s.db.Exec("UPDATE sources SET last_used = ? WHERE id = ?",
		time.Now().UTC().Format(timeLayout), id)
	return err
}

// AttachFullText stores the extracted full text for a record.
func (s *Store) AttachFullText(id, text string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	dir := filepath.Join(s.dir, FullTextDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating fulltext directory: %w", err)
	}
	if err := os.WriteFile(s.fullTextPath(id), []byte(text), 0644); err != nil {
		return fmt.Errorf("writing full text: %w", err)
	}
	_, err := s.db.Exec("UPDATE sources SET has_full_text = 1 WHERE id = ?", id)
	return err
}

// FullText returns the stored full text for a record, or ErrNotFound
// when none was attached.
func (s *Store) FullText(id string) (string, error) {
	data, err := os.ReadFile(s.fullTextPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("reading full text: %w", err)
	}
	return string(data), nil
}

func (s *Store) fullTextPath(id string) string {
	return filepath.Join(s.dir, FullTextDir, id+".txt")
}

const selectColumns = `SELECT id, title, authors_json, year, source_type, journal,
  publisher, url, doi, isbn, custom_citation, tags_json, has_full_text, created_at, last_used`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var authorsJSON, tagsJSON sql.NullString
	var sourceType, journal, publisher, urlStr, doi, isbn, custom sql.NullString
	var year, hasText sql.NullInt64
	var createdAt, lastUsed sql.NullString

	err := row.Scan(&rec.ID, &rec.Title, &authorsJSON, &year, &sourceType, &journal,
		&publisher, &urlStr, &doi, &isbn, &custom, &tagsJSON, &hasText, &createdAt, &lastUsed)
	if err != nil {
		return Record{}, err
	}

	if authorsJSON.Valid && authorsJSON.String != "" {
		json.Unmarshal([]byte(authorsJSON.String), &rec.Authors)
	}
	if tagsJSON.Valid && tagsJSON.String != "" {
		json.Unmarshal([]byte(tagsJSON.String), &rec.Tags)
	}
	rec.Year = int(year.Int64)
	rec.SourceType = sourceType.String
	rec.Journal = journal.String
	rec.Publisher = publisher.String
	rec.URL = urlStr.String
	rec.DOI = doi.String
	rec.ISBN = isbn.String
	rec.CustomCitation = custom.String
	rec.FullText = hasText.Int64 != 0
	if createdAt.Valid {
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt.String)
	}
	if lastUsed.Valid {
		rec.LastUsed, _ = time.Parse(time.RFC3339Nano, lastUsed.String)
	}
	return rec, nil
}

func collectRecords(rows *sql.Rows) ([]Record, error) {
	var recs []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
