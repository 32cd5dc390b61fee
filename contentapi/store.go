package contentapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/spacetraveling/prismic"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = sql.ErrNoRows

// Order selects the column documents are listed by.
type Order string

const (
	OrderLastPublication  Order = "last_publication_date"
	OrderFirstPublication Order = "first_publication_date"
)

// Store wraps a SQLite database of API documents.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the importer write while the API serves reads; writers wait
	// on the busy timeout instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    uid TEXT NOT NULL,
    type TEXT NOT NULL,
    first_publication_date TEXT NOT NULL,
    last_publication_date TEXT NOT NULL,
    data TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS documents_type_uid ON documents(type, uid);
`)
	return err
}

// Record is a stored document with parsed timestamps.
type Record struct {
	ID               string
	UID              string
	Type             string
	FirstPublication time.Time
	LastPublication  time.Time
	Data             prismic.DocumentData
}

// Document converts r into its API representation.
func (r Record) Document() prismic.Document {
	first := prismic.FormatTime(r.FirstPublication)
	last := prismic.FormatTime(r.LastPublication)
	return prismic.Document{
		ID:                   r.ID,
		UID:                  r.UID,
		Type:                 r.Type,
		FirstPublicationDate: &first,
		LastPublicationDate:  &last,
		Data:                 r.Data,
	}
}

// storeTime renders t in UTC so that text ordering matches time ordering.
func storeTime(t time.Time) string {
	return t.UTC().Format(prismic.TimeLayout)
}

// SaveDocument upserts r. A document keeps its original id and first
// publication date when one with the same type and uid already exists.
func (s *Store) SaveDocument(ctx context.Context, r Record) error {
	data, err := json.Marshal(r.Data)
	if err != nil {
		return fmt.Errorf("encode data: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO documents (id, uid, type, first_publication_date, last_publication_date, data)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(type, uid) DO UPDATE SET
    last_publication_date = excluded.last_publication_date,
    data = excluded.data`,
		r.ID, r.UID, r.Type, storeTime(r.FirstPublication), storeTime(r.LastPublication), string(data))
	return err
}

// GetDocument returns a document by id.
func (s *Store) GetDocument(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, uid, type, first_publication_date, last_publication_date, data FROM documents WHERE id = ?`, id)
	return scanRecord(row)
}

// GetByUID returns a document of docType by uid.
func (s *Store) GetByUID(ctx context.Context, docType, uid string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, uid, type, first_publication_date, last_publication_date, data FROM documents WHERE type = ? AND uid = ?`, docType, uid)
	return scanRecord(row)
}

// ListDocuments returns documents of docType ordered by order, limited and
// offset for paging. An empty docType lists every type.
func (s *Store) ListDocuments(ctx context.Context, docType string, order Order, desc bool, limit, offset int) ([]Record, error) {
	column := string(OrderLastPublication)
	if order == OrderFirstPublication {
		column = string(OrderFirstPublication)
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	query := `SELECT id, uid, type, first_publication_date, last_publication_date, data FROM documents`
	var args []any
	if docType != "" {
		query += ` WHERE type = ?`
		args = append(args, docType)
	}
	query += ` ORDER BY ` + column + ` ` + dir + `, uid ` + dir + ` LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountDocuments returns the number of documents of docType.
func (s *Store) CountDocuments(ctx context.Context, docType string) (int, error) {
	var n int
	var err error
	if docType == "" {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE type = ?`, docType).Scan(&n)
	}
	return n, err
}

// DeleteDocument removes a document of docType by uid.
func (s *Store) DeleteDocument(ctx context.Context, docType, uid string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE type = ? AND uid = ?`, docType, uid)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var r Record
	var first, last, data string
	if err := row.Scan(&r.ID, &r.UID, &r.Type, &first, &last, &data); err != nil {
		return Record{}, err
	}
	var err error
	if r.FirstPublication, err = time.Parse(prismic.TimeLayout, first); err != nil {
		return Record{}, fmt.Errorf("parse first_publication_date: %w", err)
	}
	if r.LastPublication, err = time.Parse(prismic.TimeLayout, last); err != nil {
		return Record{}, fmt.Errorf("parse last_publication_date: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &r.Data); err != nil {
		return Record{}, fmt.Errorf("decode data: %w", err)
	}
	return r, nil
}

// IsNotFound reports whether err means the document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
