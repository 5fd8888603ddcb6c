package sqlite

import (
	"context"
	"database/sql"
	"time"

	"meddocs/internal/model"
	"meddocs/internal/repository"
)

// timeLayout is a fixed-width UTC layout so that lexicographic ordering of
// stored values matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// DocumentSQLite is an embedded SQLite implementation of
// repository.DocumentRepository, backed by modernc.org/sqlite via
// database/sql. Timestamps are stored as fixed-width UTC text.
type DocumentSQLite struct {
	db *sql.DB
}

// NewDocumentSQLite creates a new DocumentSQLite repository.
func NewDocumentSQLite(db *sql.DB) *DocumentSQLite {
	return &DocumentSQLite{db: db}
}

var _ repository.DocumentRepository = (*DocumentSQLite)(nil)

// Insert persists a new document row and returns the AUTOINCREMENT id.
func (r *DocumentSQLite) Insert(ctx context.Context, doc *model.Document) (int64, error) {
	const q = `
		INSERT INTO documents (storage_key, original_name, size_bytes, created_at)
		VALUES (?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, q,
		doc.StorageKey,
		doc.OriginalName,
		doc.Size,
		formatTime(doc.CreatedAt),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// FindByID fetches a single document by its id.
func (r *DocumentSQLite) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	const q = `
		SELECT id, storage_key, original_name, size_bytes, created_at
		FROM documents
		WHERE id = ?
	`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// List returns every document, newest first, with id as the tiebreak so
// insertion order is preserved within one timestamp.
func (r *DocumentSQLite) List(ctx context.Context) ([]model.Document, error) {
	const q = `
		SELECT id, storage_key, original_name, size_bytes, created_at
		FROM documents
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a document by id and reports rows affected.
func (r *DocumentSQLite) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM documents WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanDocument(scanner interface{ Scan(dest ...any) error }) (*model.Document, error) {
	var (
		d  model.Document
		ts string
	)
	if err := scanner.Scan(
		&d.ID,
		&d.StorageKey,
		&d.OriginalName,
		&d.Size,
		&ts,
	); err != nil {
		return nil, err
	}
	created, err := parseTime(ts)
	if err != nil {
		return nil, err
	}
	d.CreatedAt = created
	return &d, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(timeLayout, value)
}
