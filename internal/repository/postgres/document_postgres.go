package postgres

import (
	"context"
	"database/sql"

	"meddocs/internal/model"
	"meddocs/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Insert persists a new document row and returns the BIGSERIAL-assigned id.
func (r *DocumentPostgres) Insert(ctx context.Context, doc *model.Document) (int64, error) {
	const q = `
		INSERT INTO documents (storage_key, original_name, size_bytes, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, q,
		doc.StorageKey,
		doc.OriginalName,
		doc.Size,
		doc.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// FindByID fetches a single document by its id.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	const q = `
		SELECT id, storage_key, original_name, size_bytes, created_at
		FROM documents
		WHERE id = $1
	`
	var d model.Document
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID,
		&d.StorageKey,
		&d.OriginalName,
		&d.Size,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns every document, newest first. Identical timestamps fall
// back to id order so insertion order is preserved.
func (r *DocumentPostgres) List(ctx context.Context) ([]model.Document, error) {
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
		var d model.Document
		if err := rows.Scan(
			&d.ID,
			&d.StorageKey,
			&d.OriginalName,
			&d.Size,
			&d.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a document by id and reports rows affected.
func (r *DocumentPostgres) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
