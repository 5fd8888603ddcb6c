package repository

import (
	"context"

	"meddocs/internal/model"
)

// DocumentRepository defines data access for document records using SQL
// queries only. No business logic here, strictly persistence operations.
// Implementations live in subpackages (sqlite, postgres).
//
// Every mutation commits durably before the call returns; there is no
// deferred or batched commit visible to callers.
type DocumentRepository interface {
	// Insert persists a new record and returns the index-assigned id.
	// The id sequence is monotonic and never reuses values, even after
	// deletion.
	Insert(ctx context.Context, doc *model.Document) (int64, error)

	// FindByID returns a record by its id, or sql.ErrNoRows if absent.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// List returns every record ordered by created_at descending, with
	// insertion order as the tiebreak. The scan is deliberately unbounded;
	// pagination is out of contract.
	List(ctx context.Context) ([]model.Document, error)

	// Delete removes a record by id and reports the number of rows
	// affected; 0 signals the id did not exist.
	Delete(ctx context.Context, id int64) (int64, error)
}
