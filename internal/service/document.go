package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"meddocs/internal/model"
	"meddocs/internal/repository"
	"meddocs/internal/storage"
)

// Client errors: the caller's fault, surfaced with their reason and never
// retried. Everything else coming out of this package is a server fault.
var (
	ErrNotPDF    = errors.New("only PDF files are allowed")
	ErrEmptyFile = errors.New("empty file not allowed")
	ErrTooLarge  = errors.New("file exceeds the maximum upload size")
	ErrNotFound  = errors.New("document not found")
	ErrReaderNil = errors.New("reader is nil")
)

// ErrBlobMissing reports an index row whose blob is absent. It wraps
// ErrNotFound so the client-facing contract stays a plain not-found, while
// the handler can tell the invariant violation apart for logging.
var ErrBlobMissing = fmt.Errorf("stored content missing: %w", ErrNotFound)

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload validates the content, persists it to the blob store, records
	// metadata, and rolls back the blob if the metadata insert fails.
	// The reader must be seekable: validation and size measurement rewind
	// it before the content is stored.
	Upload(ctx context.Context, r io.ReadSeeker, originalFilename string) (*model.Document, error)

	// List returns every document, newest first.
	List(ctx context.Context) ([]model.Document, error)

	// Download returns the content stream and record for a document.
	// The caller owns closing the reader.
	Download(ctx context.Context, id int64) (io.ReadCloser, *model.Document, error)

	// Delete removes a document's blob and record, blob first.
	Delete(ctx context.Context, id int64) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store    storage.BlobStore
	repo     repository.DocumentRepository
	maxBytes int64
}

// NewDocumentService constructs a new DocumentService. maxBytes is the
// upload size ceiling in bytes.
func NewDocumentService(store storage.BlobStore, repo repository.DocumentRepository, maxBytes int64) DocumentService {
	return &documentService{store: store, repo: repo, maxBytes: maxBytes}
}

// Upload runs the ingestion protocol: validate, measure, store, index,
// re-read. The blob write and the metadata insert cannot share a
// transaction, so ordering plus a compensating delete keeps the stores
// from diverging: a failed insert may leak an orphan blob, but no index
// row ever points at missing content.
func (s *documentService) Upload(ctx context.Context, r io.ReadSeeker, originalFilename string) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	if err := validatePDF(originalFilename, r); err != nil {
		return nil, err
	}

	// Measure the true byte length from the content itself; a
	// caller-declared size is never trusted.
	size, err := measureSize(r)
	if err != nil {
		return nil, fmt.Errorf("measure content size: %w", err)
	}
	if size == 0 {
		return nil, ErrEmptyFile
	}
	if size > s.maxBytes {
		return nil, ErrTooLarge
	}

	key := generateStorageKey(originalFilename)
	if err := s.store.Put(ctx, key, r, size); err != nil {
		return nil, fmt.Errorf("store blob: %w", err)
	}

	id, err := s.repo.Insert(ctx, &model.Document{
		StorageKey:   key,
		OriginalName: originalFilename,
		Size:         size,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		// Compensating action: best-effort delete of the just-written blob
		// so index failures don't silently accumulate orphans. The request
		// context may already be cancelled (a client disconnect is one way
		// the insert fails), so the delete runs detached from it.
		if delErr := s.store.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			return nil, fmt.Errorf("index insert failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("index insert failed: %w", err)
	}

	// Return the canonical server-assigned record, not echoed input. The
	// insert presumably succeeded, so a miss here is surfaced for operator
	// investigation, never rolled back.
	stored, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("re-read inserted document %d: %w", id, err)
	}
	return stored, nil
}

// List returns all records, sorted by creation time descending.
func (s *documentService) List(ctx context.Context) ([]model.Document, error) {
	return s.repo.List(ctx)
}

// Download looks up the record and opens its content for streaming.
func (s *documentService) Download(ctx context.Context, id int64) (io.ReadCloser, *model.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	rc, err := s.store.Get(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Row present, blob gone: a violated invariant, reported to the
			// client as an ordinary absence.
			return nil, nil, fmt.Errorf("document %d key %s: %w", id, doc.StorageKey, ErrBlobMissing)
		}
		return nil, nil, err
	}
	return rc, doc, nil
}

// Delete removes the blob first, then the index row. A crash in between
// leaves an orphan blob, never a row pointing at missing content.
func (s *documentService) Delete(ctx context.Context, id int64) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	// Blob deletion is idempotent; absence at this layer is not an error.
	if err := s.store.Delete(ctx, doc.StorageKey); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}

	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		// A concurrent delete won the race.
		return ErrNotFound
	}
	return nil
}

func measureSize(r io.Seeker) (int64, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return size, nil
}
