package storage

import (
	"context"
	"errors"
	"io"
)

// Package storage contains blob persistence abstractions. Content is
// addressed by storage key only; key uniqueness is the caller's problem,
// but implementations must fail loudly on a key collision rather than
// overwrite existing content.

// ErrNotFound reports that no blob exists under the requested key.
var ErrNotFound = errors.New("blob not found")

// ErrKeyExists reports a write against a key that already holds content.
var ErrKeyExists = errors.New("blob key already exists")

// BlobStore persists raw document content under caller-assigned keys.
// Methods use context and streaming readers; implementations must be safe
// for concurrent use by multiple goroutines.
type BlobStore interface {
	// Put creates a new blob under key from the reader. Size is the exact
	// byte length of the content. Writing to an existing key returns
	// ErrKeyExists without touching the stored content.
	Put(ctx context.Context, key string, r io.Reader, size int64) error
	// Get returns the blob content as a streaming reader, or ErrNotFound.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes a blob by key. Deleting an absent key is not an
	// error; deletion is idempotent.
	Delete(ctx context.Context, key string) error
}
