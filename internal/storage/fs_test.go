package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFS(t *testing.T) BlobStore {
	t.Helper()
	s, err := NewFS(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return s
}

func TestNewFS(t *testing.T) {
	t.Run("creates root eagerly", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "nested", "uploads")
		_, err := NewFS(root)
		require.NoError(t, err)

		info, err := os.Stat(root)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("empty root rejected", func(t *testing.T) {
		_, err := NewFS("  ")
		assert.Error(t, err)
	})
}

func TestFSPutGetRoundTrip(t *testing.T) {
	s := newTestFS(t)
	ctx := context.Background()
	content := []byte("%PDF-1.4 round trip payload")

	require.NoError(t, s.Put(ctx, "1700000000-1234-scan.pdf", bytes.NewReader(content), int64(len(content))))

	rc, err := s.Get(ctx, "1700000000-1234-scan.pdf")
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestFSPutExistingKey(t *testing.T) {
	s := newTestFS(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k.pdf", strings.NewReader("first"), 5))

	err := s.Put(ctx, "k.pdf", strings.NewReader("second"), 6)
	assert.ErrorIs(t, err, ErrKeyExists)

	// Original content must be untouched.
	rc, err := s.Get(ctx, "k.pdf")
	require.NoError(t, err)
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	assert.Equal(t, "first", string(got))
}

func TestFSPutSizeMismatch(t *testing.T) {
	s := newTestFS(t)
	ctx := context.Background()

	err := s.Put(ctx, "short.pdf", strings.NewReader("abc"), 10)
	require.Error(t, err)

	// A failed write must not leave a partial blob behind.
	_, err = s.Get(ctx, "short.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSGetMissing(t *testing.T) {
	s := newTestFS(t)
	_, err := s.Get(context.Background(), "absent.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSDeleteIdempotent(t *testing.T) {
	s := newTestFS(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "gone.pdf", strings.NewReader("x"), 1))
	require.NoError(t, s.Delete(ctx, "gone.pdf"))

	_, err := s.Get(ctx, "gone.pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	// Second delete is a no-op, not an error.
	assert.NoError(t, s.Delete(ctx, "gone.pdf"))
}

func TestFSRejectsTraversalKeys(t *testing.T) {
	s := newTestFS(t)
	ctx := context.Background()

	for _, key := range []string{"", "  ", "../escape.pdf", "/etc/passwd", "a/b.pdf", "."} {
		t.Run(key, func(t *testing.T) {
			err := s.Put(ctx, key, strings.NewReader("x"), 1)
			assert.Error(t, err)
			_, err = s.Get(ctx, key)
			assert.Error(t, err)
		})
	}
}
