package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"meddocs/internal/database/migration"
	"meddocs/internal/model"
)

func newTestRepo(t *testing.T) *DocumentSQLite {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migration.EnsureMigrated(context.Background(), db, "sqlite"))
	return NewDocumentSQLite(db)
}

func testDoc(key string, createdAt time.Time) *model.Document {
	return &model.Document{
		StorageKey:   key,
		OriginalName: "scan.pdf",
		Size:         42,
		CreatedAt:    createdAt,
	}
}

func TestInsertAndFindByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	id, err := repo.Insert(ctx, testDoc("1700000000-1234-scan.pdf", now))
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "1700000000-1234-scan.pdf", got.StorageKey)
	assert.Equal(t, "scan.pdf", got.OriginalName)
	assert.Equal(t, int64(42), got.Size)
	assert.True(t, got.CreatedAt.Equal(now), "want %v, got %v", now, got.CreatedAt)
}

func TestFindByIDMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByID(context.Background(), 12345)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestInsertDuplicateKeyFails(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := repo.Insert(ctx, testDoc("dup-key.pdf", now))
	require.NoError(t, err)

	// storage_key carries a UNIQUE constraint; a generator collision must
	// surface as a detectable error, not silent corruption.
	_, err = repo.Insert(ctx, testDoc("dup-key.pdf", now))
	assert.Error(t, err)
}

func TestListOrdering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Inserted out of chronological order on purpose.
	_, err := repo.Insert(ctx, testDoc("t2.pdf", base.Add(2*time.Second)))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, testDoc("t1.pdf", base.Add(1*time.Second)))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, testDoc("t3.pdf", base.Add(3*time.Second)))
	require.NoError(t, err)

	docs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "t3.pdf", docs[0].StorageKey)
	assert.Equal(t, "t2.pdf", docs[1].StorageKey)
	assert.Equal(t, "t1.pdf", docs[2].StorageKey)
}

func TestListTiebreakPreservesInsertionOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	firstID, err := repo.Insert(ctx, testDoc("a.pdf", now))
	require.NoError(t, err)
	secondID, err := repo.Insert(ctx, testDoc("b.pdf", now))
	require.NoError(t, err)
	require.Greater(t, secondID, firstID)

	docs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, secondID, docs[0].ID)
	assert.Equal(t, firstID, docs[1].ID)
}

func TestListEmpty(t *testing.T) {
	repo := newTestRepo(t)

	docs, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Insert(ctx, testDoc("del.pdf", time.Now().UTC()))
	require.NoError(t, err)

	n, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Second delete affects zero rows.
	n, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = repo.FindByID(ctx, id)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestIDsNotReusedAfterDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Insert(ctx, testDoc("one.pdf", time.Now().UTC()))
	require.NoError(t, err)

	_, err = repo.Delete(ctx, first)
	require.NoError(t, err)

	second, err := repo.Insert(ctx, testDoc("two.pdf", time.Now().UTC()))
	require.NoError(t, err)
	assert.Greater(t, second, first)
}
