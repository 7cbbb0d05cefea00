package codestore

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	db, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	require.NoError(t, err, "failed to connect to in-memory db")
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	store, err := New(db, WithTableName("test_workspace_files"))
	require.NoError(t, err, "failed to create store instance")
	return store
}

func TestUpsertAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	err := store.Upsert(ctx, "ws-1", "app.tsx", "export default App")
	require.NoError(t, err, "Upsert should not error")

	doc, err := store.Get(ctx, "ws-1", "app.tsx")
	require.NoError(t, err, "Get should not error")
	require.Equal(t, "ws-1", doc.WorkspaceID)
	require.Equal(t, "app.tsx", doc.FileName)
	require.Equal(t, "export default App", doc.Source)

	// last write wins
	err = store.Upsert(ctx, "ws-1", "app.tsx", "export default App2")
	require.NoError(t, err)

	doc, err = store.Get(ctx, "ws-1", "app.tsx")
	require.NoError(t, err)
	require.Equal(t, "export default App2", doc.Source)
}

func TestGetMissing(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "ws-none", "app.tsx")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListFiles(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "ws-2", "b.ts", "b"))
	require.NoError(t, store.Upsert(ctx, "ws-2", "a.ts", "a"))
	require.NoError(t, store.Upsert(ctx, "ws-other", "c.ts", "c"))

	files, err := store.ListFiles(ctx, "ws-2")
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, "a.ts", files[0].FileName)
	require.Equal(t, "b.ts", files[1].FileName)
}

func TestExistsAndDel(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "ws-3", "index.html", "<html/>"))

	exists, err := store.Exists(ctx, "ws-3", "index.html")
	require.NoError(t, err, "Exists should not error")
	require.True(t, exists, "file should exist")

	err = store.Del(ctx, "ws-3", "index.html")
	require.NoError(t, err, "Del should not error")

	exists, err = store.Exists(ctx, "ws-3", "index.html")
	require.NoError(t, err, "Exists after deletion should not error")
	require.False(t, exists, "file should not exist after deletion")
}

func TestInvalidKeys(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.Error(t, store.Upsert(ctx, "bad id with spaces", "a.ts", "a"))
	require.Error(t, store.Upsert(ctx, "ws-4", "../etc/passwd", "a"))
	require.Error(t, store.Upsert(ctx, "ws-4", "", "a"))
}
