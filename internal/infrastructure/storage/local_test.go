package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rishitj1972/Secure-Share/backend/pkg/apperror"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func writeTempFile(t *testing.T, dir string, content string) string {
	t.Helper()
	f, err := os.CreateTemp(dir, "in-*")
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestLocalStore_StoreAndOpenChunk(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.CreateNamespace(ctx, "upload-1"))

	src := writeTempFile(t, store.uploadDir, "chunk data")
	require.NoError(t, store.StoreChunk(ctx, "upload-1", 1, src))

	// rename済みなので元の一時ファイルは消えている
	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err))

	exists, err := store.ChunkExists(ctx, "upload-1", 1)
	require.NoError(t, err)
	assert.True(t, exists)

	r, err := store.OpenChunk(ctx, "upload-1", 1)
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "chunk data", string(data))
}

func TestLocalStore_StoreChunk_OverwritesExisting(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.CreateNamespace(ctx, "upload-1"))

	first := writeTempFile(t, store.uploadDir, "first")
	require.NoError(t, store.StoreChunk(ctx, "upload-1", 3, first))

	second := writeTempFile(t, store.uploadDir, "second")
	require.NoError(t, store.StoreChunk(ctx, "upload-1", 3, second))

	r, err := store.OpenChunk(ctx, "upload-1", 3)
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestLocalStore_OpenChunk_NotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.OpenChunk(ctx, "upload-1", 7)
	assert.Error(t, err)

	exists, err := store.ChunkExists(ctx, "upload-1", 7)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStore_RemoveNamespace(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.CreateNamespace(ctx, "upload-1"))
	src := writeTempFile(t, store.uploadDir, "data")
	require.NoError(t, store.StoreChunk(ctx, "upload-1", 1, src))

	require.NoError(t, store.RemoveNamespace(ctx, "upload-1"))

	exists, err := store.ChunkExists(ctx, "upload-1", 1)
	require.NoError(t, err)
	assert.False(t, exists)

	// 存在しない保管域の削除はエラーにならない
	assert.NoError(t, store.RemoveNamespace(ctx, "no-such-upload"))
}

func TestLocalStore_StoreChunk_PurgedNamespaceIsNotRecreated(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.CreateNamespace(ctx, "upload-1"))
	require.NoError(t, store.RemoveNamespace(ctx, "upload-1"))

	// 取消後に滑り込んだチャンクは保管域を復活させずConflictで弾く
	src := writeTempFile(t, store.uploadDir, "late chunk")
	err := store.StoreChunk(ctx, "upload-1", 1, src)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))

	_, statErr := os.Stat(store.namespacePath("upload-1"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocalStore_ListNamespaces(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.CreateNamespace(ctx, "upload-a"))
	require.NoError(t, store.CreateNamespace(ctx, "upload-b"))

	namespaces, err := store.ListNamespaces(ctx)
	require.NoError(t, err)
	require.Len(t, namespaces, 2)

	ids := []string{namespaces[0].UploadID, namespaces[1].UploadID}
	assert.ElementsMatch(t, []string{"upload-a", "upload-b"}, ids)
	for _, ns := range namespaces {
		assert.False(t, ns.ModifiedAt.IsZero())
	}
}

func TestLocalStore_StoreArtifact(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	path, w, err := store.CreateScratch(ctx)
	require.NoError(t, err)
	_, err = io.WriteString(w, "assembled content")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	require.NoError(t, store.Store(ctx, "abc123.pdf", path, "application/pdf"))

	data, err := os.ReadFile(filepath.Join(store.uploadDir, "abc123.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "assembled content", string(data))

	require.NoError(t, store.Remove(ctx, "abc123.pdf"))
	_, err = os.Stat(filepath.Join(store.uploadDir, "abc123.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStore_ListStrayFiles(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	// 組み立て途中とスプール中の残骸のみが対象
	_, w1, err := store.CreateScratch(ctx)
	require.NoError(t, err)
	require.NoError(t, w1.Close())

	_, w2, err := store.CreateIngest(ctx)
	require.NoError(t, err)
	require.NoError(t, w2.Close())

	require.NoError(t, os.WriteFile(filepath.Join(store.uploadDir, "stored.bin"), []byte("x"), 0o644))

	strays, err := store.ListStrayFiles(ctx)
	require.NoError(t, err)
	require.Len(t, strays, 2)

	for _, stray := range strays {
		require.NoError(t, store.RemoveStrayFile(ctx, stray.Name))
	}

	strays, err = store.ListStrayFiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, strays)
}
