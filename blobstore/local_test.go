package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStore_OpenAndRead(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ds", "seg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ds", "seg", "col.bin"), []byte("0123456789"), 0o644))

	store := NewLocalStore(root)
	ctx := context.Background()

	blob, err := store.Open(ctx, "ds/seg/col.bin")
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(10), blob.Size())

	p := make([]byte, 4)
	n, err := blob.ReadAt(ctx, p, 3)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "3456", string(p))

	rc, err := blob.ReadRange(ctx, 5, 5)
	require.NoError(t, err)
	defer rc.Close()

	tail, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "56789", string(tail))
}

func TestLocalStore_OpenMissing(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	_, err := store.Open(context.Background(), "nope/col.bin")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_List(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a/1.bin", "a/2.bin", "b/1.bin"} {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}

	store := NewLocalStore(root)

	names, err := store.List(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, []string{"a/1.bin", "a/2.bin"}, names)

	all, err := store.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	store.Put("seg/col.bin", []byte("hello"))

	blob, err := store.Open(context.Background(), "seg/col.bin")
	require.NoError(t, err)
	defer blob.Close()

	rc, err := blob.ReadRange(context.Background(), 0, blob.Size())
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))

	_, err = store.Open(context.Background(), "seg/other.bin")
	require.ErrorIs(t, err, ErrNotFound)
}
