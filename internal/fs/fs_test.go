package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalFS_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "a", "b", "data.bin")

	require.NoError(t, Default.MkdirAll(filepath.Dir(name), 0o755))

	f, err := Default.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	fi, err := Default.Stat(name)
	require.NoError(t, err)
	require.Equal(t, int64(5), fi.Size())

	entries, err := Default.ReadDir(filepath.Dir(name))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, Default.RemoveAll(filepath.Join(dir, "a")))
	_, err = Default.Stat(name)
	require.True(t, os.IsNotExist(err))
}

func TestFaultyFS_FailAfterBytes(t *testing.T) {
	dir := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule("data.bin", Fault{FailAfterBytes: 4})

	f, err := ffs.OpenFile(filepath.Join(dir, "data.bin"), os.O_WRONLY|os.O_CREATE, 0o644)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("1234"))
	require.NoError(t, err)
	_, err = f.Write([]byte("5"))
	require.Error(t, err)
}

func TestFaultyFS_FailOnCreate(t *testing.T) {
	dir := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule("marker", Fault{FailOnCreate: true})

	_, err := ffs.OpenFile(filepath.Join(dir, "marker"), os.O_WRONLY|os.O_CREATE, 0o644)
	require.Error(t, err)

	// Non-creating opens of other files pass through.
	_, err = ffs.OpenFile(filepath.Join(dir, "other"), os.O_WRONLY|os.O_CREATE, 0o644)
	require.NoError(t, err)
}

func TestFaultyFS_FailOnRemove(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "victim")
	require.NoError(t, os.MkdirAll(target, 0o755))

	ffs := NewFaultyFS(nil)
	ffs.AddRule("victim", Fault{FailOnRemove: true})

	require.Error(t, ffs.RemoveAll(target))
	require.Error(t, ffs.Remove(target))

	// Directory still exists.
	_, err := os.Stat(target)
	require.NoError(t, err)
}

func TestFaultyFS_FailOnMkdir(t *testing.T) {
	dir := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule("broken", Fault{FailOnMkdir: true})

	require.Error(t, ffs.MkdirAll(filepath.Join(dir, "broken", "sub"), 0o755))
	require.NoError(t, ffs.MkdirAll(filepath.Join(dir, "fine", "sub"), 0o755))
}
