package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestOpen_Bytes(t *testing.T) {
	content := []byte("the quick brown fox")
	m, err := Open(writeFile(t, content))
	require.NoError(t, err)
	defer m.Close()

	require.Equal(t, content, m.Bytes())
	require.Equal(t, len(content), m.Size())
}

func TestOpen_EmptyFile(t *testing.T) {
	m, err := Open(writeFile(t, nil))
	require.NoError(t, err)
	defer m.Close()

	require.Equal(t, 0, m.Size())
	require.Empty(t, m.Bytes())
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestClose_Idempotent(t *testing.T) {
	m, err := Open(writeFile(t, []byte("x")))
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	require.Nil(t, m.Bytes())
}

func TestRegion(t *testing.T) {
	m, err := Open(writeFile(t, []byte("abcdefgh")))
	require.NoError(t, err)
	defer m.Close()

	r, err := m.Region(2, 3)
	require.NoError(t, err)
	require.Equal(t, []byte("cde"), r.Bytes())

	_, err = m.Region(6, 4)
	require.ErrorIs(t, err, ErrOutOfBounds)
	_, err = m.Region(-1, 2)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestAdvise(t *testing.T) {
	m, err := Open(writeFile(t, []byte("abcdefgh")))
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Advise(AccessRandom))

	require.NoError(t, m.Close())
	require.ErrorIs(t, m.Advise(AccessRandom), ErrClosed)
}
