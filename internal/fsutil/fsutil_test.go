package fsutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func TestWriteFileAtomicReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, WriteFileAtomic(path, writeString("new content")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new content", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not linger")
}

func TestWriteFileAtomicFillErrorKeepsOriginal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	boom := errors.New("disk full")
	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "half")
		return boom
	})
	require.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileAtomicTempCompleteBeforeRename(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	var renamed bool
	w := AtomicWriter{Rename: func(oldpath, newpath string) error {
		tmp, err := os.ReadFile(oldpath)
		require.NoError(t, err)
		assert.Equal(t, "complete document", string(tmp))

		cur, err := os.ReadFile(newpath)
		require.NoError(t, err)
		assert.Equal(t, "old", string(cur))

		renamed = true
		return errors.New("crash before rename")
	}}

	err := w.WriteFile(path, writeString("complete document"))
	require.Error(t, err)
	assert.True(t, renamed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	payload := []byte{0x00, 0xff, '{', '\n', 0xc3, 0xa9}
	require.NoError(t, os.WriteFile(src, payload, 0o600))

	dst := filepath.Join(dir, "dst.bin")
	require.NoError(t, CopyFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	assert.Error(t, CopyFile(filepath.Join(dir, "missing"), dst))
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "contacts_20250101_120000")

	first, err := UniquePath(stem, ".json")
	require.NoError(t, err)
	assert.Equal(t, stem+".json", first)
	require.NoError(t, os.WriteFile(first, nil, 0o644))

	second, err := UniquePath(stem, ".json")
	require.NoError(t, err)
	assert.Equal(t, stem+"-1.json", second)
	require.NoError(t, os.WriteFile(second, nil, 0o644))

	third, err := UniquePath(stem, ".json")
	require.NoError(t, err)
	assert.Equal(t, stem+"-2.json", third)
}

func TestStamp(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "20250102_030405", Stamp(ts))
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	ok, err := Exists(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Exists(dir)
	require.NoError(t, err)
	assert.True(t, ok)
}
