package files

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "groobi/internal/errors"
	"groobi/internal/shared/testutil"
)

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func tempFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var out []string
	for _, e := range entries {
		if IsTempFile(e.Name()) {
			out = append(out, e.Name())
		}
	}
	return out
}

func TestAtomicWriter_WriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o640))

	logger, _ := testutil.NewTestLogger(t)
	w := NewAtomicWriter(logger)

	require.NoError(t, w.WriteFile(context.Background(), path, writeString("new contents")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new contents", string(data))
	assert.Empty(t, tempFiles(t, dir))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	}
}

func TestAtomicWriter_CreatesMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fresh.xlsx")

	w := NewAtomicWriter(nil)
	require.NoError(t, w.WriteFile(context.Background(), path, writeString("hello")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestAtomicWriter_EncodeFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.xlsx")
	original := []byte("original bytes")
	require.NoError(t, os.WriteFile(path, original, 0o644))

	logger, _ := testutil.NewTestLogger(t)
	w := NewAtomicWriter(logger)

	boom := errors.New("disk full")
	err := w.WriteFile(context.Background(), path, func(out io.Writer) error {
		_, _ = io.WriteString(out, "partial")
		return boom
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrWriteFailure))
	assert.True(t, errors.Is(err, boom))

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, original, data)
	assert.Empty(t, tempFiles(t, dir))
}

func TestAtomicWriter_RenameFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.xlsx")
	original := []byte("original bytes")
	require.NoError(t, os.WriteFile(path, original, 0o644))

	var sawTemp bool
	rename = func(oldpath, newpath string) error {
		_, err := os.Stat(oldpath)
		sawTemp = err == nil && IsTempFile(oldpath)
		return errors.New("file locked by another process")
	}
	t.Cleanup(func() { rename = os.Rename })

	err := NewAtomicWriter(nil).WriteFile(context.Background(), path, writeString("replacement"))

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeWriteFailure, apperrors.TypeOf(err))
	assert.True(t, sawTemp, "rename should be attempted on a fully written temp file")

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, original, data)
	assert.Empty(t, tempFiles(t, dir))
}

func TestAtomicWriter_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "book.xlsx")

	err := NewAtomicWriter(nil).WriteFile(context.Background(), path, writeString("x"))
	assert.True(t, errors.Is(err, apperrors.ErrWriteFailure))
}

func TestCleanupOrphans(t *testing.T) {
	dir := t.TempDir()
	orphan := filepath.Join(dir, TempPrefix+"123_book.xlsx")
	keep := filepath.Join(dir, "book.xlsx")
	require.NoError(t, os.WriteFile(orphan, []byte("stale"), 0o644))
	require.NoError(t, os.WriteFile(keep, []byte("data"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, TempPrefix+"dir"), 0o755))

	logger, logs := testutil.NewTestLogger(t)
	removed, err := CleanupOrphans(dir, logger)

	require.NoError(t, err)
	assert.Equal(t, []string{orphan}, removed)
	assert.NoFileExists(t, orphan)
	assert.FileExists(t, keep)
	assert.DirExists(t, filepath.Join(dir, TempPrefix+"dir"))
	testutil.AssertLogAttr(t, logs, "path", orphan)
}

func TestCleanupOrphansFor(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "book.xlsx")
	mine := filepath.Join(dir, TempPrefix+"123_book.xlsx")
	others := []string{
		filepath.Join(dir, TempPrefix+"456_ledger.xlsx"),
		// in-flight write of x_book.xlsx shares the "_book.xlsx" suffix
		filepath.Join(dir, TempPrefix+"789_x_book.xlsx"),
		filepath.Join(dir, TempPrefix+"abc_book.xlsx"),
		filepath.Join(dir, TempPrefix+"_book.xlsx"),
	}
	require.NoError(t, os.WriteFile(mine, []byte("stale"), 0o644))
	for _, p := range others {
		require.NoError(t, os.WriteFile(p, []byte("in flight"), 0o644))
	}

	removed, err := CleanupOrphansFor(target, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{mine}, removed)
	for _, p := range others {
		assert.FileExists(t, p)
	}
}

func TestCleanupOrphansFor_KeepsConcurrentWriteOfSuffixedName(t *testing.T) {
	dir := t.TempDir()
	other := filepath.Join(dir, "x_book.xlsx")
	require.NoError(t, os.WriteFile(other, []byte("old"), 0o644))

	w := NewAtomicWriter(nil)
	err := w.WriteFile(context.Background(), other, func(out io.Writer) error {
		// a run on book.xlsx cleans up while this write is open
		_, cleanErr := CleanupOrphansFor(filepath.Join(dir, "book.xlsx"), nil)
		require.NoError(t, cleanErr)
		_, werr := out.Write([]byte("new"))
		return werr
	})
	require.NoError(t, err)

	data, err := os.ReadFile(other)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestCleanupOrphans_MissingDir(t *testing.T) {
	_, err := CleanupOrphans(filepath.Join(t.TempDir(), "gone"), nil)
	assert.Error(t, err)
}

func TestIsTempFile(t *testing.T) {
	assert.True(t, IsTempFile("/data/"+TempPrefix+"42_book.xlsx"))
	assert.False(t, IsTempFile("/data/book.xlsx"))
	assert.False(t, IsTempFile("/data/.groobi/book.xlsx"))
}
