package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "groobi/internal/errors"
)

// TempPrefix starts the name of every temporary file the writer creates
const TempPrefix = ".groobi_tmp_"

// Replaced in tests to simulate failures at the swap step
var rename = os.Rename

// AtomicWriter replaces files via a temporary file and a rename
type AtomicWriter struct {
	logger *slog.Logger
}

// NewAtomicWriter creates a writer that logs through logger
func NewAtomicWriter(logger *slog.Logger) *AtomicWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &AtomicWriter{logger: logger.With(slog.String("component", "atomic_writer"))}
}

// WriteFile streams encode's output into a temporary file next to path and
// renames it over path. An existing destination keeps its permission bits.
// Any failure returns a WRITE_FAILURE error and leaves path untouched.
func (w *AtomicWriter) WriteFile(ctx context.Context, path string, encode func(io.Writer) error) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	mode := fs.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return apperrors.NewWriteFailureError(fmt.Sprintf("stat destination %q", path), statErr)
	}

	tmp, err := os.CreateTemp(dir, TempPrefix+"*_"+base)
	if err != nil {
		return apperrors.NewWriteFailureError(fmt.Sprintf("create temp file in %q", dir), err)
	}
	tmpName := tmp.Name()
	committed := false

	defer func() {
		if committed {
			return
		}
		tmp.Close()
		if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			w.logger.WarnContext(ctx, "failed to remove temp file",
				slog.String("temp_path", tmpName),
				slog.String("error", rmErr.Error()))
		}
	}()

	if err := encode(tmp); err != nil {
		return apperrors.NewWriteFailureError("encode workbook", err).WithContext("file_path", path)
	}
	if err := tmp.Sync(); err != nil {
		return apperrors.NewWriteFailureError("sync temp file", err).WithContext("file_path", path)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewWriteFailureError("close temp file", err).WithContext("file_path", path)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return apperrors.NewWriteFailureError("set temp file mode", err).WithContext("file_path", path)
	}
	if err := rename(tmpName, path); err != nil {
		return apperrors.NewWriteFailureError(fmt.Sprintf("replace %q", path), err).WithContext("file_path", path)
	}
	committed = true

	syncDir(dir)

	w.logger.DebugContext(ctx, "file replaced",
		slog.String("file_path", path),
		slog.String("temp_path", tmpName))
	return nil
}

// syncDir flushes the directory entry of a rename. Not every platform
// supports it, so failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}

// IsTempFile reports whether name was produced by AtomicWriter
func IsTempFile(name string) bool {
	return strings.HasPrefix(filepath.Base(name), TempPrefix)
}

// CleanupOrphans deletes temp files left in dir by interrupted writes and
// returns the paths it removed.
func CleanupOrphans(dir string, logger *slog.Logger) ([]string, error) {
	return removeOrphans(dir, IsTempFile, logger)
}

// CleanupOrphansFor deletes only the temp files left by interrupted writes
// of path. Temp files of other workbooks in the same directory are kept.
func CleanupOrphansFor(path string, logger *slog.Logger) ([]string, error) {
	base := filepath.Base(path)
	return removeOrphans(filepath.Dir(path), func(name string) bool {
		return tempFileFor(name, base)
	}, logger)
}

// tempFileFor reports whether name has the exact shape os.CreateTemp gives
// WriteFile for base: TempPrefix, a run of digits, "_" and base.
func tempFileFor(name, base string) bool {
	rest, ok := strings.CutPrefix(name, TempPrefix)
	if !ok {
		return false
	}
	random, target, ok := strings.Cut(rest, "_")
	if !ok || random == "" || target != base {
		return false
	}
	for _, c := range random {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func removeOrphans(dir string, match func(name string) bool, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %q: %w", dir, err)
	}

	var removed []string
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !match(e.Name()) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, p)
		logger.Info("removed orphaned temp file", slog.String("path", p))
	}
	return removed, errors.Join(errs...)
}
