// Package fsutil holds the small file primitives shared by the store, the
// exporter and the backup manager: atomic replacement, byte copies and
// collision-free timestamped names.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// StampLayout is the second-precision timestamp embedded in quarantine,
// backup and export file names.
const StampLayout = "20060102_150405"

// Stamp formats t with StampLayout.
func Stamp(t time.Time) string {
	return t.Format(StampLayout)
}

// AtomicWriter replaces files by writing a temp file in the destination
// directory and renaming it over the target. A reader never observes a
// partially written target, and a failure before the rename leaves the
// previous content untouched.
type AtomicWriter struct {
	// Rename moves the finished temp file into place. Nil means os.Rename.
	Rename func(oldpath, newpath string) error

	// Perm is the mode of the resulting file. Zero means 0o644.
	Perm fs.FileMode
}

// WriteFile atomically replaces path with whatever fill writes.
func (a AtomicWriter) WriteFile(path string, fill func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanupTmp := true
	defer func() {
		if cleanupTmp {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err = fill(tmp); err != nil {
		return err
	}
	perm := a.Perm
	if perm == 0 {
		perm = 0o644
	}
	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	rename := a.Rename
	if rename == nil {
		rename = os.Rename
	}
	if err = rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		cleanupTmp = false
		return fmt.Errorf("atomic rename: %w", err)
	}
	cleanupTmp = false

	// Directory fsync is unsupported on some filesystems; the rename already happened.
	_ = SyncDir(dir)
	return nil
}

// WriteFileAtomic is AtomicWriter{}.WriteFile.
func WriteFileAtomic(path string, fill func(w io.Writer) error) error {
	return AtomicWriter{}.WriteFile(path, fill)
}

// CopyFile atomically writes a byte-for-byte copy of src to dst.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	return WriteFileAtomic(dst, func(w io.Writer) error {
		if _, copyErr := io.Copy(w, in); copyErr != nil {
			return fmt.Errorf("copying %s: %w", src, copyErr)
		}
		return nil
	})
}

// UniquePath returns stem+ext if nothing exists there, otherwise the first
// free stem-N+ext for N = 1, 2, ...
func UniquePath(stem, ext string) (string, error) {
	candidate := stem + ext
	for n := 1; ; n++ {
		_, err := os.Lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", candidate, err)
		}
		candidate = stem + "-" + strconv.Itoa(n) + ext
	}
}

// Exists reports whether path exists. Errors other than not-exist are returned.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	return true, nil
}

// SyncDir syncs a directory so a preceding rename survives a crash.
func SyncDir(dirPath string) error {
	dir, err := os.Open(dirPath)
	if err != nil {
		return fmt.Errorf("open dir for sync: %w", err)
	}
	defer func() { _ = dir.Close() }()

	if err := dir.Sync(); err != nil {
		return fmt.Errorf("sync dir: %w", err)
	}
	return nil
}
