package fileutil

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/WS-QA/OSSGadget/util/common/errors"
)

// validatePath rejects empty paths, final elements with characters that are
// not portable in file names, and paths whose parent directory cannot be
// reached.
func validatePath(path string) error {
	if path == "" {
		return errors.NewValidationError("path", "path cannot be empty")
	}

	if strings.ContainsAny(filepath.Base(path), "<>:|?*\\") {
		return errors.NewValidationError("path", "path contains invalid characters")
	}

	parent := filepath.Dir(path)
	if parent != "." {
		if _, err := os.Stat(parent); err != nil {
			return errors.NewFileError(parent, "access", err)
		}
	}

	return nil
}

// Within reports whether path names root itself or something below it.
func Within(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// EnsureDir creates path and its parents if they are missing.
func EnsureDir(path string) error {
	if path == "" {
		return errors.NewValidationError("path", "path cannot be empty")
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.NewFileError(path, "create", err)
	}
	return nil
}

// ResetDir removes a file or directory at path if it exists and creates a
// fresh empty directory in its place.
func ResetDir(path string) error {
	if err := validatePath(path); err != nil {
		return err
	}

	if err := os.RemoveAll(path); err != nil {
		return errors.NewFileError(path, "remove", err)
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.NewFileError(path, "create", err)
	}

	return nil
}

// WriteStream copies r into the file at path, replacing whatever was there
// (including a directory left by an earlier extracted download).
func WriteStream(path string, r io.Reader) (int64, error) {
	if err := validatePath(path); err != nil {
		return 0, err
	}

	if err := os.RemoveAll(path); err != nil {
		return 0, errors.NewFileError(path, "remove", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, errors.NewFileError(path, "create", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		return n, errors.NewFileError(path, "write", err)
	}
	return n, nil
}

// Size returns the size of a file, or the summed size of all regular files
// below a directory.
func Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.NewFileError(path, "stat", err)
	}
	if !info.IsDir() {
		return info.Size(), nil
	}

	var total int64
	err = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			fi, err := d.Info()
			if err != nil {
				return err
			}
			total += fi.Size()
		}
		return nil
	})
	if err != nil {
		return 0, errors.NewFileError(path, "walk", err)
	}
	return total, nil
}
