// Package fileutil holds the small file primitives shared by the catalog and
// the sound activator.
package fileutil

import (
	"errors"
	"io"
	"io/fs"
	"os"
)

// CopyFile streams src to dst with default permissions (0o644) and returns
// the number of bytes written.
func CopyFile(src, dst string) (int64, error) {
	return CopyFileMode(src, dst, 0o644)
}

// CopyFileMode streams src to dst, creating or truncating dst with mode.
func CopyFileMode(src, dst string, mode os.FileMode) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	written, err := io.Copy(out, in)
	if err != nil {
		return written, err
	}
	return written, out.Close()
}

// RemoveIfExists deletes path and reports whether it existed. A missing file
// is not an error.
func RemoveIfExists(path string) (bool, error) {
	err := os.Remove(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
