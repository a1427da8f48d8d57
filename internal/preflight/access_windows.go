//go:build windows

package preflight

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// Windows has no access(2); check by listing and, for write access, by
// creating a scratch file.
func accessReadWrite(path string) error {
	if err := accessRead(path); err != nil {
		return err
	}
	scratch, err := os.CreateTemp(path, ".sourcesound-access-*")
	if err != nil {
		return err
	}
	name := scratch.Name()
	_ = scratch.Close()
	return os.Remove(filepath.Clean(name))
}

func accessRead(path string) error {
	dir, err := os.Open(path)
	if err != nil {
		return err
	}
	defer dir.Close()
	_, err = dir.Readdirnames(1)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
