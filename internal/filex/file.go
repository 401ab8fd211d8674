// Package filex contains small filesystem helpers for staging uploaded files
// before they are pushed to remote media storage.
package filex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// EnsureSubDir creates dirName below the current working directory if it does
// not exist yet and returns its absolute path.
func EnsureSubDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// RemoveIfExists deletes path and treats a missing file as success.
// Staged uploads are removed by the uploader on both outcomes, so callers
// cleaning up after an aborted flow must tolerate the file being gone already.
func RemoveIfExists(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
