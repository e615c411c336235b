package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/prdstore/internal/core/domain"
)

// tempFilePrefix marks in-flight writes; Walk skips them.
const tempFilePrefix = ".prdstore-tmp-"

// writeTemp writes data to a synced temp file next to filename and returns its path.
func writeTemp(filename string, data []byte, perm os.FileMode) (string, error) {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, tempFilePrefix+"*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("failed to chmod temp file: %w", err)
	}
	return tmpFile.Name(), nil
}

// writeFileAtomic replaces filename with data.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := writeTemp(filename, data, perm)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, filename); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}
	return nil
}

// createFileAtomic writes data to filename only if it does not exist yet.
// Returns domain.ErrAlreadyExists if it does.
func createFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := writeTemp(filename, data, perm)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	if err := os.Link(tmp, filename); err != nil {
		if errors.Is(err, os.ErrExist) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("failed to link temp file to %s: %w", filename, err)
	}
	return nil
}
