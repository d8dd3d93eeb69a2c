package memfs

import (
	"os"
	"path/filepath"

	"github.com/petasbytes/memory-agent/internal/safety"
)

// Delete removes a file or directory (recursively). The memory root itself is
// protected and always fails, whatever its contents.
func (s *Store) Delete(path string) error {
	if path == s.root {
		return safety.ToolError{Code: "ERR_CONSTRAINT", Message: "cannot delete the root memories directory"}
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return safety.ToolError{Code: "ERR_NOT_FOUND", Message: "path not found"}
		}
		return err
	}
	return os.RemoveAll(path)
}

// Rename moves oldPath to newPath, creating newPath's parent directories as
// needed. There is no implicit overwrite: an occupied destination is a conflict.
func (s *Store) Rename(oldPath, newPath string) error {
	if _, err := os.Stat(oldPath); err != nil {
		if os.IsNotExist(err) {
			return safety.ToolError{Code: "ERR_NOT_FOUND", Message: "source path not found"}
		}
		return err
	}
	if _, err := os.Stat(newPath); err == nil {
		return safety.ToolError{Code: "ERR_CONFLICT", Message: "destination already exists"}
	}

	if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
		return err
	}
	return os.Rename(oldPath, newPath)
}

// ClearAll removes every entry under the memory root while preserving the root
// itself. Host-side maintenance for resets between sessions.
func (s *Store) ClearAll() error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(s.root, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
