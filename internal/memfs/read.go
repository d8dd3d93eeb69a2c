package memfs

import (
	"os"
	"sort"

	"github.com/petasbytes/memory-agent/internal/safety"
)

// IsDir reports whether path names a directory.
// Returns a not-found ToolError when path does not exist.
func (s *Store) IsDir(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, safety.ToolError{Code: "ERR_NOT_FOUND", Message: "path not found"}
		}
		return false, err
	}
	return fi.IsDir(), nil
}

// Entries lists the immediate children of a directory, sorted, with
// directories suffixed by "/".
func (s *Store) Entries(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, safety.ToolError{Code: "ERR_NOT_FOUND", Message: "path not found"}
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Lines returns the content of a text file as display lines.
func (s *Store) Lines(path string) ([]string, error) {
	content, err := s.read(path)
	if err != nil {
		return nil, err
	}
	return splitLines(content), nil
}

// read loads a whole file, mapping absence and directory targets to ToolErrors.
func (s *Store) read(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", safety.ToolError{Code: "ERR_NOT_FOUND", Message: "file not found"}
		}
		return "", err
	}
	if fi.IsDir() {
		return "", safety.ToolError{Code: "ERR_CONSTRAINT", Message: "path is a directory"}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", err // standard error for I/O issues (not policy)
	}
	return string(b), nil
}
