package memfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/petasbytes/memory-agent/internal/safety"
)

// Create writes text to path, creating parent directories as needed and
// overwriting any existing content. Only recognised plain-text extensions are
// accepted.
func (s *Store) Create(path, text string) error {
	if !AllowedExtension(path) {
		return safety.ToolError{Code: "ERR_CONSTRAINT", Message: "only text files are supported"}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

// StrReplace replaces the sole occurrence of old with new in the file at path.
// The operation is defined only for an exact single occurrence; zero matches
// and multiple matches are both rejected before anything is written.
func (s *Store) StrReplace(path, old, new string) error {
	content, err := s.read(path)
	if err != nil {
		return err
	}

	switch n := strings.Count(content, old); {
	case n == 0:
		return safety.ToolError{Code: "ERR_NOT_FOUND", Message: "old_str not found in file"}
	case n > 1:
		return safety.ToolError{
			Code:    "ERR_CONFLICT",
			Message: fmt.Sprintf("old_str appears %d times; it must appear exactly once", n),
		}
	}

	return os.WriteFile(path, []byte(strings.Replace(content, old, new, 1)), 0o644)
}

// Insert places text as a new line at the 1-based position line. Line 0 inserts
// before the current first line; line == current line count appends. The file
// always ends with a trailing newline afterwards.
func (s *Store) Insert(path string, line int, text string) error {
	content, err := s.read(path)
	if err != nil {
		return err
	}
	lines := splitLines(content)

	if line < 0 || line > len(lines) {
		return safety.ToolError{
			Code:    "ERR_CONSTRAINT",
			Message: fmt.Sprintf("invalid line number %d; expected a value in [0, %d]", line, len(lines)),
		}
	}

	updated := make([]string, 0, len(lines)+1)
	updated = append(updated, lines[:line]...)
	updated = append(updated, text)
	updated = append(updated, lines[line:]...)

	return os.WriteFile(path, []byte(strings.Join(updated, "\n")+"\n"), 0o644)
}
