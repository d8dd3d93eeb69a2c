// Package memfs implements the plain-text file primitives behind the memory tool.
//
// All methods operate on real paths that already passed safety.Resolve; the
// Store never re-validates sandbox boundaries. Mutations are whole-file
// read-transform-write: arguments are checked before anything is written, so a
// rejected operation leaves the tree untouched.
package memfs

import (
	"path/filepath"
	"strings"
)

// Store owns one memory root. Construct one per sandbox; there is no ambient
// process-wide root.
type Store struct {
	root string
}

// New returns a Store over an absolute memory root.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the real path of the memory root.
func (s *Store) Root() string { return s.root }

// textExtensions is the allow-list of plain-text file extensions accepted by Create.
var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".json": true,
	".yaml": true,
	".yml":  true,
	".csv":  true,
	".log":  true,
	".xml":  true,
}

// AllowedExtension reports whether path carries a recognised plain-text extension.
func AllowedExtension(path string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(path))]
}

// splitLines splits content into display lines. A single trailing newline does
// not produce a phantom empty line.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
