// Package safety provides helpers for sandboxed memory access.
package safety

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// VirtualPrefix is the fixed prefix every agent-supplied memory path must carry.
const VirtualPrefix = "/memories"

// ToolError is a machine-readable error body for surfacing back to the agent as JSON.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error returns a compact, single-line JSON string to keep tool_result payloads small.
func (e ToolError) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// InitMemoryRoot resolves the absolute memory root under baseDir and creates it if absent.
// The returned root is the real location of the agent's /memories directory.
func InitMemoryRoot(baseDir string) (string, error) {
	// Default baseDir to CWD when empty
	if baseDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		baseDir = cwd
	}

	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("abs(baseDir): %w", err)
	}

	root := filepath.Join(baseDir, "memories")
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("mkdir memory root: %w", err)
	}

	// Resolve symlinks so future boundary checks are reliable.
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}

	return root, nil
}

// Resolve maps an agent-supplied virtual path onto a real path inside absRoot.
// It requires the literal /memories prefix, percent-decodes the remainder once,
// normalises away ./.. segments, and verifies the candidate stays a descendant
// of absRoot. Symlinked parents are resolved best-effort so escapes through
// links are caught too. The target is not required to exist.
func Resolve(absRoot, virtualPath string) (string, error) {
	if virtualPath != VirtualPrefix && !strings.HasPrefix(virtualPath, VirtualPrefix+"/") {
		return "", ToolError{Code: "ERR_SECURITY", Message: "path must start with /memories"}
	}

	// Decode percent-escapes exactly once so encoded traversal fails through
	// the same containment check as literal traversal. Undecodable sequences
	// are kept as literal text.
	decoded := virtualPath
	if u, err := url.PathUnescape(virtualPath); err == nil {
		decoded = u
	}

	sub := strings.TrimPrefix(decoded, VirtualPrefix)
	sub = strings.TrimPrefix(sub, "/")

	// Join cleans the result, collapsing . and .. segments before any
	// filesystem access.
	candidate := filepath.Join(absRoot, filepath.FromSlash(sub))

	// Best-effort symlink resolution.
	// 1) Resolve the whole candidate if it exists.
	// 2) Otherwise, resolve the deepest existing ancestor (the parent dir)
	//    and rejoin the final segment. This reveals escapes via a symlinked parent.
	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		candidate = resolved
	} else {
		parent := filepath.Dir(candidate)
		if resolvedParent, err2 := filepath.EvalSymlinks(parent); err2 == nil {
			candidate = filepath.Join(resolvedParent, filepath.Base(candidate))
		}
	}

	// Boundary check using filepath.Rel (robust against partial prefix matches)
	rel, err := filepath.Rel(absRoot, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", ToolError{Code: "ERR_SECURITY", Message: "path escapes the memories directory"}
	}

	return candidate, nil
}
