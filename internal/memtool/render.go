package memtool

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/petasbytes/memory-agent/internal/safety"
)

// renderDir composes the catalog of a directory's immediate entries.
func renderDir(virtualPath string, entries []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Directory listing for %s:\n", virtualPath)
	if len(entries) == 0 {
		b.WriteString("(empty)")
		return b.String()
	}
	b.WriteString(strings.Join(entries, "\n"))
	return b.String()
}

// renderLines numbers lines 1-based, right-aligned to a minimum 3-digit width,
// optionally restricted to an inclusive [start, end] range. A range that
// cannot intersect the file is rejected. A zero-length file renders as
// "(empty)" so the result always carries a visible body.
func renderLines(lines []string, viewRange []int) (string, error) {
	if len(lines) == 0 && viewRange == nil {
		return "(empty)", nil
	}

	start, end := 1, len(lines)
	if viewRange != nil {
		if len(viewRange) != 2 {
			return "", safety.ToolError{Code: "ERR_VALIDATION", Message: "view_range must be [start, end]"}
		}
		start, end = viewRange[0], viewRange[1]
		if start < 1 || end < start || start > len(lines) {
			return "", safety.ToolError{
				Code:    "ERR_CONSTRAINT",
				Message: fmt.Sprintf("invalid view_range [%d, %d] for a file with %d lines", start, end, len(lines)),
			}
		}
		if end > len(lines) {
			end = len(lines)
		}
	}

	width := len(strconv.Itoa(len(lines)))
	if width < 3 {
		width = 3
	}

	numbered := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		numbered = append(numbered, fmt.Sprintf("%*d: %s", width, i, lines[i-1]))
	}
	return strings.Join(numbered, "\n"), nil
}
