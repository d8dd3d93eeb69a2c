package memtool

import (
	"fmt"

	"github.com/petasbytes/memory-agent/internal/safety"
)

// Command is the closed set of memory tool operations.
type Command string

const (
	CmdView       Command = "view"
	CmdCreate     Command = "create"
	CmdStrReplace Command = "str_replace"
	CmdInsert     Command = "insert"
	CmdDelete     Command = "delete"
	CmdRename     Command = "rename"

	// CmdClearAll is host-side maintenance, not part of the agent-facing vocabulary.
	CmdClearAll Command = "clear_all"
)

// parseCommand maps a raw command name onto the closed set.
func parseCommand(name string) (Command, error) {
	switch c := Command(name); c {
	case CmdView, CmdCreate, CmdStrReplace, CmdInsert, CmdDelete, CmdRename, CmdClearAll:
		return c, nil
	default:
		return "", safety.ToolError{Code: "ERR_VALIDATION", Message: fmt.Sprintf("unknown command: %s", name)}
	}
}
