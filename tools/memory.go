package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/petasbytes/memory-agent/internal/memtool"
)

var memoryInputSchema = GenerateSchema[memtool.Input]()

// NewMemoryDefinition wires a memory handler into the agent's tool set.
// One definition per handler: the sandbox root travels with the closure, so a
// process can host several independent memory roots.
func NewMemoryDefinition(h *memtool.Handler) ToolDefinition {
	return ToolDefinition{
		Name: "memory",
		Description: `Persist and recall notes across conversations in your /memories directory.

Commands: view (directory listing or numbered file lines, optional view_range), create (write a text file, overwrites), str_replace (replace a unique string), insert (insert a line at insert_line), delete (remove a file or directory), rename (move a file, no overwrite).

All paths must start with /memories. Only plain-text files (.txt, .md, .json, and similar) are supported.
`,
		InputSchema: memoryInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in memtool.Input
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			// clear_all is host-side maintenance; from the model it does not exist.
			if in.Command == string(memtool.CmdClearAll) {
				return "", fmt.Errorf("unknown command: %s", in.Command)
			}
			res := h.Execute(ctx, in)
			if !res.OK() {
				return "", errors.New(res.Error)
			}
			return res.Success, nil
		},
	}
}
