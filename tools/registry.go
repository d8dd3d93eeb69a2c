package tools

import "github.com/petasbytes/memory-agent/internal/memtool"

// Registry returns all tool definitions wired for the agent.
// clear_all stays host-side and is deliberately absent.
func Registry(h *memtool.Handler) []ToolDefinition {
	return []ToolDefinition{NewMemoryDefinition(h)}
}
