// Package tools defines tool contracts and implementations.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Memory tool: the sandboxed /memories file surface, one definition per
//     handler instance.
//   - Invariants: tool_use and its corresponding tool_result remain adjacent within a turn
package tools
