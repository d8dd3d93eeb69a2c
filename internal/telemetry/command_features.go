package telemetry

import (
	"context"

	"github.com/petasbytes/memory-agent/internal/metrics"
)

// EmitMemoryCommand records one memory tool command outcome together with
// basic text features of its result payload. Payload contents themselves are
// never persisted; only sizes leave the memory root.
func EmitMemoryCommand(ctx context.Context, command string, payload string, ok bool) {
	if !ObserveEnabled() {
		return
	}
	turnID, _ := TurnIDFromContext(ctx)
	f := metrics.CountFeatures(payload)
	Emit("memory_command", map[string]any{
		"turn_id": turnID,
		"command": command,
		"ok":      ok,
		"payload": f.Fields(),
	})
}
