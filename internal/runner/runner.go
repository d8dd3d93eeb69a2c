package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/petasbytes/memory-agent/internal/contextwin"
	"github.com/petasbytes/memory-agent/internal/telemetry"
	"github.com/petasbytes/memory-agent/tools"
)

type Runner struct {
	Client *anthropic.Client
	Tools  []tools.ToolDefinition
	System string
	Policy contextwin.Policy
}

func New(client *anthropic.Client, toolDefs []tools.ToolDefinition, system string, policy contextwin.Policy) *Runner {
	return &Runner{Client: client, Tools: toolDefs, System: system, Policy: policy}
}

func (r *Runner) anthropicTools() []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(r.Tools))
	for _, t := range r.Tools {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: t.InputSchema,
		}})
	}
	return out
}

// RunOneStep edits the conversation per the clearing policy, sends it, prints
// any assistant text, executes tool calls, and returns the assistant message,
// the tool results to append, and the (possibly edited) conversation the
// caller should adopt as its new history.
func (r *Runner) RunOneStep(ctx context.Context, model anthropic.Model, conv []anthropic.MessageParam) (*anthropic.Message, []anthropic.ContentBlockParamUnion, []anthropic.MessageParam, error) {
	counter := contextwin.HeuristicCounter{}
	edited, stats := contextwin.Apply(conv, r.Policy, counter)

	// Get turnID from context if present, else generate once for this call.
	turnID, ok := telemetry.TurnIDFromContext(ctx)
	if !ok {
		turnID = fmt.Sprintf("turn-%d", time.Now().UnixNano())
	}

	ctx = telemetry.WithTurnID(ctx, turnID)

	telemetry.Emit("context_edited", map[string]any{
		"turn_id":       turnID,
		"model":         string(model),
		"total":         stats.Total,
		"remaining":     stats.Remaining,
		"cleared_pairs": stats.ClearedPairs,
		"saved_tokens":  stats.SavedTokens,
		"skipped":       stats.Skipped,
		"reason":        stats.Reason,
	})

	params := anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: int64(2048),
		Messages:  edited,
		Tools:     r.anthropicTools(),
	}
	if r.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: r.System}}
	}

	msg, err := r.Client.Messages.New(ctx, params)
	if err != nil {
		return nil, nil, conv, err
	}
	toolResults := []anthropic.ContentBlockParamUnion{}
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			fmt.Printf("[93mClaude[0m: %s\n", v.Text)
		case anthropic.ToolUseBlock:
			// Pass raw JSON input through to the tool implementation
			input := json.RawMessage(v.JSON.Input.Raw())
			res := r.execTool(ctx, v.ID, v.Name, input)
			toolResults = append(toolResults, res)
		}
	}
	return msg, toolResults, edited, nil
}

func (r *Runner) execTool(ctx context.Context, id, name string, input json.RawMessage) anthropic.ContentBlockParamUnion {
	var def *tools.ToolDefinition
	for i := range r.Tools {
		if r.Tools[i].Name == name {
			def = &r.Tools[i]
			break
		}
	}

	turnID, _ := telemetry.TurnIDFromContext(ctx)

	emit := func(durationMs int64, inputSize int, outputSize int, errStr string) {
		fields := map[string]any{
			"tool_name":   name,
			"duration_ms": durationMs,
			"input_size":  inputSize,
			"output_size": outputSize,
			"turn_id":     turnID,
		}
		if errStr != "" {
			fields["error"] = errStr
		} else {
			fields["error"] = nil
		}
		telemetry.Emit("tool_exec", fields)
	}

	start := time.Now()
	inSize := len(input)

	if def == nil {
		emit(time.Since(start).Milliseconds(), inSize, 0, "tool not found")
		return anthropic.NewToolResultBlock(id, "tool not found", true)
	}

	resp, err := def.Function(ctx, input)
	if err != nil {
		// Emit a generic error string to avoid leaking raw payloads in telemetry
		emit(time.Since(start).Milliseconds(), inSize, 0, "tool error")
		// Preserve detailed error message in the tool result content returned to the model
		return anthropic.NewToolResultBlock(id, err.Error(), true)
	}
	outSize := len(resp)
	emit(time.Since(start).Milliseconds(), inSize, outSize, "")
	return anthropic.NewToolResultBlock(id, resp, false)
}
