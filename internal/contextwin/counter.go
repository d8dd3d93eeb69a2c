package contextwin

import (
	"unicode/utf8"

	"github.com/anthropics/anthropic-sdk-go"
)

// TokenCounter estimates input-token cost for messages or groups.
type TokenCounter interface {
	CountMessage(m anthropic.MessageParam) int
	CountGroup(g Group, all []anthropic.MessageParam) int
}

// blockOverhead is the fixed per-block cost; the policy tests assume it.
const blockOverhead = 4

// HeuristicCounter is a deterministic estimator: rune counts for text and
// tool_result payloads, blockOverhead per block for everything else. The
// clearing policy only compares these numbers against its own thresholds,
// so stability matters more than accuracy here.
type HeuristicCounter struct{}

func (HeuristicCounter) CountMessage(m anthropic.MessageParam) int {
	total := 0
	for _, blk := range m.Content {
		total += blockCost(blk)
	}
	return total
}

func (h HeuristicCounter) CountGroup(g Group, all []anthropic.MessageParam) int {
	total := 0
	for i := g.Start; i < g.End && i < len(all); i++ {
		total += h.CountMessage(all[i])
	}
	return total
}

func blockCost(blk anthropic.ContentBlockParamUnion) int {
	switch {
	case blk.OfText != nil:
		return utf8.RuneCountInString(blk.OfText.Text) + blockOverhead
	case blk.OfToolResult != nil:
		return resultCost(blk.OfToolResult) + blockOverhead
	default:
		// tool_use, thinking and image blocks carry no counted text.
		return blockOverhead
	}
}

func resultCost(tr *anthropic.ToolResultBlockParam) int {
	switch c := any(tr.Content).(type) {
	case string:
		return utf8.RuneCountInString(c)
	case []anthropic.ToolResultBlockParamContentUnion:
		total := 0
		for _, nb := range c {
			if nt := nb.OfText; nt != nil {
				total += utf8.RuneCountInString(nt.Text)
			}
		}
		return total
	default:
		vlogf("counter: unsupported_tool_result_payload type=%T using=overhead_only", tr.Content)
		return 0
	}
}
