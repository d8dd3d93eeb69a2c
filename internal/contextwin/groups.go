// Package contextwin implements client-side context editing for the memory
// agent: conversations are grouped into atomic units that keep tool_use and
// tool_result blocks adjacent, and a clearing policy drops the oldest tool
// pairs once the estimated context size crosses a trigger.
package contextwin

import (
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
)

// GroupKind denotes the atomic unit type when editing a conversation.
type GroupKind int

const (
	GroupSingleton GroupKind = iota
	GroupPair
)

// Group describes a contiguous span of messages [Start, End) in the original slice.
type Group struct {
	Kind  GroupKind
	Start int // inclusive index into msgs
	End   int // exclusive index into msgs
}

// GroupBlocks splits a conversation into atomic units so an edit can only
// remove whole tool exchanges. A pair is an assistant message carrying
// tool_use blocks followed immediately by a user message whose leading blocks
// are the matching tool_results; everything else is a singleton. Validation
// fails when a tool_result trails other content, when a tool_use lacks its
// result, or when the user answers ids the assistant never issued; is_error
// results pair like any other.
func GroupBlocks(msgs []anthropic.MessageParam) []Group {
	groups := make([]Group, 0, len(msgs))
	i := 0
	for i < len(msgs) {
		if pairStartsAt(msgs, i) {
			groups = append(groups, Group{Kind: GroupPair, Start: i, End: i + 2})
			i += 2
			continue
		}
		groups = append(groups, Group{Kind: GroupSingleton, Start: i, End: i + 1})
		i++
	}
	return groups
}

// pairStartsAt reports whether msgs[i] and msgs[i+1] form a validated tool pair.
func pairStartsAt(msgs []anthropic.MessageParam, i int) bool {
	m := msgs[i]
	if m.Role != anthropic.MessageParamRoleAssistant {
		return false
	}
	uses := toolUseIDs(m)
	if len(uses) == 0 {
		return false
	}
	if i+1 >= len(msgs) || msgs[i+1].Role != anthropic.MessageParamRoleUser {
		vlogf("exclude pair: reason=not_followed_by_user idx=%d", i)
		return false
	}

	ordered, results := leadingResultIDs(msgs[i+1])
	switch {
	case !ordered:
		vlogf("exclude pair: reason=ordering_invalid idx=%d", i)
	case !containsAll(results, uses):
		vlogf("exclude pair: reason=missing_results idx=%d", i)
	case !containsAll(uses, results):
		vlogf("exclude pair: reason=extra_results idx=%d", i)
	default:
		return true
	}
	return false
}

// toolUseIDs collects the tool_use ids of an assistant message.
func toolUseIDs(m anthropic.MessageParam) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, blk := range m.Content {
		if tu := blk.OfToolUse; tu != nil && tu.ID != "" {
			ids[tu.ID] = struct{}{}
		}
	}
	return ids
}

// leadingResultIDs collects tool_result ids from the leading segment of a user
// message. ordered is false when a tool_result reappears after other content;
// trailing text is allowed and ignored.
func leadingResultIDs(m anthropic.MessageParam) (ordered bool, ids map[string]struct{}) {
	ids = make(map[string]struct{})
	pastResults := false
	for _, blk := range m.Content {
		tr := blk.OfToolResult
		if tr == nil {
			pastResults = true
			continue
		}
		if pastResults {
			return false, ids
		}
		if tr.ToolUseID != "" {
			ids[tr.ToolUseID] = struct{}{}
		}
	}
	return true, ids
}

func containsAll(have, want map[string]struct{}) bool {
	for id := range want {
		if _, ok := have[id]; !ok {
			return false
		}
	}
	return true
}

// vlogf prints grouping and counting diagnostics when MEM_VERBOSE_CONTEXT_LOGS=1.
var verbose = os.Getenv("MEM_VERBOSE_CONTEXT_LOGS") == "1"

func vlogf(format string, args ...any) {
	if verbose {
		fmt.Printf("[contextwin] "+format+"\n", args...)
	}
}
