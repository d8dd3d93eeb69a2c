package contextwin_test

import (
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/petasbytes/memory-agent/internal/contextwin"
)

// conversation builds: user question, n tool pairs with ~100-rune results, and
// a closing assistant message. Costs with HeuristicCounter: question 5, each
// pair 108, closing 8.
func conversation(pairs int) []anthropic.MessageParam {
	msgs := []anthropic.MessageParam{User(T("q"))}
	for i := 0; i < pairs; i++ {
		id := "t" + string(rune('1'+i))
		msgs = append(msgs,
			Asst(TU(id)),
			User(TRString(id, strings.Repeat("a", 100))),
		)
	}
	return append(msgs, Asst(T("done")))
}

func TestApply_ClearsOldestPairsOnly(t *testing.T) {
	msgs := conversation(5) // total = 5 + 5*108 + 8 = 553
	p := contextwin.Policy{TriggerTokens: 300, KeepPairs: 3, ClearAtLeast: 100}

	out, stats := contextwin.Apply(msgs, p, contextwin.HeuristicCounter{})
	if stats.Skipped {
		t.Fatalf("expected edit to apply, skipped with reason %q", stats.Reason)
	}
	if stats.Total != 553 {
		t.Fatalf("unexpected total: %d", stats.Total)
	}
	if stats.ClearedPairs != 2 || stats.SavedTokens != 216 {
		t.Fatalf("unexpected clearing: pairs=%d saved=%d", stats.ClearedPairs, stats.SavedTokens)
	}
	if stats.Remaining != 553-216 {
		t.Fatalf("unexpected remaining: %d", stats.Remaining)
	}

	// 12 messages minus 2 cleared pairs = 8; question and closing survive.
	if len(out) != 8 {
		t.Fatalf("unexpected message count: %d", len(out))
	}
	if out[0].Content[0].OfText == nil || out[0].Content[0].OfText.Text != "q" {
		t.Fatal("question must survive clearing")
	}
	if out[len(out)-1].Content[0].OfText == nil || out[len(out)-1].Content[0].OfText.Text != "done" {
		t.Fatal("closing assistant text must survive clearing")
	}

	// No orphans: every tool_use in the edited slice still has its result adjacent.
	groups := contextwin.GroupBlocks(out)
	for _, g := range groups {
		if g.Kind == contextwin.GroupSingleton {
			for _, blk := range out[g.Start].Content {
				if blk.OfToolUse != nil || blk.OfToolResult != nil {
					t.Fatalf("orphan tool block at message %d", g.Start)
				}
			}
		}
	}
}

func TestApply_BelowTrigger(t *testing.T) {
	msgs := conversation(5)
	p := contextwin.Policy{TriggerTokens: 10_000, KeepPairs: 3, ClearAtLeast: 100}

	out, stats := contextwin.Apply(msgs, p, contextwin.HeuristicCounter{})
	if !stats.Skipped || stats.Reason != contextwin.ReasonBelowTrigger {
		t.Fatalf("expected below_trigger skip, got %+v", stats)
	}
	if len(out) != len(msgs) {
		t.Fatal("conversation must be unchanged when below trigger")
	}
	if stats.Remaining != stats.Total {
		t.Fatalf("remaining must equal total when skipped: %+v", stats)
	}
}

func TestApply_KeepPairsBlocksClearing(t *testing.T) {
	msgs := conversation(2) // only 2 pairs, keep 3
	p := contextwin.Policy{TriggerTokens: 10, KeepPairs: 3, ClearAtLeast: 10}

	out, stats := contextwin.Apply(msgs, p, contextwin.HeuristicCounter{})
	if !stats.Skipped || stats.Reason != contextwin.ReasonNoClearablePairs {
		t.Fatalf("expected no_clearable_pairs skip, got %+v", stats)
	}
	if len(out) != len(msgs) {
		t.Fatal("conversation must be unchanged")
	}
}

func TestApply_ClearAtLeastFloor(t *testing.T) {
	msgs := conversation(5)
	p := contextwin.Policy{TriggerTokens: 300, KeepPairs: 3, ClearAtLeast: 5_000}

	out, stats := contextwin.Apply(msgs, p, contextwin.HeuristicCounter{})
	if !stats.Skipped || stats.Reason != contextwin.ReasonInsufficientSavings {
		t.Fatalf("expected insufficient_savings skip, got %+v", stats)
	}
	if len(out) != len(msgs) {
		t.Fatal("conversation must be unchanged")
	}
}

func TestApply_EmptyConversation(t *testing.T) {
	out, stats := contextwin.Apply(nil, contextwin.DefaultPolicy(), contextwin.HeuristicCounter{})
	if out != nil || !stats.Skipped {
		t.Fatalf("expected skip on empty conversation, got %+v", stats)
	}
}

func TestApply_ZeroPolicyUsesDefaults(t *testing.T) {
	msgs := conversation(1)
	_, stats := contextwin.Apply(msgs, contextwin.Policy{}, contextwin.HeuristicCounter{})
	// Small conversation, default 30k trigger: must skip below trigger.
	if !stats.Skipped || stats.Reason != contextwin.ReasonBelowTrigger {
		t.Fatalf("expected default trigger to skip, got %+v", stats)
	}
}
