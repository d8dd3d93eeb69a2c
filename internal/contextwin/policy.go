package contextwin

import "github.com/anthropics/anthropic-sdk-go"

// Policy configures when and how much conversation history to clear.
// Zero-valued fields fall back to the defaults below.
type Policy struct {
	TriggerTokens int // clearing applies only once the estimate exceeds this
	KeepPairs     int // newest tool pairs always retained
	ClearAtLeast  int // skip the edit entirely unless it saves at least this many tokens
}

// Default clearing thresholds.
const (
	DefaultTriggerTokens = 30_000
	DefaultKeepPairs     = 3
	DefaultClearAtLeast  = 5_000
)

// DefaultPolicy returns the standard clearing configuration.
func DefaultPolicy() Policy {
	return Policy{
		TriggerTokens: DefaultTriggerTokens,
		KeepPairs:     DefaultKeepPairs,
		ClearAtLeast:  DefaultClearAtLeast,
	}
}

func (p Policy) withDefaults() Policy {
	if p.TriggerTokens <= 0 {
		p.TriggerTokens = DefaultTriggerTokens
	}
	if p.KeepPairs <= 0 {
		p.KeepPairs = DefaultKeepPairs
	}
	if p.ClearAtLeast <= 0 {
		p.ClearAtLeast = DefaultClearAtLeast
	}
	return p
}

// Stats summarizes one clearing decision.
//
// Fields:
// - Total: estimated tokens before editing.
// - Remaining: estimated tokens after editing (equals Total when skipped).
// - ClearedPairs / SavedTokens: what the applied edit removed.
// - Skipped: true when no edit was applied; Reason says why.
type Stats struct {
	Total        int
	Remaining    int
	ClearedPairs int
	SavedTokens  int
	Skipped      bool
	Reason       string
}

// Skip reasons surfaced in Stats.Reason.
const (
	ReasonBelowTrigger        = "below_trigger"
	ReasonNoClearablePairs    = "no_clearable_pairs"
	ReasonInsufficientSavings = "insufficient_savings"
)

// Apply returns msgs with old tool pairs cleared according to p, plus stats
// describing the decision. Only whole validated pairs are removed, oldest
// first, so tool_use blocks never lose their tool_result and message-role
// alternation survives the edit. When no edit applies, msgs is returned
// unchanged (same backing array).
func Apply(msgs []anthropic.MessageParam, p Policy, c TokenCounter) ([]anthropic.MessageParam, Stats) {
	p = p.withDefaults()

	if len(msgs) == 0 {
		return msgs, Stats{Skipped: true, Reason: ReasonBelowTrigger}
	}

	groups := GroupBlocks(msgs)
	costs := make([]int, len(groups))
	total := 0
	for i, g := range groups {
		costs[i] = c.CountGroup(g, msgs)
		total += costs[i]
	}

	if total <= p.TriggerTokens {
		return msgs, Stats{Total: total, Remaining: total, Skipped: true, Reason: ReasonBelowTrigger}
	}

	// Pairs eligible for clearing: every validated pair except the newest KeepPairs.
	var pairIdx []int
	for i, g := range groups {
		if g.Kind == GroupPair {
			pairIdx = append(pairIdx, i)
		}
	}
	if len(pairIdx) <= p.KeepPairs {
		vlogf("skip edit: reason=%s pairs=%d keep=%d", ReasonNoClearablePairs, len(pairIdx), p.KeepPairs)
		return msgs, Stats{Total: total, Remaining: total, Skipped: true, Reason: ReasonNoClearablePairs}
	}
	clearable := pairIdx[:len(pairIdx)-p.KeepPairs]

	saved := 0
	drop := make(map[int]bool, len(clearable))
	for _, gi := range clearable {
		drop[gi] = true
		saved += costs[gi]
	}
	if saved < p.ClearAtLeast {
		vlogf("skip edit: reason=%s saved=%d floor=%d", ReasonInsufficientSavings, saved, p.ClearAtLeast)
		return msgs, Stats{Total: total, Remaining: total, Skipped: true, Reason: ReasonInsufficientSavings}
	}

	out := make([]anthropic.MessageParam, 0, len(msgs)-2*len(clearable))
	for gi, g := range groups {
		if drop[gi] {
			continue
		}
		out = append(out, msgs[g.Start:g.End]...)
	}

	return out, Stats{
		Total:        total,
		Remaining:    total - saved,
		ClearedPairs: len(clearable),
		SavedTokens:  saved,
	}
}
