package contextwin

import (
	"fmt"
	"os"
	"strconv"
)

// PolicyFromEnv builds a Policy from optional MEM_TRIGGER_TOKENS,
// MEM_KEEP_PAIRS and MEM_CLEAR_AT_LEAST overrides. Unset variables keep
// the default thresholds; a set-but-unparsable value is an error so a
// typo cannot silently disable clearing.
func PolicyFromEnv() (Policy, error) {
	p := DefaultPolicy()
	for _, v := range []struct {
		name string
		dst  *int
	}{
		{"MEM_TRIGGER_TOKENS", &p.TriggerTokens},
		{"MEM_KEEP_PAIRS", &p.KeepPairs},
		{"MEM_CLEAR_AT_LEAST", &p.ClearAtLeast},
	} {
		s := os.Getenv(v.name)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return Policy{}, fmt.Errorf("invalid %s %q: want a positive integer", v.name, s)
		}
		*v.dst = n
	}
	return p, nil
}
