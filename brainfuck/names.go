package brainfuck

import (
	"fmt"
	"strings"

	"github.com/xrash/smetrics"
)

// Closest returns the option nearest to got by edit distance, or "" when
// nothing is close enough to be a plausible typo.
func Closest(got string, options []string) string {
	got = strings.ToLower(strings.TrimSpace(got))
	best, bestCost := "", -1
	for _, opt := range options {
		cost := smetrics.WagnerFischer(got, opt, 1, 1, 2)
		if bestCost < 0 || cost < bestCost {
			best, bestCost = opt, cost
		}
	}
	if bestCost < 0 || bestCost > len(best)/2+1 {
		return ""
	}
	return best
}

// UnknownName builds the error returned for an unrecognised configuration
// value.
func UnknownName(what, got string, options []string) error {
	if s := Closest(got, options); s != "" {
		return fmt.Errorf("Unknown %s [%s], did you mean [%s]?", what, got, s)
	}
	return fmt.Errorf("Unknown %s [%s], expected one of %v", what, got, options)
}
