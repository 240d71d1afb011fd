package engine

import (
	"strings"

	"github.com/xrash/smetrics"
)

// similarTeamName reports whether name collides with existing under the
// fuzzy lowercase ≥0.85 Jaro-Winkler similarity rule from spec.md §4.1.2.
func similarTeamName(name, existing string) bool {
	a, b := strings.ToLower(name), strings.ToLower(existing)
	if a == b {
		return true
	}
	return smetrics.JaroWinkler(a, b, 0.7, 4) >= 0.85
}
