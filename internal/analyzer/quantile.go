package analyzer

import (
	"math"
	"strings"
)

// quantile computes the q-th quantile of an already-sorted slice using
// linear interpolation between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// identifier-looking name fragments
var identifierFragments = []string{"id", "index", "key"}

func looksLikeIdentifier(name string) bool {
	lower := strings.ToLower(name)
	for _, fragment := range identifierFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}
