package overlap

// #region imports
import (
	"strings"
)

// #endregion

// #region kind

// Kind classifies how strongly a candidate measure matches an existing one.
type Kind int

const (
	// None means the texts are unrelated.
	None Kind = iota
	// Semantic means the texts cover the same measure with different
	// wording (synonym group or significant word overlap).
	Semantic
	// Exact means one text contains the other.
	Exact
)

// #endregion kind

// #region match

// minSignificantLen filters out articles and prepositions when comparing
// word sets.
const minSignificantLen = 4

// Match compares a candidate measure against an existing one.
// Synonyms is a list of equivalence groups; minWords is the shared
// significant-word count that upgrades None to Semantic.
func Match(existing, candidate string, synonyms [][]string, minWords int) Kind {
	a := strings.ToLower(strings.TrimSpace(existing))
	b := strings.ToLower(strings.TrimSpace(candidate))
	if a == "" || b == "" {
		return None
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		return Exact
	}

	for _, group := range synonyms {
		var inA, inB bool
		for _, term := range group {
			t := strings.ToLower(term)
			if strings.Contains(a, t) {
				inA = true
			}
			if strings.Contains(b, t) {
				inB = true
			}
		}
		if inA && inB {
			return Semantic
		}
	}

	if minWords > 0 && sharedWords(a, b) >= minWords {
		return Semantic
	}
	return None
}

func sharedWords(a, b string) int {
	set := make(map[string]bool)
	for _, w := range strings.Fields(a) {
		if len(w) >= minSignificantLen {
			set[w] = true
		}
	}
	count := 0
	seen := make(map[string]bool)
	for _, w := range strings.Fields(b) {
		if len(w) >= minSignificantLen && set[w] && !seen[w] {
			seen[w] = true
			count++
		}
	}
	return count
}

// #endregion match
