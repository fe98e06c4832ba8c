package analyzer

import (
	"strings"

	"github.com/rankforge/analyzer/models"
)

// tokenSet returns the distinct tokens of a phrase.
func tokenSet(phrase string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(phrase) {
		set[t] = true
	}
	return set
}

// rootSet maps a phrase's tokens through the semantic root table.
func rootSet(phrase string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(phrase) {
		if root, ok := semanticRoots[t]; ok {
			set[root] = true
		}
	}
	return set
}

func intersectionSize(a, b map[string]bool) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for t := range a {
		if b[t] {
			n++
		}
	}
	return n
}

// similar reports whether two phrases describe the same concept: high token
// overlap (Jaccard or overlap coefficient), or at least two shared tokens
// plus a shared semantic root covering inflectional variants.
func similar(a, b string) bool {
	sa, sb := tokenSet(a), tokenSet(b)
	inter := intersectionSize(sa, sb)
	if inter == 0 {
		return false
	}
	union := len(sa) + len(sb) - inter
	if float64(inter)/float64(union) > 0.5 {
		return true
	}
	min := len(sa)
	if len(sb) < min {
		min = len(sb)
	}
	if float64(inter)/float64(min) > 0.6 {
		return true
	}
	if inter >= 2 && intersectionSize(rootSet(a), rootSet(b)) > 0 {
		return true
	}
	return false
}

// dedupNgrams collapses near-duplicate long expressions. Input must be sorted
// by importance so the best-scoring variant becomes the representative; the
// merged frequency is the sum of the group and the result is re-sorted.
func dedupNgrams(exprs []models.Expression) []models.Expression {
	var merged []models.Expression
	for _, e := range exprs {
		found := false
		for i := range merged {
			if similar(merged[i].Phrase, e.Phrase) {
				merged[i].Frequency += e.Frequency
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, e)
		}
	}
	sortExpressions(merged)
	return merged
}
