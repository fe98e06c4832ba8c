package analyzer

import (
	"math"
	"sort"

	"github.com/rankforge/analyzer/models"
)

// frequencies counts token occurrences across the corpus.
func frequencies(tokens []string) map[string]int {
	freq := make(map[string]int, len(tokens)/2)
	for _, t := range tokens {
		freq[t]++
	}
	return freq
}

// importanceScores converts raw frequencies into 0-100 importance values
// using the term's weight in the corpus vector. Falls back to the raw
// frequency when the corpus is degenerate.
func importanceScores(freq map[string]int) map[string]int {
	var sumSquares float64
	for _, f := range freq {
		sumSquares += float64(f) * float64(f)
	}
	norm := math.Sqrt(sumSquares)

	scores := make(map[string]int, len(freq))
	for term, f := range freq {
		if norm > 0 {
			scores[term] = int(100 * float64(f) / norm)
		} else {
			scores[term] = f
		}
	}
	return scores
}

const (
	queryTermBonus   = 30
	maxRequiredKw    = 45
	maxComplementary = 100
	complementaryCap = 33
)

// extractRequiredKeywords builds the required keyword list: every query token
// present in the corpus is force-included with an importance bonus, then the
// most frequent corpus terms fill the rest, capped at 45. A query token no
// competitor uses is dropped rather than given an invented frequency.
func (r *run) extractRequiredKeywords(query string, freq map[string]int, importance map[string]int) []models.Keyword {
	queryTokens := r.tokenize(query, modeInclusive)

	seen := make(map[string]bool)
	var kws []models.Keyword
	for _, qt := range queryTokens {
		if seen[qt] {
			continue
		}
		seen[qt] = true
		f := freq[qt]
		if f == 0 {
			continue
		}
		kws = append(kws, models.Keyword{
			Term:       qt,
			Frequency:  f,
			Importance: importance[qt] + queryTermBonus,
		})
	}

	type termFreq struct {
		term string
		freq int
	}
	var candidates []termFreq
	for term, f := range freq {
		if len([]rune(term)) > 2 && f > 1 && !seen[term] {
			candidates = append(candidates, termFreq{term, f})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].freq != candidates[j].freq {
			return candidates[i].freq > candidates[j].freq
		}
		return candidates[i].term < candidates[j].term
	})
	if len(candidates) > 50 {
		candidates = candidates[:50]
	}
	for _, c := range candidates {
		kws = append(kws, models.Keyword{
			Term:       c.term,
			Frequency:  c.freq,
			Importance: importance[c.term],
		})
	}

	sort.SliceStable(kws, func(i, j int) bool {
		return kws[i].Importance > kws[j].Importance
	})
	if len(kws) > maxRequiredKw {
		kws = kws[:maxRequiredKw]
	}
	return kws
}

// extractComplementaryKeywords picks secondary terms from the next tier of
// corpus frequency, excluding anything already required. Longer words score
// higher, on the theory that they carry more topical signal.
func extractComplementaryKeywords(freq map[string]int, required []models.Keyword) []models.Keyword {
	exclude := make(map[string]bool, len(required))
	for _, kw := range required {
		exclude[kw.Term] = true
	}

	type termFreq struct {
		term string
		freq int
	}
	var ranked []termFreq
	for term, f := range freq {
		ranked = append(ranked, termFreq{term, f})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].freq != ranked[j].freq {
			return ranked[i].freq > ranked[j].freq
		}
		return ranked[i].term < ranked[j].term
	})
	if len(ranked) > 200 {
		ranked = ranked[:200]
	}

	var kws []models.Keyword
	for _, c := range ranked {
		if exclude[c.term] || len([]rune(c.term)) <= 3 {
			continue
		}
		score := c.freq + len([]rune(c.term)) - 3
		if score > complementaryCap {
			score = complementaryCap
		}
		kws = append(kws, models.Keyword{
			Term:       c.term,
			Frequency:  c.freq,
			Importance: score,
		})
		if len(kws) == maxComplementary {
			break
		}
	}
	return kws
}

// KeywordFilter optionally sanitizes an extracted keyword list. The returned
// list is always forced to a subset of the input, in input order, so a
// misbehaving implementation can never invent terms.
type KeywordFilter interface {
	FilterKeywords(terms []string) ([]string, error)
}

// applyFilter runs the optional sanitizer over a keyword list. Any error
// leaves the list untouched.
func applyFilter(f KeywordFilter, kws []models.Keyword) []models.Keyword {
	if f == nil || len(kws) == 0 {
		return kws
	}
	terms := make([]string, len(kws))
	for i, kw := range kws {
		terms[i] = kw.Term
	}
	kept, err := f.FilterKeywords(terms)
	if err != nil {
		return kws
	}
	keep := make(map[string]bool, len(kept))
	for _, t := range kept {
		keep[t] = true
	}
	out := kws[:0:0]
	for _, kw := range kws {
		if keep[kw.Term] {
			out = append(out, kw)
		}
	}
	return out
}
