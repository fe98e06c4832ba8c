package analyzer

import (
	"math"

	"github.com/rankforge/analyzer/models"
)

// applyFrequencyTargets replaces each keyword's raw corpus frequency with a
// recommended occurrence count and a [min, max] range derived from how the
// keyword is used on competitor pages. Always leaves 0 < min <= target <= max.
func applyFrequencyTargets(keywords []models.Keyword, texts []string) {
	for i := range keywords {
		kw := &keywords[i]

		var samples []float64
		for _, text := range texts {
			if f := countOccurrences(text, kw.Term); f > 0 {
				samples = append(samples, float64(f))
			}
		}

		var target, min, max int
		switch len(samples) {
		case 0:
			target, min, max = fallbackTarget(kw.Importance, kw.Frequency)
		case 1:
			target = int(math.Round(samples[0] * 1.1))
			if target < 1 {
				target = 1
			}
			min = int(float64(target) * 0.85)
			max = int(math.Ceil(float64(target) * 1.3))
		default:
			d := summarize(samples)
			target = int((d.median + d.p75) / 2)
			if target < 1 {
				target = 1
			}
			min = int(float64(target) * 0.9)
			max = int(math.Ceil(float64(target) * 1.25))
			if max-min < 4 {
				max = min + 4
			}
		}
		if min < 1 {
			min = 1
		}
		if max < target {
			max = target
		}

		kw.Frequency = target
		kw.MinFrequency = min
		kw.MaxFrequency = max
	}
}

// fallbackTarget estimates a usable range when a keyword never appears on
// any competitor page, scaled by its importance tier and corpus frequency.
func fallbackTarget(importance, corpusFreq int) (target, min, max int) {
	switch {
	case importance > 70:
		target = maxi(12, corpusFreq/8)
	case importance > 40:
		target = maxi(8, corpusFreq/15)
	default:
		target = maxi(5, corpusFreq/25)
	}
	min = target - 2
	if min < 1 {
		min = 1
	}
	max = target + 3
	return target, min, max
}

func maxi(a, b int) int {
	if a > b {
		return a
	}
	return b
}
