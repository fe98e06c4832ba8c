package analyzer

import (
	"fmt"
	"strings"

	"github.com/rankforge/analyzer/models"
)

const (
	overoptTopKeywords  = 10
	minMeaningfulTokens = 50
	clusterOccurrences  = 5
	maxClusterPenalty   = 3
)

// scoreOveroptimization judges one page against the market norms and returns
// a 0-100 penalty score, the detailed report and human-readable
// recommendations. Pages too short to measure score zero: punishing a thin
// page for keyword ratios would only produce noise.
func (r *run) scoreOveroptimization(text string, keywords []models.Keyword, norms models.MarketNorms) (int, models.OveroptDetails, []string) {
	details := models.OveroptDetails{MarketContext: norms.TotalDensity}

	meaningful := r.tokenize(text, modeDefault)
	if len(meaningful) < minMeaningfulTokens {
		return 0, details, nil
	}

	// Densities are measured against the meaningful token count, so stopword
	// padding cannot dilute them.
	wordCount := len(meaningful)
	normText := matchNormalize(text)
	details.ContentLength = wordCount

	top := keywords
	if len(top) > overoptTopKeywords {
		top = top[:overoptTopKeywords]
	}

	score := 0
	var recs []string
	for _, kw := range top {
		freq := countOccurrences(text, kw.Term)
		if freq == 0 {
			continue
		}
		density := 100 * float64(freq) / float64(wordCount)
		details.TotalDensity += density

		th, ok := norms.Keywords[kw.Term]
		if !ok {
			continue
		}

		dScore := rampScore(density, th.MarketMedianDensity, th.MarketMaxDensity, 30, 50, 30, 70)
		fScore := rampScore(float64(freq), th.MarketMedianFreq, th.MarketMaxFreq, 20, 30, 20, 50)
		kwScore := dScore
		if fScore > kwScore {
			kwScore = fScore
		}
		score += kwScore

		var issues []string
		if density > th.DensityCritical {
			issues = append(issues, "densité critique")
		} else if density > th.DensityHigh {
			issues = append(issues, "densité élevée")
		} else if density > th.DensityModerate {
			issues = append(issues, "densité modérée")
		}
		if float64(freq) > th.FrequencyCritical {
			issues = append(issues, "fréquence critique")
		} else if float64(freq) > th.FrequencyHigh {
			issues = append(issues, "fréquence élevée")
		} else if float64(freq) > th.FrequencyModerate {
			issues = append(issues, "fréquence modérée")
		}
		if len(issues) > 0 {
			details.FlaggedKeywords = append(details.FlaggedKeywords, models.KeywordFlag{
				Keyword:   kw.Term,
				Frequency: freq,
				Density:   density,
				Issues:    issues,
				MarketContext: models.MarketContext{
					MeanDensity: th.MarketMeanDensity,
					MaxDensity:  th.MarketMaxDensity,
					MeanFreq:    th.MarketMeanFreq,
					MaxFreq:     th.MarketMaxFreq,
				},
			})
		}
		if density > th.MarketMaxDensity && th.MarketMaxDensity > 0 {
			recs = append(recs, fmt.Sprintf(
				"Réduire la densité de « %s » : %.1f%% contre %.1f%% au maximum chez les concurrents",
				kw.Term, density, th.MarketMaxDensity))
		} else if float64(freq) > th.MarketMaxFreq && th.MarketMaxFreq > 0 {
			recs = append(recs, fmt.Sprintf(
				"Réduire les répétitions de « %s » : %d occurrences contre %.0f au maximum chez les concurrents",
				kw.Term, freq, th.MarketMaxFreq))
		}

		// Clustering and stuffing are report-only: they inform the details,
		// never the score, which stays zero for market-conforming usage.
		if clustered(normText, matchNormalize(kw.Term)) && details.ClusteringPenalty < maxClusterPenalty {
			details.ClusteringPenalty++
		}
		if stuffed(text, kw.Term) {
			details.StuffingCount++
		}
	}
	if score > 100 {
		score = 100
	}
	if details.TotalDensity > norms.TotalDensity.High {
		recs = append(recs, fmt.Sprintf(
			"Densité totale de mots-clés trop élevée : %.1f%% contre une moyenne marché de %.1f%%",
			details.TotalDensity, norms.TotalDensity.MarketMean))
	}
	return score, details, recs
}

// rampScore maps a measurement against its market median and max: nothing up
// to the median, a linear ramp to rampMax between median and max, and above
// the max a jump to base plus an excess-proportional term capped at excessMax.
func rampScore(value, median, max float64, rampMax, base, excessMax, limit float64) int {
	switch {
	case value <= median || max <= 0:
		return 0
	case value <= max:
		if max == median {
			return int(rampMax)
		}
		return int(rampMax * (value - median) / (max - median))
	default:
		excess := (value - max) / max * excessMax
		if excess > excessMax {
			excess = excessMax
		}
		s := base + excess
		if s > limit {
			s = limit
		}
		return int(s)
	}
}

// clustered reports whether the keyword piles up in one region of the page:
// five or more occurrences inside a window of max(300, len/8) characters.
func clustered(normText, normKw string) bool {
	if normKw == "" {
		return false
	}
	var positions []int
	for off := 0; ; {
		i := strings.Index(normText[off:], normKw)
		if i < 0 {
			break
		}
		positions = append(positions, off+i)
		off += i + len(normKw)
	}
	if len(positions) < clusterOccurrences {
		return false
	}
	window := len(normText) / 8
	if window < 300 {
		window = 300
	}
	for i := 0; i+clusterOccurrences <= len(positions); i++ {
		if positions[i+clusterOccurrences-1]-positions[i] <= window {
			return true
		}
	}
	return false
}

// stuffed detects the crude stuffing patterns in the raw lowercased text: the
// keyword doubled back to back, or listed with commas at least twice. Checking
// the raw text keeps sentence punctuation as a separator, so a keyword closing
// one sentence and opening the next is not a repetition.
func stuffed(original, keyword string) bool {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return false
	}
	lower := strings.ToLower(original)
	if strings.Contains(lower, kw+" "+kw) {
		return true
	}
	return strings.Count(lower, kw+",") >= 2
}
