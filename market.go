package analyzer

import (
	"sort"

	"github.com/rankforge/analyzer/models"
)

const marketTopKeywords = 15

// distribution summarizes a sample of per-page measurements.
type distribution struct {
	min, max, mean, median, p75, p90 float64
}

// summarize computes rank statistics over values. The p75/p90 percentiles
// degrade to the max on small samples, where a rank estimate would be noise.
func summarize(values []float64) distribution {
	n := len(values)
	if n == 0 {
		return distribution{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	d := distribution{
		min:    sorted[0],
		max:    sorted[n-1],
		mean:   sum / float64(n),
		median: sorted[n/2],
		p75:    sorted[n-1],
		p90:    sorted[n-1],
	}
	if n > 3 {
		d.p75 = sorted[int(float64(n)*0.75)]
	}
	if n > 9 {
		d.p90 = sorted[int(float64(n)*0.9)]
	}
	return d
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// analyzeMarketNorms measures how the top keywords are actually used across
// competitor pages and derives warning thresholds from that distribution,
// so "too much" is defined by the market rather than fixed constants.
// Densities use the meaningful token count as denominator, matching the
// over-optimization scorer.
func (r *run) analyzeMarketNorms(keywords []models.Keyword, texts []string) models.MarketNorms {
	top := keywords
	if len(top) > marketTopKeywords {
		top = top[:marketTopKeywords]
	}

	norms := models.MarketNorms{
		Keywords:            make(map[string]models.KeywordThresholds, len(top)),
		CompetitorsAnalyzed: len(texts),
	}

	wordCounts := make([]int, len(texts))
	for i, t := range texts {
		wordCounts[i] = len(r.tokenize(t, modeDefault))
	}

	totalDensities := make([]float64, len(texts))
	for _, kw := range top {
		var freqs, densities []float64
		for i, text := range texts {
			if wordCounts[i] == 0 {
				continue
			}
			f := countOccurrences(text, kw.Term)
			if f == 0 {
				continue
			}
			density := 100 * float64(f) / float64(wordCounts[i])
			freqs = append(freqs, float64(f))
			densities = append(densities, density)
			totalDensities[i] += density
		}
		if len(freqs) == 0 {
			continue
		}

		fd := summarize(freqs)
		dd := summarize(densities)
		norms.Keywords[kw.Term] = models.KeywordThresholds{
			DensityModerate:   maxf(dd.p75*1.3, dd.mean+1.0),
			DensityHigh:       maxf(dd.p90*1.2, dd.mean+2.0),
			DensityCritical:   maxf(dd.max*1.1, dd.mean+3.0),
			FrequencyModerate: maxf(fd.p75*1.5, fd.mean+5),
			FrequencyHigh:     maxf(fd.p90*1.3, fd.mean+10),
			FrequencyCritical: maxf(fd.max*1.2, fd.mean+15),

			MarketMinDensity:    dd.min,
			MarketMaxDensity:    dd.max,
			MarketMedianDensity: dd.median,
			MarketMeanDensity:   dd.mean,
			MarketMinFreq:       fd.min,
			MarketMaxFreq:       fd.max,
			MarketMedianFreq:    fd.median,
			MarketMeanFreq:      fd.mean,
		}
	}

	var nonZero []float64
	for _, td := range totalDensities {
		if td > 0 {
			nonZero = append(nonZero, td)
		}
	}
	if len(nonZero) == 0 {
		// No usable competitor data. Conservative fixed thresholds.
		norms.TotalDensity = models.TotalDensityThresholds{
			Moderate:   20,
			High:       30,
			Critical:   40,
			MarketMean: 10,
			MarketMax:  25,
		}
		return norms
	}

	td := summarize(nonZero)
	norms.TotalDensity = models.TotalDensityThresholds{
		Moderate:   maxf(td.p75*1.4, td.mean+5),
		High:       maxf(td.p90*1.3, td.mean+8),
		Critical:   maxf(td.max*1.2, td.mean+12),
		MarketMean: td.mean,
		MarketMax:  td.max,
	}
	return norms
}
