package analyzer

import (
	"math"
	"sort"

	"github.com/rankforge/analyzer/models"
)

// scoreContent computes the 0-100 content score of one page: 70 points for
// required keyword coverage, 30 for complementary coverage, minus a penalty
// proportional to how many keywords exceed their recommended maximum. A page
// passes a keyword when it reaches the minimum recommended frequency. An
// empty keyword list earns its full weight, there is nothing to fail.
func scoreContent(text string, required, complementary []models.Keyword) int {
	reqPassed, reqOver := coverage(text, required)
	compPassed, compOver := coverage(text, complementary)

	reqRatio := 1.0
	if len(required) > 0 {
		reqRatio = float64(reqPassed) / float64(len(required))
	}
	compRatio := 1.0
	if len(complementary) > 0 {
		compRatio = float64(compPassed) / float64(len(complementary))
	}
	overRatio := 0.0
	if total := len(required) + len(complementary); total > 0 {
		overRatio = float64(reqOver+compOver) / float64(total)
	}

	score := 70*reqRatio + 30*compRatio - 20*overRatio
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(score)
}

// coverage counts keywords whose page frequency reaches the recommended
// minimum, and those that exceed the recommended maximum.
func coverage(text string, keywords []models.Keyword) (passed, over int) {
	for _, kw := range keywords {
		f := countOccurrences(text, kw.Term)
		if f >= kw.MinFrequency {
			passed++
		}
		if f > kw.MaxFrequency {
			over++
		}
	}
	return passed, over
}

// computeTargetScore sets the score a new page should aim for: slightly above
// the mean of the five best competitors, capped at 95. Without competitor
// data the target defaults to a neutral 50.
func computeTargetScore(competitors []models.Competitor) int {
	var scores []int
	for _, c := range competitors {
		scores = append(scores, c.Score)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(scores)))
	if len(scores) > 5 {
		scores = scores[:5]
	}
	if len(scores) == 0 {
		return 50
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	target := int(math.Round(float64(sum)/float64(len(scores)))) + 5
	if target > 95 {
		target = 95
	}
	return target
}

// computeRequiredWords recommends a word count: the median length of the
// top-8 ranked pages with real content, plus room to outwrite them.
func computeRequiredWords(competitors []models.Competitor) int {
	var counts []int
	for _, c := range competitors {
		if c.Position <= 8 && c.WordCount > 100 {
			counts = append(counts, c.WordCount)
		}
	}
	if len(counts) == 0 {
		return 800
	}
	sort.Ints(counts)
	words := counts[len(counts)/2] + 200
	if words < 600 {
		words = 600
	}
	return words
}

// computeMaxOveroptimization bounds the acceptable over-optimization score
// by the size of the meaningful keyword set.
func computeMaxOveroptimization(required []models.Keyword) int {
	n := 0
	for _, kw := range required {
		if kw.Importance > 15 {
			n++
		}
	}
	m := n / 2
	if m < 3 {
		m = 3
	}
	if m > 8 {
		m = 8
	}
	return m
}
