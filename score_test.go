package analyzer

import (
	"testing"

	"github.com/rankforge/analyzer/models"
)

func TestScoreContent(t *testing.T) {
	required := []models.Keyword{
		{Term: "créatine", Frequency: 2, MinFrequency: 1, MaxFrequency: 3},
		{Term: "whey", MinFrequency: 1, MaxFrequency: 2},
		{Term: "bcaa", MinFrequency: 2, MaxFrequency: 4},
	}
	complementary := []models.Keyword{
		{Term: "musculation", MinFrequency: 1, MaxFrequency: 2},
		{Term: "protéine", MinFrequency: 1, MaxFrequency: 2},
		{Term: "performance", MinFrequency: 1, MaxFrequency: 2},
		{Term: "inexistant", MinFrequency: 1, MaxFrequency: 2},
	}
	content := "La créatine et la whey aident. La créatine et le bcaa " +
		"soutiennent la musculation et la protéine."

	// required passes 2/3 (bcaa below min), complementary 2/4, no keyword
	// over its max: 70*2/3 + 30*2/4 = 61.67, truncated.
	got := scoreContent(content, required, complementary)
	if got != 61 {
		t.Errorf("scoreContent = %d, want 61", got)
	}
}

func TestScoreContentEmptyListsGetFullCredit(t *testing.T) {
	got := scoreContent("du texte sans mots-clés", nil, nil)
	if got != 100 {
		t.Errorf("scoreContent with no keywords = %d, want 100", got)
	}
}

func TestScoreContentOveroptimizationMalus(t *testing.T) {
	required := []models.Keyword{
		{Term: "créatine", MinFrequency: 1, MaxFrequency: 2},
	}
	content := "créatine créatine créatine créatine créatine"

	// Passes the minimum but exceeds the maximum: 70 + 30 - 20*1/1 = 80.
	got := scoreContent(content, required, nil)
	if got != 80 {
		t.Errorf("scoreContent = %d, want 80", got)
	}
}

func TestScoreContentBounds(t *testing.T) {
	required := []models.Keyword{
		{Term: "absent", MinFrequency: 5, MaxFrequency: 10},
	}
	got := scoreContent("rien d'utile ici", required, nil)
	if got < 0 || got > 100 {
		t.Errorf("scoreContent out of bounds: %d", got)
	}
}

func TestScoreContentIdempotent(t *testing.T) {
	required := []models.Keyword{
		{Term: "créatine", MinFrequency: 1, MaxFrequency: 3},
	}
	content := "la créatine est utile pour la créatine"

	first := scoreContent(content, required, nil)
	second := scoreContent(content, required, nil)
	if first != second {
		t.Errorf("scoreContent not deterministic: %d then %d", first, second)
	}
}

func TestComputeTargetScore(t *testing.T) {
	tests := []struct {
		name     string
		scores   []int
		expected int
	}{
		{
			name:     "mean of top five plus margin",
			scores:   []int{72, 64, 58, 45, 38},
			expected: 60,
		},
		{
			name:     "only top five count",
			scores:   []int{72, 64, 58, 45, 38, 10, 5},
			expected: 60,
		},
		{
			name:     "capped at 95",
			scores:   []int{98, 97, 99, 96, 98},
			expected: 95,
		},
		{
			name:     "no competitors defaults to neutral",
			scores:   nil,
			expected: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var comps []models.Competitor
			for _, s := range tt.scores {
				comps = append(comps, models.Competitor{Score: s})
			}
			if got := computeTargetScore(comps); got != tt.expected {
				t.Errorf("computeTargetScore(%v) = %d, want %d", tt.scores, got, tt.expected)
			}
		})
	}
}

func TestComputeRequiredWords(t *testing.T) {
	tests := []struct {
		name     string
		comps    []models.Competitor
		expected int
	}{
		{
			name: "median of top ranked pages plus margin",
			comps: []models.Competitor{
				{Position: 1, WordCount: 900},
				{Position: 2, WordCount: 1200},
				{Position: 3, WordCount: 1500},
			},
			expected: 1400,
		},
		{
			name: "thin pages ignored",
			comps: []models.Competitor{
				{Position: 1, WordCount: 50},
				{Position: 2, WordCount: 80},
				{Position: 3, WordCount: 1000},
			},
			expected: 1200,
		},
		{
			name: "floor at 600",
			comps: []models.Competitor{
				{Position: 1, WordCount: 150},
			},
			expected: 600,
		},
		{
			name:     "no usable pages defaults to 800",
			comps:    nil,
			expected: 800,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeRequiredWords(tt.comps); got != tt.expected {
				t.Errorf("computeRequiredWords = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestComputeMaxOveroptimization(t *testing.T) {
	makeKeywords := func(n, importance int) []models.Keyword {
		kws := make([]models.Keyword, n)
		for i := range kws {
			kws[i].Importance = importance
		}
		return kws
	}

	tests := []struct {
		name     string
		kws      []models.Keyword
		expected int
	}{
		{name: "floor at 3", kws: makeKeywords(2, 50), expected: 3},
		{name: "half the significant keywords", kws: makeKeywords(10, 50), expected: 5},
		{name: "ceiling at 8", kws: makeKeywords(40, 50), expected: 8},
		{name: "low importance keywords do not count", kws: makeKeywords(20, 10), expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeMaxOveroptimization(tt.kws); got != tt.expected {
				t.Errorf("computeMaxOveroptimization = %d, want %d", got, tt.expected)
			}
		})
	}
}
