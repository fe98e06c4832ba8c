package analyzer

import (
	"strings"
	"testing"

	"github.com/rankforge/analyzer/models"
)

func TestBuildQuestions(t *testing.T) {
	paa := []string{
		"Quand faut-il prendre de la créatine ?",
		"La créatine est-elle dangereuse ?",
	}
	required := []models.Keyword{{Term: "monohydrate"}, {Term: "musculation"}}

	got := buildQuestions("créatine", paa, required)

	if len(got) == 0 {
		t.Fatal("expected questions")
	}
	// Questions real users asked come before the templated ones.
	if got[0] != paa[0] || got[1] != paa[1] {
		t.Errorf("people-also-ask questions not first: %v", got[:2])
	}
	if len(got) > maxQuestions {
		t.Errorf("question count %d over cap %d", len(got), maxQuestions)
	}
	seen := make(map[string]bool)
	for _, q := range got {
		key := strings.ToLower(q)
		if seen[key] {
			t.Errorf("duplicate question %q", q)
		}
		seen[key] = true
	}
	foundKeyword := false
	for _, q := range got {
		if strings.Contains(q, "monohydrate") {
			foundKeyword = true
		}
	}
	if !foundKeyword {
		t.Error("expected templated questions for the top keywords")
	}
}

func TestBuildQuestionsCap(t *testing.T) {
	var paa []string
	for i := 0; i < 80; i++ {
		paa = append(paa, strings.Repeat("a", i+1)+" ?")
	}
	got := buildQuestions("créatine", paa, nil)
	if len(got) != maxQuestions {
		t.Errorf("got %d questions, want cap %d", len(got), maxQuestions)
	}
}

func TestClassifyContentTypes(t *testing.T) {
	results := []models.OrganicResult{
		{URL: "https://shop.fr/produit/creatine-500g"},
		{URL: "https://site.fr/categorie/complements"},
		{URL: "https://blog.fr/guide-creatine"},
		{URL: "https://avis.fr/creatine-test"},
	}

	got := classifyContentTypes(results)

	if got.Product != 25 || got.Catalog != 25 || got.Editorial != 50 {
		t.Errorf("content types = %+v, want 25/25/50", got)
	}
}

func TestClassifyContentTypesEmpty(t *testing.T) {
	got := classifyContentTypes(nil)
	if got != (models.ContentTypes{}) {
		t.Errorf("expected zero distribution, got %+v", got)
	}
}

func TestWordCountStats(t *testing.T) {
	comps := []models.Competitor{
		{WordCount: 900},
		{WordCount: 0},
		{WordCount: 1500},
		{WordCount: 1200},
	}

	got := wordCountStats(comps)
	want := models.WordStats{Min: 900, Max: 1500, Mean: 1200}
	if got != want {
		t.Errorf("wordCountStats = %+v, want %+v", got, want)
	}
}

func TestWordCountStatsDefaults(t *testing.T) {
	got := wordCountStats(nil)
	want := models.WordStats{Min: 800, Max: 1500, Mean: 1200}
	if got != want {
		t.Errorf("wordCountStats = %+v, want %+v", got, want)
	}
}
