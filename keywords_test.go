package analyzer

import (
	"errors"
	"strings"
	"testing"

	"github.com/rankforge/analyzer/models"
)

func corpusFrom(r *run, texts ...string) map[string]int {
	var tokens []string
	for _, t := range texts {
		tokens = append(tokens, r.tokenize(t, modeDefault)...)
	}
	return frequencies(tokens)
}

func TestExtractRequiredKeywords(t *testing.T) {
	r := newRun()
	freq := corpusFrom(r,
		strings.Repeat("la créatine aide la musculation. ", 5),
		strings.Repeat("un complément de créatine pour la performance. ", 3),
	)
	importance := importanceScores(freq)

	kws := r.extractRequiredKeywords("créatine musculation", freq, importance)

	if len(kws) == 0 {
		t.Fatal("expected keywords")
	}
	byTerm := make(map[string]models.Keyword)
	for _, kw := range kws {
		byTerm[kw.Term] = kw
	}
	for _, qt := range []string{"créatine", "musculation"} {
		if _, ok := byTerm[qt]; !ok {
			t.Errorf("query term %q missing from required keywords", qt)
		}
	}
	// The query bonus should put the query terms ahead of corpus-only terms.
	if kws[0].Term != "créatine" {
		t.Errorf("expected créatine first, got %q", kws[0].Term)
	}
	for i := 1; i < len(kws); i++ {
		if kws[i].Importance > kws[i-1].Importance {
			t.Errorf("keywords not sorted by importance at %d", i)
		}
	}
}

func TestExtractRequiredKeywordsSkipsAbsentQueryTerms(t *testing.T) {
	r := newRun()
	freq := corpusFrom(r,
		strings.Repeat("la musculation demande un entraînement régulier. ", 5),
	)
	importance := importanceScores(freq)

	kws := r.extractRequiredKeywords("zirconium musculation", freq, importance)

	for _, kw := range kws {
		if kw.Term == "zirconium" {
			t.Errorf("query term absent from the corpus force-included: %+v", kw)
		}
	}
	found := false
	for _, kw := range kws {
		if kw.Term == "musculation" {
			found = true
		}
	}
	if !found {
		t.Error("query term present in the corpus missing from required keywords")
	}
}

func TestExtractRequiredKeywordsCapped(t *testing.T) {
	r := newRun()
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		word := strings.Repeat(string(rune('a'+i%26)), 4+i%3)
		sb.WriteString(word + " " + word + " ")
	}
	freq := corpusFrom(r, sb.String())
	importance := importanceScores(freq)

	kws := r.extractRequiredKeywords("créatine", freq, importance)
	if len(kws) > maxRequiredKw {
		t.Errorf("required keywords over cap: %d", len(kws))
	}
}

func TestExtractComplementaryKeywords(t *testing.T) {
	r := newRun()
	freq := corpusFrom(r,
		strings.Repeat("créatine monohydrate qualité supérieure nutrition sportive. ", 4),
	)
	required := []models.Keyword{{Term: "créatine"}, {Term: "monohydrate"}}

	kws := extractComplementaryKeywords(freq, required)

	for _, kw := range kws {
		if kw.Term == "créatine" || kw.Term == "monohydrate" {
			t.Errorf("required term %q leaked into complementary list", kw.Term)
		}
		if len([]rune(kw.Term)) <= 3 {
			t.Errorf("short term %q in complementary list", kw.Term)
		}
		if kw.Importance > complementaryCap {
			t.Errorf("%q importance %d over cap %d", kw.Term, kw.Importance, complementaryCap)
		}
	}
}

func TestImportanceScores(t *testing.T) {
	freq := map[string]int{"créatine": 8, "whey": 4, "bcaa": 1}
	scores := importanceScores(freq)

	if scores["créatine"] <= scores["whey"] || scores["whey"] <= scores["bcaa"] {
		t.Errorf("importance does not preserve frequency order: %v", scores)
	}
	for term, s := range scores {
		if s < 0 || s > 100 {
			t.Errorf("%s importance %d out of range", term, s)
		}
	}
}

type fakeFilter struct {
	keep []string
	err  error
}

func (f fakeFilter) FilterKeywords(terms []string) ([]string, error) {
	return f.keep, f.err
}

func TestApplyFilter(t *testing.T) {
	kws := []models.Keyword{
		{Term: "créatine", Importance: 90},
		{Term: "widget", Importance: 50},
		{Term: "whey", Importance: 40},
	}

	t.Run("subset kept in input order", func(t *testing.T) {
		got := applyFilter(fakeFilter{keep: []string{"whey", "créatine"}}, kws)
		if len(got) != 2 || got[0].Term != "créatine" || got[1].Term != "whey" {
			t.Errorf("unexpected filtered list: %+v", got)
		}
	})

	t.Run("unknown terms ignored", func(t *testing.T) {
		got := applyFilter(fakeFilter{keep: []string{"créatine", "invented"}}, kws)
		if len(got) != 1 || got[0].Term != "créatine" {
			t.Errorf("filter invented a term: %+v", got)
		}
	})

	t.Run("error leaves list untouched", func(t *testing.T) {
		got := applyFilter(fakeFilter{err: errors.New("llm down")}, kws)
		if len(got) != len(kws) {
			t.Errorf("expected original list on error, got %d entries", len(got))
		}
	})

	t.Run("nil filter is a no-op", func(t *testing.T) {
		got := applyFilter(nil, kws)
		if len(got) != len(kws) {
			t.Errorf("expected original list, got %d entries", len(got))
		}
	})
}
