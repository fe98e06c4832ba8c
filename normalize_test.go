package analyzer

import (
	"fmt"
	"strings"
	"testing"
)

func TestStripNoise(t *testing.T) {
	tests := []struct {
		name  string
		input string
		gone  []string
		kept  []string
	}{
		{
			name:  "css units and colors",
			input: "margin 10px couleur #fff3a2 rgba(0, 0, 0, 0.5) la créatine",
			gone:  []string{"10px", "#fff3a2", "rgba"},
			kept:  []string{"créatine"},
		},
		{
			name:  "attribute fragments",
			input: `class="header-main" id='nav' un guide complet`,
			gone:  []string{"header-main", "nav"},
			kept:  []string{"guide", "complet"},
		},
		{
			name:  "layout keywords",
			input: "display flex position absolue des protéines",
			gone:  []string{"display", "flex"},
			kept:  []string{"protéines"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripNoise(tt.input)
			for _, g := range tt.gone {
				if strings.Contains(got, g) {
					t.Errorf("stripNoise(%q) still contains %q: %q", tt.input, g, got)
				}
			}
			for _, k := range tt.kept {
				if !strings.Contains(got, k) {
					t.Errorf("stripNoise(%q) lost %q: %q", tt.input, k, got)
				}
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	r := newRun()

	tests := []struct {
		name     string
		input    string
		mode     tokenMode
		expected []string
	}{
		{
			name:     "stopwords and short tokens removed",
			input:    "La créatine est un complément pour la musculation",
			mode:     modeDefault,
			expected: []string{"créatine", "complément", "musculation"},
		},
		{
			name:     "inclusive mode keeps two-letter tokens",
			input:    "go et créatine",
			mode:     modeInclusive,
			expected: []string{"go", "créatine"},
		},
		{
			name:     "acronym exceptions survive the length filter",
			input:    "le seo du web",
			mode:     modeDefault,
			expected: []string{"seo", "web"},
		},
		{
			name:     "elision splits into separate tokens",
			input:    "l'école améliore l'entraînement",
			mode:     modeDefault,
			expected: []string{"école", "améliore", "entraînement"},
		},
		{
			name:     "empty input",
			input:    "",
			mode:     modeDefault,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.tokenize(tt.input, tt.mode)
			if len(got) != len(tt.expected) {
				t.Fatalf("tokenize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("tokenize(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestTokenizeMemoizes(t *testing.T) {
	r := newRun()
	text := "la créatine monohydrate améliore la performance"

	first := r.tokenize(text, modeDefault)
	second := r.tokenize(text, modeDefault)
	if len(r.memo) != 1 {
		t.Errorf("expected one memo entry, got %d", len(r.memo))
	}
	if &first[0] != &second[0] {
		t.Error("expected memoized result to be returned on second call")
	}
}

func TestTokenizeMemoEviction(t *testing.T) {
	r := newRun()
	for i := 0; i < memoCapacity+10; i++ {
		r.tokenize(fmt.Sprintf("texte numéro créatine %d", i), modeDefault)
	}
	if len(r.memo) > memoCapacity {
		t.Errorf("memo grew past capacity: %d entries", len(r.memo))
	}
}

func TestRunsDoNotShareState(t *testing.T) {
	a := newRun()
	b := newRun()
	a.tokenize("la créatine monohydrate", modeDefault)
	if len(b.memo) != 0 {
		t.Error("expected fresh run to have an empty memo cache")
	}
}
