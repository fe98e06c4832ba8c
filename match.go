package analyzer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// stripAccents folds accented characters to their base letters so "créatine"
// and "creatine" count as the same term.
func stripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// matchNormalize prepares text for occurrence counting: accents stripped,
// lowercased, punctuation flattened to spaces. Apostrophes and hyphens are
// kept because they appear inside compound terms.
func matchNormalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(stripAccents(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '\'' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.TrimSpace(reSpaces.ReplaceAllString(b.String(), " "))
}

// countOccurrences counts how many times keyword appears in text using the
// hybrid strategy: exact token matching for single words, and for multi-word
// terms a sliding-window exact count capped by a separator-tolerant regex
// count. The cap keeps reordered or partially-matched phrases from inflating
// the result.
func countOccurrences(text, keyword string) int {
	normText := matchNormalize(text)
	normKw := matchNormalize(keyword)
	if normText == "" || normKw == "" {
		return 0
	}

	kwTokens := strings.Fields(normKw)
	textTokens := strings.Fields(normText)

	if len(kwTokens) == 1 {
		count := 0
		for _, tok := range textTokens {
			if tok == kwTokens[0] {
				count++
			}
		}
		return count
	}

	exact := 0
	for i := 0; i+len(kwTokens) <= len(textTokens); i++ {
		match := true
		for j, kt := range kwTokens {
			if textTokens[i+j] != kt {
				match = false
				break
			}
		}
		if match {
			exact++
		}
	}

	tolerant := tolerantCount(normText, kwTokens)
	if tolerant < exact {
		return tolerant
	}
	return exact
}

// tolerantCount matches the keyword tokens with a flexible separator class so
// "mots-clés" and "mots clés" both count. A regex build failure counts as
// zero matches rather than a panic, which in turn zeroes the hybrid result.
func tolerantCount(normText string, kwTokens []string) int {
	quoted := make([]string, len(kwTokens))
	for i, t := range kwTokens {
		quoted[i] = regexp.QuoteMeta(t)
	}
	// Word boundaries are safe here: accent stripping already folded the
	// text to ASCII letters.
	pattern := `\b` + strings.Join(quoted, `[\s'\-]+`) + `\b`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0
	}
	return len(re.FindAllString(normText, -1))
}
