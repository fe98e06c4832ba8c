package analyzer

import (
	"hash/fnv"
	"regexp"
	"strings"
	"unicode"
)

// Scraped pages frequently leak CSS rules, inline style attributes and other
// markup residue into their visible text. These patterns remove the fragments
// that would otherwise surface as high-frequency "keywords".
var (
	reUnitValue  = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?(?:px|em|rem|vh|vw|pt|%)\b`)
	reHexColor   = regexp.MustCompile(`(?i)#[0-9a-f]{3,8}\b`)
	reRGBColor   = regexp.MustCompile(`(?i)\brgba?\([^)]*\)`)
	reCSSKeyword = regexp.MustCompile(`(?i)\b(?:margin|padding|border|width|height|display|position|float|clear|overflow|font-size|font-weight|line-height|text-align|background|color|z-index|flex|grid|webkit|moz)\b[-\w]*`)
	reAttrFrag   = regexp.MustCompile(`\w+=['"][^'"]*['"]`)
	reSpaces     = regexp.MustCompile(`\s+`)
)

// stripNoise removes technical and markup residue from extracted page text
// before any tokenization happens.
func stripNoise(text string) string {
	text = reAttrFrag.ReplaceAllString(text, " ")
	text = reRGBColor.ReplaceAllString(text, " ")
	text = reHexColor.ReplaceAllString(text, " ")
	text = reUnitValue.ReplaceAllString(text, " ")
	text = reCSSKeyword.ReplaceAllString(text, " ")
	return text
}

// cleanText lowercases and maps punctuation to spaces. Apostrophes and
// hyphens split too, so French elisions ("l'école") become separate tokens.
func cleanText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.TrimSpace(reSpaces.ReplaceAllString(b.String(), " "))
}

// tokenMode selects the minimum token length kept by tokenize.
type tokenMode int

const (
	// modeDefault keeps tokens of three or more characters.
	modeDefault tokenMode = iota
	// modeInclusive keeps two-character tokens as well, used where short
	// brand or product names matter.
	modeInclusive
)

// run holds the per-analysis scratch state. Each call to Analyze creates its
// own run, so concurrent analyses never share the memo cache.
type run struct {
	memo     map[uint64][]string
	memoKeys []uint64
}

const memoCapacity = 1000

func newRun() *run {
	return &run{memo: make(map[uint64][]string)}
}

// tokenize noise-strips, cleans and splits text, dropping stopwords and short
// tokens. Results are memoized per run because competitor texts are
// re-tokenized by several pipeline stages.
func (r *run) tokenize(text string, mode tokenMode) []string {
	h := fnv.New64a()
	h.Write([]byte(text))
	key := h.Sum64()<<1 | uint64(mode&1)
	if cached, ok := r.memo[key]; ok {
		return cached
	}

	minLen := 3
	if mode == modeInclusive {
		minLen = 2
	}
	cleaned := cleanText(stripNoise(text))
	var tokens []string
	for _, tok := range strings.Fields(cleaned) {
		if len([]rune(tok)) < minLen && !acronymExceptions.has(tok) {
			continue
		}
		if stopwords.has(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}

	if len(r.memo) >= memoCapacity {
		// Evict the oldest half rather than churn one entry at a time.
		drop := r.memoKeys[:memoCapacity/2]
		for _, k := range drop {
			delete(r.memo, k)
		}
		r.memoKeys = append([]uint64(nil), r.memoKeys[memoCapacity/2:]...)
	}
	r.memo[key] = tokens
	r.memoKeys = append(r.memoKeys, key)
	return tokens
}

// rawTokens splits cleaned text without stopword or length filtering. The
// n-gram extractors need the full sequence to judge phrase boundaries.
func (r *run) rawTokens(text string) []string {
	return strings.Fields(cleanText(stripNoise(text)))
}
