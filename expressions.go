package analyzer

import (
	"sort"
	"strings"

	"github.com/rankforge/analyzer/models"
)

const (
	maxNgrams   = 25
	maxBigrams  = 25
	maxTrigrams = 20
)

// phraseCount tallies every window of size n over the raw token stream.
func phraseCount(tokens []string, n int) map[string]int {
	counts := make(map[string]int)
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], " ")]++
	}
	return counts
}

// queryMatches counts distinct query tokens present in the phrase tokens.
func queryMatches(phraseTokens, queryTokens []string) int {
	in := make(map[string]bool, len(phraseTokens))
	for _, t := range phraseTokens {
		in[t] = true
	}
	n := 0
	for _, qt := range queryTokens {
		if in[qt] {
			n++
		}
	}
	return n
}

func containsAny(tokens []string, set wordSet) bool {
	for _, t := range tokens {
		if set.has(t) {
			return true
		}
	}
	return false
}

// validNgram rejects long phrases that are grammatical fragments: stopwords
// at either edge, more than 30% stopwords overall, or too much repetition.
func validNgram(tokens []string, minChars int) bool {
	phrase := strings.Join(tokens, " ")
	if len(phrase) <= minChars {
		return false
	}
	if ngramStopwords.has(tokens[0]) || ngramStopwords.has(tokens[len(tokens)-1]) {
		return false
	}
	stops := 0
	unique := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if ngramStopwords.has(t) {
			stops++
		}
		unique[t] = true
	}
	if float64(stops) > 0.3*float64(len(tokens)) {
		return false
	}
	return float64(len(unique)) >= 0.7*float64(len(tokens))
}

// extractNgrams finds the 4 and 5 token expressions that recur across the
// corpus, scores them and returns the top 25 after semantic deduplication.
func (r *run) extractNgrams(query string, texts []string) []models.Expression {
	queryTokens := r.tokenize(query, modeInclusive)

	counts := make(map[string]int)
	for _, text := range texts {
		tokens := r.rawTokens(text)
		for n, minChars := range map[int]int{4: 15, 5: 20} {
			for phrase, c := range phraseCount(tokens, n) {
				if validNgram(strings.Fields(phrase), minChars) {
					counts[phrase] += c
				}
			}
		}
	}

	var exprs []models.Expression
	for phrase, freq := range counts {
		if freq <= 1 {
			continue
		}
		tokens := strings.Fields(phrase)
		score := freq * 4
		score += 25 * queryMatches(tokens, queryTokens)
		if containsAny(tokens, semanticMarkers) {
			score += 15
		}
		if len(phrase) > 30 {
			score += 10
		}
		exprs = append(exprs, models.Expression{Phrase: phrase, Frequency: freq, Importance: score})
	}
	sortExpressions(exprs)
	if len(exprs) > maxNgrams {
		exprs = exprs[:maxNgrams]
	}
	return dedupNgrams(exprs)
}

// validBigramToken accepts content words and the short technical acronyms.
func validBigramToken(t string) bool {
	if acronymExceptions.has(t) {
		return true
	}
	return len([]rune(t)) > 2 && !validationStopwords.has(t)
}

// extractBigrams finds recurring two-word groups, rejecting known
// grammatical patterns and stopword components.
func (r *run) extractBigrams(query string, texts []string) []models.Expression {
	queryTokens := r.tokenize(query, modeInclusive)

	counts := make(map[string]int)
	for _, text := range texts {
		for phrase, c := range phraseCount(r.rawTokens(text), 2) {
			counts[phrase] += c
		}
	}

	var exprs []models.Expression
	for phrase, freq := range counts {
		if freq <= 1 || len(phrase) <= 6 || invalidBigrams.has(phrase) {
			continue
		}
		tokens := strings.Fields(phrase)
		if !validBigramToken(tokens[0]) || !validBigramToken(tokens[1]) {
			continue
		}
		score := freq * 2
		score += 15 * queryMatches(tokens, queryTokens)
		if containsAny(tokens, domainMarkers) {
			score += 10
		}
		exprs = append(exprs, models.Expression{Phrase: phrase, Frequency: freq, Importance: score})
	}
	sortExpressions(exprs)
	if len(exprs) > maxBigrams {
		exprs = exprs[:maxBigrams]
	}
	return exprs
}

// validTrigram accepts three-word groups whose edges are content words, with
// at most one stopword and only in the middle position.
func validTrigram(tokens []string, phrase string) bool {
	if len(phrase) <= 10 {
		return false
	}
	if validationStopwords.has(tokens[0]) || validationStopwords.has(tokens[2]) {
		return false
	}
	if invalidTrigramStarts.has(tokens[0]+" "+tokens[1]) || invalidTrigramEnds.has(tokens[1]+" "+tokens[2]) {
		return false
	}
	return true
}

// extractTrigrams finds recurring three-word groups.
func (r *run) extractTrigrams(query string, texts []string) []models.Expression {
	queryTokens := r.tokenize(query, modeInclusive)

	counts := make(map[string]int)
	for _, text := range texts {
		for phrase, c := range phraseCount(r.rawTokens(text), 3) {
			counts[phrase] += c
		}
	}

	var exprs []models.Expression
	for phrase, freq := range counts {
		if freq <= 1 {
			continue
		}
		tokens := strings.Fields(phrase)
		if !validTrigram(tokens, phrase) {
			continue
		}
		score := freq * 3
		score += 20 * queryMatches(tokens, queryTokens)
		if containsAny(tokens, domainMarkers) {
			score += 15
		}
		if len(phrase) > 20 {
			score += 5
		}
		exprs = append(exprs, models.Expression{Phrase: phrase, Frequency: freq, Importance: score})
	}
	sortExpressions(exprs)
	if len(exprs) > maxTrigrams {
		exprs = exprs[:maxTrigrams]
	}
	return exprs
}

// sortExpressions orders by importance, breaking ties on frequency then
// phrase so output is deterministic.
func sortExpressions(exprs []models.Expression) {
	sort.Slice(exprs, func(i, j int) bool {
		if exprs[i].Importance != exprs[j].Importance {
			return exprs[i].Importance > exprs[j].Importance
		}
		if exprs[i].Frequency != exprs[j].Frequency {
			return exprs[i].Frequency > exprs[j].Frequency
		}
		return exprs[i].Phrase < exprs[j].Phrase
	})
}
