// Package analyzer implements the competitive content scoring engine: it
// turns a search query and its fetched competitor pages into keyword lists
// with recommended frequency ranges, recurring expressions, market-derived
// over-optimization thresholds and a per-competitor content score.
package analyzer

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/rankforge/analyzer/models"
)

// DefaultMaxResults caps how many competitor pages feed the analysis.
const DefaultMaxResults = 20

// Config controls an Engine.
type Config struct {
	// Filter optionally sanitizes the extracted keyword lists. Nil means
	// no filtering.
	Filter KeywordFilter

	// MaxResults caps the competitor pages analyzed. Zero means
	// DefaultMaxResults.
	MaxResults int
}

// Engine runs competitive content analyses. It is stateless and safe for
// concurrent use.
type Engine struct {
	cfg    Config
	tracer trace.Tracer
}

func New(cfg Config) *Engine {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	return &Engine{cfg: cfg, tracer: otel.Tracer("analyzer")}
}

// Analyze runs the full pipeline over the search results for query. When the
// provider returned no organic results it falls back to the demonstration
// dataset rather than failing.
func (e *Engine) Analyze(ctx context.Context, query string, serp *models.SerpResults) (*models.AnalysisResult, error) {
	ctx, span := e.tracer.Start(ctx, "analyzer.Analyze")
	defer span.End()

	if serp == nil || len(serp.OrganicResults) == 0 {
		return demoResult(query), nil
	}

	results := serp.OrganicResults
	if len(results) > e.cfg.MaxResults {
		results = results[:e.cfg.MaxResults]
	}

	texts := make([]string, 0, len(results))
	for _, res := range results {
		if res.Page.WordCount > 0 {
			texts = append(texts, pageText(res))
		}
	}
	if len(texts) == 0 {
		return demoResult(query), nil
	}

	r := newRun()

	_, kwSpan := e.tracer.Start(ctx, "analyzer.keywords")
	var corpus []string
	for _, t := range texts {
		corpus = append(corpus, r.tokenize(t, modeDefault)...)
	}
	freq := frequencies(corpus)
	importance := importanceScores(freq)
	required := applyFilter(e.cfg.Filter, r.extractRequiredKeywords(query, freq, importance))
	complementary := extractComplementaryKeywords(freq, required)
	kwSpan.End()

	_, exprSpan := e.tracer.Start(ctx, "analyzer.expressions")
	ngrams := r.extractNgrams(query, texts)
	bigrams := r.extractBigrams(query, texts)
	trigrams := r.extractTrigrams(query, texts)
	exprSpan.End()

	_, marketSpan := e.tracer.Start(ctx, "analyzer.market")
	norms := r.analyzeMarketNorms(required, texts)
	marketSpan.End()

	_, targetSpan := e.tracer.Start(ctx, "analyzer.targets")
	applyFrequencyTargets(required, texts)
	applyFrequencyTargets(complementary, texts)
	targetSpan.End()

	_, compSpan := e.tracer.Start(ctx, "analyzer.competitors")
	competitors, err := e.scoreCompetitors(ctx, results, required, complementary, norms)
	compSpan.End()
	if err != nil {
		return nil, err
	}

	return &models.AnalysisResult{
		ID:                    uuid.NewString(),
		Query:                 query,
		TargetScore:           computeTargetScore(competitors),
		RequiredWords:         computeRequiredWords(competitors),
		RequiredKeywords:      required,
		ComplementaryKeywords: complementary,
		Ngrams:                ngrams,
		Bigrams:               bigrams,
		Trigrams:              trigrams,
		MaxOveroptimization:   computeMaxOveroptimization(required),
		Questions:             buildQuestions(query, serp.PeopleAlsoAsk, required),
		PeopleAlsoAsk:         serp.PeopleAlsoAsk,
		RelatedSearches:       serp.RelatedSearches,
		ContentTypes:          classifyContentTypes(results),
		WordStats:             wordCountStats(competitors),
		Competitors:           competitors,
		CreatedAt:             time.Now().UTC(),
	}, nil
}

// scoreCompetitors scores each result page in parallel, bounded by the CPU
// count. Every worker owns its own run so the memo caches never race; the
// shared keyword and norm inputs are read-only.
func (e *Engine) scoreCompetitors(ctx context.Context, results []models.OrganicResult, required, complementary []models.Keyword, norms models.MarketNorms) ([]models.Competitor, error) {
	competitors := make([]models.Competitor, len(results))
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup

	for i, res := range results {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(i int, res models.OrganicResult) {
			defer wg.Done()
			defer func() { <-sem }()
			competitors[i] = e.scoreCompetitor(res, required, complementary, norms)
		}(i, res)
	}
	wg.Wait()
	return competitors, nil
}

func (e *Engine) scoreCompetitor(res models.OrganicResult, required, complementary []models.Keyword, norms models.MarketNorms) models.Competitor {
	comp := models.Competitor{
		Position:      res.Position,
		URL:           res.URL,
		Domain:        res.Domain,
		Title:         res.Title,
		H1:            res.Page.H1,
		H2:            res.Page.H2,
		H3:            res.Page.H3,
		WordCount:     res.Page.WordCount,
		InternalLinks: res.Page.InternalLinks,
		ExternalLinks: res.Page.ExternalLinks,
		Tables:        res.Page.Tables,
		Titles:        res.Page.Titles,
		Videos:        res.Page.Videos,
		Lists:         res.Page.Lists,
		Images:        res.Page.Images,
	}
	if res.Page.WordCount == 0 {
		return comp
	}
	text := pageText(res)
	comp.Score = scoreContent(text, required, complementary)

	r := newRun()
	overopt, details, recs := r.scoreOveroptimization(text, required, norms)
	comp.Overoptimization = overopt
	comp.OveroptDetails = details
	comp.Recommendations = recs
	return comp
}

// pageText assembles the text one competitor page contributes to the
// analysis. Result title, snippet and headings carry the strongest keyword
// signal, so they count alongside the extracted body.
func pageText(res models.OrganicResult) string {
	parts := []string{res.Title, res.Snippet, res.Page.H1, res.Page.H2, res.Page.H3, res.Page.Content}
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// Corpus is the whitespace-joined competitor texts, exported for callers
// that archive the analyzed content.
func Corpus(serp *models.SerpResults) string {
	if serp == nil {
		return ""
	}
	var parts []string
	for _, res := range serp.OrganicResults {
		if res.Page.WordCount > 0 {
			parts = append(parts, pageText(res))
		}
	}
	return strings.Join(parts, "\n\n")
}
