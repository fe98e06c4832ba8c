package models

import "time"

// SerpResults represents the output of the search-results provider for one query
type SerpResults struct {
	OrganicResults  []OrganicResult `json:"organic_results"`
	PeopleAlsoAsk   []string        `json:"people_also_ask"`
	RelatedSearches []string        `json:"related_searches"`
	InlineVideos    []InlineVideo   `json:"inline_videos"`
}

// OrganicResult is one ranked search result, optionally enriched with the
// extracted page content
type OrganicResult struct {
	Position int         `json:"position"`
	Title    string      `json:"title"`
	URL      string      `json:"url"`
	Domain   string      `json:"domain"`
	Snippet  string      `json:"snippet"`
	Page     PageContent `json:"page"`
}

// InlineVideo is a video block returned alongside organic results
type InlineVideo struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Source string `json:"source"`
	Length string `json:"length,omitempty"`
}

// PageContent is the cleaned output of the HTML content extractor for one URL.
// A failed extraction is represented by the zero value (WordCount 0), never by
// an error surfaced to the scoring engine.
type PageContent struct {
	Content        string `json:"content"`
	WordCount      int    `json:"word_count"`
	H1             string `json:"h1"`
	H2             string `json:"h2"`
	H3             string `json:"h3"`
	Author         string `json:"author,omitempty"`
	Date           string `json:"date,omitempty"`
	Description    string `json:"description,omitempty"`
	InternalLinks  int    `json:"internal_links"`
	ExternalLinks  int    `json:"external_links"`
	Images         int    `json:"images"`
	Tables         int    `json:"tables"`
	Lists          int    `json:"lists"`
	Titles         int    `json:"titles"`
	Videos         int    `json:"videos"`
	ContentQuality string `json:"content_quality,omitempty"`
}

// Keyword is one entry of the required or complementary keyword list.
// Frequency holds the raw corpus frequency until target calculation replaces
// it with the recommended occurrence count.
type Keyword struct {
	Term         string `json:"term"`
	Frequency    int    `json:"frequency"`
	Importance   int    `json:"importance"`
	MinFrequency int    `json:"min_frequency"`
	MaxFrequency int    `json:"max_frequency"`
}

// Expression is a deduplicated multi-word phrase (2-5 tokens)
type Expression struct {
	Phrase     string `json:"phrase"`
	Frequency  int    `json:"frequency"`
	Importance int    `json:"importance"`
}

// KeywordThresholds holds the per-keyword market distribution and the derived
// warning thresholds. The Market* fields are the median-based values used by
// the over-optimization scorer; the tiered thresholds are kept for reporting.
type KeywordThresholds struct {
	DensityModerate   float64 `json:"density_moderate"`
	DensityHigh       float64 `json:"density_high"`
	DensityCritical   float64 `json:"density_critical"`
	FrequencyModerate float64 `json:"frequency_moderate"`
	FrequencyHigh     float64 `json:"frequency_high"`
	FrequencyCritical float64 `json:"frequency_critical"`

	MarketMinDensity    float64 `json:"market_min_density"`
	MarketMaxDensity    float64 `json:"market_max_density"`
	MarketMedianDensity float64 `json:"market_median_density"`
	MarketMeanDensity   float64 `json:"market_mean_density"`
	MarketMinFreq       float64 `json:"market_min_frequency"`
	MarketMaxFreq       float64 `json:"market_max_frequency"`
	MarketMedianFreq    float64 `json:"market_median_frequency"`
	MarketMeanFreq      float64 `json:"market_mean_frequency"`
}

// TotalDensityThresholds describes the distribution of summed top-keyword
// densities across all competitor pages
type TotalDensityThresholds struct {
	Moderate   float64 `json:"moderate"`
	High       float64 `json:"high"`
	Critical   float64 `json:"critical"`
	MarketMean float64 `json:"market_mean"`
	MarketMax  float64 `json:"market_max"`
}

// MarketNorms aggregates the per-keyword and total-density distributions
// observed across the competitor set
type MarketNorms struct {
	Keywords            map[string]KeywordThresholds `json:"keyword_thresholds"`
	TotalDensity        TotalDensityThresholds       `json:"total_density_thresholds"`
	CompetitorsAnalyzed int                          `json:"competitors_analyzed"`
}

// KeywordFlag reports one keyword whose usage on a page breached a threshold
type KeywordFlag struct {
	Keyword       string        `json:"keyword"`
	Frequency     int           `json:"frequency"`
	Density       float64       `json:"density"`
	Issues        []string      `json:"issues"`
	MarketContext MarketContext `json:"market_context"`
}

// MarketContext summarizes the market distribution a flag was judged against
type MarketContext struct {
	MeanDensity float64 `json:"mean_density"`
	MaxDensity  float64 `json:"max_density"`
	MeanFreq    float64 `json:"mean_frequency"`
	MaxFreq     float64 `json:"max_frequency"`
}

// OveroptDetails is the detailed over-optimization report for one page
type OveroptDetails struct {
	TotalDensity      float64                `json:"total_density"`
	StuffingCount     int                    `json:"stuffing_count"`
	ClusteringPenalty int                    `json:"clustering_penalty"`
	FlaggedKeywords   []KeywordFlag          `json:"flagged_keywords"`
	ContentLength     int                    `json:"content_length"`
	MarketContext     TotalDensityThresholds `json:"market_context"`
}

// Competitor is one scored competitor page
type Competitor struct {
	Position         int            `json:"position"`
	URL              string         `json:"url"`
	Domain           string         `json:"domain"`
	Title            string         `json:"title"`
	H1               string         `json:"h1"`
	H2               string         `json:"h2"`
	H3               string         `json:"h3"`
	WordCount        int            `json:"words"`
	Score            int            `json:"score"`
	Overoptimization int            `json:"overoptimization"`
	OveroptDetails   OveroptDetails `json:"overopt_details"`
	Recommendations  []string       `json:"recommendations"`
	InternalLinks    int            `json:"internal_links"`
	ExternalLinks    int            `json:"external_links"`
	Tables           int            `json:"tables"`
	Titles           int            `json:"titles"`
	Videos           int            `json:"videos"`
	Lists            int            `json:"lists"`
	Images           int            `json:"images"`
}

// ContentTypes is the percentage distribution of page types in the results
type ContentTypes struct {
	Editorial int `json:"editorial"`
	Catalog   int `json:"catalog"`
	Product   int `json:"product"`
}

// WordStats holds min/max/mean word counts across competitor pages
type WordStats struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Mean int `json:"mean"`
}

// AnalysisResult is the complete output of one competitive analysis run
type AnalysisResult struct {
	ID                    string       `json:"id"`
	Query                 string       `json:"query"`
	TargetScore           int          `json:"target_score"`
	RequiredWords         int          `json:"required_words"`
	RequiredKeywords      []Keyword    `json:"required_keywords"`
	ComplementaryKeywords []Keyword    `json:"complementary_keywords"`
	Ngrams                []Expression `json:"ngrams"`
	Bigrams               []Expression `json:"bigrams"`
	Trigrams              []Expression `json:"trigrams"`
	MaxOveroptimization   int          `json:"max_overoptimization"`
	Questions             []string     `json:"questions"`
	PeopleAlsoAsk         []string     `json:"people_also_ask"`
	RelatedSearches       []string     `json:"related_searches"`
	ContentTypes          ContentTypes `json:"content_types"`
	WordStats             WordStats    `json:"word_stats"`
	Competitors           []Competitor `json:"competitors"`
	Demo                  bool         `json:"demo,omitempty"`
	CreatedAt             time.Time    `json:"created_at"`
}

// AnalysisSummary is the list-view projection of a stored analysis
type AnalysisSummary struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Slug        string    `json:"slug"`
	TargetScore int       `json:"target_score"`
	Competitors int       `json:"competitors"`
	CreatedAt   time.Time `json:"created_at"`
}
