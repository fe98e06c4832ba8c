// Package serp fetches search engine result pages from a ValueSERP-compatible
// HTTP API.
package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rankforge/analyzer/models"
)

const (
	defaultBaseURL = "https://api.valueserp.com/search"
	defaultNum     = 20
	defaultTimeout = 30 * time.Second
)

// Config contains search provider configuration
type Config struct {
	// APIKey authenticates against the provider. Empty means no provider:
	// Search returns empty results and the caller falls back to demo data.
	APIKey  string
	BaseURL string
	// Num is how many organic results to request per query
	Num     int
	Timeout time.Duration
}

// Client queries the search results provider
type Client struct {
	config     Config
	httpClient *http.Client
}

// New creates a search client with an instrumented transport
func New(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Num <= 0 {
		config.Num = defaultNum
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Enabled reports whether a provider API key is configured
func (c *Client) Enabled() bool {
	return c.config.APIKey != ""
}

// apiResponse mirrors the provider's JSON layout
type apiResponse struct {
	OrganicResults []struct {
		Position int    `json:"position"`
		Title    string `json:"title"`
		Link     string `json:"link"`
		Domain   string `json:"domain"`
		Snippet  string `json:"snippet"`
	} `json:"organic_results"`
	RelatedQuestions []struct {
		Question string `json:"question"`
	} `json:"related_questions"`
	RelatedSearches []struct {
		Query string `json:"query"`
	} `json:"related_searches"`
	InlineVideos []struct {
		Title  string `json:"title"`
		Link   string `json:"link"`
		Source string `json:"source"`
		Length string `json:"length"`
	} `json:"inline_videos"`
}

// Search fetches one result page for query. Location and language are passed
// through to the provider; empty values use the provider defaults.
func (c *Client) Search(ctx context.Context, query, location, language string) (*models.SerpResults, error) {
	if !c.Enabled() {
		return &models.SerpResults{}, nil
	}

	params := url.Values{}
	params.Set("api_key", c.config.APIKey)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(c.config.Num))
	if location != "" {
		params.Set("location", location)
	}
	if language != "" {
		params.Set("hl", language)
		params.Set("gl", strings.ToLower(language))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search provider returned status %d", resp.StatusCode)
	}

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := &models.SerpResults{}
	for _, r := range api.OrganicResults {
		domain := r.Domain
		if domain == "" {
			domain = domainOf(r.Link)
		}
		results.OrganicResults = append(results.OrganicResults, models.OrganicResult{
			Position: r.Position,
			Title:    r.Title,
			URL:      r.Link,
			Domain:   domain,
			Snippet:  r.Snippet,
		})
	}
	for _, q := range api.RelatedQuestions {
		if q.Question != "" {
			results.PeopleAlsoAsk = append(results.PeopleAlsoAsk, q.Question)
		}
	}
	for _, s := range api.RelatedSearches {
		if s.Query != "" {
			results.RelatedSearches = append(results.RelatedSearches, s.Query)
		}
	}
	for _, v := range api.InlineVideos {
		results.InlineVideos = append(results.InlineVideos, models.InlineVideo{
			Title:  v.Title,
			Link:   v.Link,
			Source: v.Source,
			Length: v.Length,
		})
	}
	return results, nil
}

// domainOf extracts the hostname from a result link
func domainOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
