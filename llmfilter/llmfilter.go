// Package llmfilter removes scraping artifacts (navigation labels, cookie
// banners, CSS residue) from extracted keyword lists using a local LLM. The
// model only ever votes on which input terms to keep: its output is forced to
// a subset of the input, so a hallucinated term can never enter an analysis.
package llmfilter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	defaultModel      = "llama3.2"
	defaultBatchSize  = 50
	defaultDailyLimit = 200
	defaultTimeout    = 30 * time.Second
)

// Config contains LLM filter configuration
type Config struct {
	// BaseURL of the model server, e.g. http://localhost:11434. Empty
	// disables the filter.
	BaseURL    string
	Model      string
	BatchSize  int
	DailyLimit int
	Timeout    time.Duration
}

// Client filters keyword lists through a generate endpoint
type Client struct {
	baseURL    string
	model      string
	batchSize  int
	dailyLimit int
	httpClient *http.Client

	mu    sync.Mutex
	day   string
	spent int
}

// New creates an LLM filter client. Returns nil when no base URL is
// configured; a nil Client passes every keyword list through untouched.
func New(config Config) *Client {
	if config.BaseURL == "" {
		return nil
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}
	if config.DailyLimit <= 0 {
		config.DailyLimit = defaultDailyLimit
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		model:      config.Model,
		batchSize:  config.BatchSize,
		dailyLimit: config.DailyLimit,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// FilterKeywords asks the model which terms are real topical keywords and
// returns the approved subset in input order. A nil Client, an exhausted
// daily budget or any transport error leaves filtering to the caller, which
// treats an error as "keep everything".
func (c *Client) FilterKeywords(terms []string) ([]string, error) {
	if c == nil {
		return terms, nil
	}
	if len(terms) == 0 {
		return terms, nil
	}
	if !c.spend() {
		return nil, fmt.Errorf("llm filter daily budget of %d requests exhausted", c.dailyLimit)
	}

	approved := make(map[string]bool)
	for start := 0; start < len(terms); start += c.batchSize {
		end := start + c.batchSize
		if end > len(terms) {
			end = len(terms)
		}
		kept, err := c.filterBatch(terms[start:end])
		if err != nil {
			return nil, err
		}
		for _, t := range kept {
			approved[strings.ToLower(t)] = true
		}
	}

	// Subset enforcement: only input terms the model approved survive,
	// in their original order.
	var out []string
	for _, t := range terms {
		if approved[strings.ToLower(t)] {
			out = append(out, t)
		}
	}
	slog.Debug("llm filter applied", "in", len(terms), "out", len(out))
	return out, nil
}

func (c *Client) filterBatch(terms []string) ([]string, error) {
	prompt := fmt.Sprintf(
		"Tu es un expert SEO. Parmi ces termes extraits de pages web, "+
			"liste uniquement ceux qui sont de vrais mots-clés thématiques, "+
			"en excluant les artefacts techniques (CSS, navigation, cookies). "+
			"Réponds avec un tableau JSON de chaînes, rien d'autre.\n\nTermes : %s",
		strings.Join(terms, ", "))

	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal filter request: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.httpClient.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build filter request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm filter request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("llm filter returned status %d", resp.StatusCode)
	}

	var gen generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return nil, fmt.Errorf("failed to decode filter response: %w", err)
	}

	var kept []string
	if err := json.Unmarshal([]byte(extractJSONArray(gen.Response)), &kept); err != nil {
		return nil, fmt.Errorf("llm filter returned unparseable list: %w", err)
	}
	return kept, nil
}

// extractJSONArray pulls the first JSON array out of a model response that
// may be wrapped in prose.
func extractJSONArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return "[]"
	}
	return s[start : end+1]
}

// spend consumes one request from the daily budget, resetting at midnight UTC
func (c *Client) spend() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	today := time.Now().UTC().Format("2006-01-02")
	if c.day != today {
		c.day = today
		c.spent = 0
	}
	if c.spent >= c.dailyLimit {
		return false
	}
	c.spent++
	return true
}
