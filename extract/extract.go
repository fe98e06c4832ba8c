// Package extract fetches competitor pages and turns their HTML into the
// cleaned content and structure counts the scoring engine consumes.
package extract

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/html"

	"github.com/rankforge/analyzer/models"
)

const (
	defaultTimeout       = 15 * time.Second
	defaultMaxConcurrent = 20
	defaultUserAgent     = "Mozilla/5.0 (compatible; RankForge/1.0)"
)

// Config contains extractor configuration
type Config struct {
	Timeout time.Duration
	// MaxConcurrent bounds parallel page fetches
	MaxConcurrent int
	UserAgent     string
}

// DefaultConfig returns the extractor defaults
func DefaultConfig() Config {
	return Config{
		Timeout:       defaultTimeout,
		MaxConcurrent: defaultMaxConcurrent,
		UserAgent:     defaultUserAgent,
	}
}

// Extractor fetches and parses competitor pages
type Extractor struct {
	config     Config
	httpClient *http.Client
}

// New creates an extractor with an instrumented transport
func New(config Config) *Extractor {
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = defaultMaxConcurrent
	}
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}
	return &Extractor{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// EnrichResults fetches every organic result's page in parallel and fills in
// the extracted content. A page that cannot be fetched or parsed keeps the
// empty PageContent: downstream scoring treats it as a dead page rather than
// an error.
func (e *Extractor) EnrichResults(ctx context.Context, results []models.OrganicResult) {
	sem := make(chan struct{}, e.config.MaxConcurrent)
	done := make(chan int, len(results))

	for i := range results {
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem }()
			defer func() { done <- i }()

			page, err := e.Extract(ctx, results[i].URL)
			if err != nil {
				log.Printf("extraction failed for %s: %v", results[i].URL, err)
				return
			}
			results[i].Page = page
		}(i)
	}
	for range results {
		<-done
	}
}

// Extract fetches one URL and returns its parsed content
func (e *Extractor) Extract(ctx context.Context, targetURL string) (models.PageContent, error) {
	var empty models.PageContent

	parsedURL, err := url.Parse(targetURL)
	if err != nil {
		return empty, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return empty, fmt.Errorf("URL must be http or https")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", targetURL, nil)
	if err != nil {
		return empty, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", e.config.UserAgent)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return empty, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return empty, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return empty, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return parsePage(doc, parsedURL), nil
}

// skippedElements never contribute visible content
var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true,
	"nav": true, "footer": true, "header": true, "aside": true,
}

// parsePage walks the document once, collecting the visible text and the
// structural counts the analysis reports on
func parsePage(doc *html.Node, baseURL *url.URL) models.PageContent {
	var page models.PageContent
	var buf strings.Builder
	var h2s, h3s []string

	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		if n.Type == html.ElementNode {
			if skippedElements[n.Data] {
				return
			}
			switch n.Data {
			case "h1":
				page.Titles++
				if page.H1 == "" {
					page.H1 = textOf(n)
				}
			case "h2":
				page.Titles++
				h2s = append(h2s, textOf(n))
			case "h3":
				page.Titles++
				h3s = append(h3s, textOf(n))
			case "h4", "h5", "h6":
				page.Titles++
			case "a":
				countLink(n, baseURL, &page)
			case "img":
				page.Images++
			case "table":
				page.Tables++
			case "ul", "ol":
				page.Lists++
			case "video":
				page.Videos++
			case "iframe":
				if isVideoEmbed(attrValue(n, "src")) {
					page.Videos++
				}
			case "meta":
				collectMeta(n, &page)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(doc)

	page.H2 = strings.Join(h2s, " | ")
	page.H3 = strings.Join(h3s, " | ")
	page.Content = strings.TrimSpace(buf.String())
	page.WordCount = len(strings.Fields(page.Content))
	return page
}

// textOf extracts the trimmed text content of a node subtree
func textOf(n *html.Node) string {
	var parts []string
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.Join(parts, " ")
}

// countLink classifies an anchor as internal or external to the page host
func countLink(n *html.Node, baseURL *url.URL, page *models.PageContent) {
	href := attrValue(n, "href")
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return
	}
	u, err := url.Parse(href)
	if err != nil {
		return
	}
	resolved := baseURL.ResolveReference(u)
	if resolved.Hostname() == baseURL.Hostname() {
		page.InternalLinks++
	} else {
		page.ExternalLinks++
	}
}

// collectMeta picks up description, author and publication date
func collectMeta(n *html.Node, page *models.PageContent) {
	var name, property, content string
	for _, attr := range n.Attr {
		switch attr.Key {
		case "name":
			name = strings.ToLower(attr.Val)
		case "property":
			property = strings.ToLower(attr.Val)
		case "content":
			content = attr.Val
		}
	}
	switch {
	case name == "description" || property == "og:description":
		if page.Description == "" {
			page.Description = content
		}
	case name == "author":
		if page.Author == "" {
			page.Author = content
		}
	case property == "article:published_time" || name == "date":
		if page.Date == "" {
			page.Date = content
		}
	}
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// videoHosts are the embed domains counted as videos
var videoHosts = []string{"youtube.com", "youtube-nocookie.com", "vimeo.com", "dailymotion.com"}

func isVideoEmbed(src string) bool {
	for _, host := range videoHosts {
		if strings.Contains(src, host) {
			return true
		}
	}
	return false
}
