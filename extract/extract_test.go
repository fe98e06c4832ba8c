package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rankforge/analyzer/models"
)

const testPage = `
<!DOCTYPE html>
<html>
<head>
	<title>Guide créatine</title>
	<meta name="description" content="Tout savoir sur la créatine">
	<meta name="author" content="Jean Dupont">
	<meta property="article:published_time" content="2025-03-12">
	<style>body { margin: 10px; }</style>
	<script>var tracking = true;</script>
</head>
<body>
	<nav><a href="/accueil">Accueil</a> <a href="/contact">Contact</a></nav>
	<h1>La créatine monohydrate</h1>
	<h2>Les effets</h2>
	<p>La créatine améliore la performance en musculation.</p>
	<h2>Le dosage</h2>
	<h3>Phase de charge</h3>
	<p>Le dosage recommandé dépend du poids.</p>
	<a href="/autre-article">Voir aussi</a>
	<a href="https://externe.fr/etude">Étude externe</a>
	<a href="#section">Ancre</a>
	<img src="/creatine.jpg" alt="créatine">
	<img src="/dosage.jpg" alt="dosage">
	<table><tr><td>5g</td></tr></table>
	<ul><li>avantage 1</li></ul>
	<ol><li>étape 1</li></ol>
	<iframe src="https://www.youtube.com/embed/abc123"></iframe>
	<iframe src="https://www.autre.fr/widget"></iframe>
	<footer>Mentions légales</footer>
</body>
</html>
`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(testPage))
	}))
}

func TestExtract(t *testing.T) {
	server := testServer(t)
	defer server.Close()

	e := New(DefaultConfig())
	page, err := e.Extract(context.Background(), server.URL+"/guide")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if page.H1 != "La créatine monohydrate" {
		t.Errorf("H1 = %q", page.H1)
	}
	if page.H2 != "Les effets | Le dosage" {
		t.Errorf("H2 = %q", page.H2)
	}
	if page.H3 != "Phase de charge" {
		t.Errorf("H3 = %q", page.H3)
	}
	if page.Description != "Tout savoir sur la créatine" {
		t.Errorf("Description = %q", page.Description)
	}
	if page.Author != "Jean Dupont" {
		t.Errorf("Author = %q", page.Author)
	}
	if page.Date != "2025-03-12" {
		t.Errorf("Date = %q", page.Date)
	}

	if strings.Contains(page.Content, "tracking") || strings.Contains(page.Content, "margin") {
		t.Errorf("script/style content leaked: %q", page.Content)
	}
	if strings.Contains(page.Content, "Accueil") || strings.Contains(page.Content, "Mentions légales") {
		t.Errorf("nav/footer content leaked: %q", page.Content)
	}
	if !strings.Contains(page.Content, "améliore la performance") {
		t.Errorf("body text missing: %q", page.Content)
	}
	if page.WordCount == 0 {
		t.Error("expected a word count")
	}

	// Anchors inside the skipped nav do not count.
	if page.InternalLinks != 1 {
		t.Errorf("InternalLinks = %d, want 1", page.InternalLinks)
	}
	if page.ExternalLinks != 1 {
		t.Errorf("ExternalLinks = %d, want 1", page.ExternalLinks)
	}
	if page.Images != 2 {
		t.Errorf("Images = %d, want 2", page.Images)
	}
	if page.Tables != 1 {
		t.Errorf("Tables = %d, want 1", page.Tables)
	}
	if page.Lists != 2 {
		t.Errorf("Lists = %d, want 2", page.Lists)
	}
	if page.Titles != 4 {
		t.Errorf("Titles = %d, want 4", page.Titles)
	}
	if page.Videos != 1 {
		t.Errorf("Videos = %d, want 1", page.Videos)
	}
}

func TestExtractHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	e := New(DefaultConfig())
	if _, err := e.Extract(context.Background(), server.URL); err == nil {
		t.Fatal("expected an error for a 404 page")
	}
}

func TestExtractInvalidScheme(t *testing.T) {
	e := New(DefaultConfig())
	if _, err := e.Extract(context.Background(), "ftp://exemple.fr/fichier"); err == nil {
		t.Fatal("expected an error for a non-http URL")
	}
}

func TestEnrichResults(t *testing.T) {
	server := testServer(t)
	defer server.Close()

	results := []models.OrganicResult{
		{Position: 1, URL: server.URL + "/a"},
		{Position: 2, URL: server.URL + "/b"},
		{Position: 3, URL: "http://127.0.0.1:1/dead"},
	}

	e := New(DefaultConfig())
	e.EnrichResults(context.Background(), results)

	for _, res := range results[:2] {
		if res.Page.WordCount == 0 {
			t.Errorf("position %d: expected extracted content", res.Position)
		}
	}
	// The unreachable page keeps the empty sentinel.
	if results[2].Page.WordCount != 0 {
		t.Error("expected empty page content for the unreachable URL")
	}
}
