package serp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "test-key" {
			t.Errorf("missing api_key, got query %s", r.URL.RawQuery)
		}
		if r.URL.Query().Get("q") != "créatine monohydrate" {
			t.Errorf("unexpected q: %s", r.URL.Query().Get("q"))
		}
		if r.URL.Query().Get("num") != "20" {
			t.Errorf("unexpected num: %s", r.URL.Query().Get("num"))
		}
		if r.URL.Query().Get("hl") != "fr" {
			t.Errorf("unexpected hl: %s", r.URL.Query().Get("hl"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"organic_results": [
				{"position": 1, "title": "Guide créatine", "link": "https://www.a.fr/guide", "snippet": "tout savoir"},
				{"position": 2, "title": "Dosage", "link": "https://b.fr/dosage", "domain": "b.fr", "snippet": "conseils"}
			],
			"related_questions": [{"question": "Quand prendre la créatine ?"}],
			"related_searches": [{"query": "créatine danger"}],
			"inline_videos": [{"title": "Créatine explained", "link": "https://videos.fr/1", "source": "videos.fr", "length": "10:02"}]
		}`))
	}))
	defer server.Close()

	client := New(Config{APIKey: "test-key", BaseURL: server.URL})
	results, err := client.Search(context.Background(), "créatine monohydrate", "France", "fr")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(results.OrganicResults) != 2 {
		t.Fatalf("expected 2 organic results, got %d", len(results.OrganicResults))
	}
	first := results.OrganicResults[0]
	if first.Domain != "a.fr" {
		t.Errorf("expected domain derived from link, got %q", first.Domain)
	}
	if results.OrganicResults[1].Domain != "b.fr" {
		t.Errorf("expected provider domain kept, got %q", results.OrganicResults[1].Domain)
	}
	if len(results.PeopleAlsoAsk) != 1 || results.PeopleAlsoAsk[0] != "Quand prendre la créatine ?" {
		t.Errorf("unexpected people_also_ask: %v", results.PeopleAlsoAsk)
	}
	if len(results.RelatedSearches) != 1 {
		t.Errorf("unexpected related searches: %v", results.RelatedSearches)
	}
	if len(results.InlineVideos) != 1 || results.InlineVideos[0].Length != "10:02" {
		t.Errorf("unexpected inline videos: %v", results.InlineVideos)
	}
}

func TestSearchWithoutAPIKey(t *testing.T) {
	client := New(Config{})
	if client.Enabled() {
		t.Error("expected client to be disabled without an API key")
	}

	results, err := client.Search(context.Background(), "créatine", "", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results.OrganicResults) != 0 {
		t.Errorf("expected empty results, got %d", len(results.OrganicResults))
	}
}

func TestSearchProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New(Config{APIKey: "test-key", BaseURL: server.URL})
	if _, err := client.Search(context.Background(), "créatine", "", ""); err == nil {
		t.Fatal("expected an error on provider failure")
	}
}

func TestDomainOf(t *testing.T) {
	tests := []struct {
		link     string
		expected string
	}{
		{"https://www.exemple.fr/page", "exemple.fr"},
		{"https://blog.exemple.fr/article", "blog.exemple.fr"},
		{"://bad", ""},
	}

	for _, tt := range tests {
		if got := domainOf(tt.link); got != tt.expected {
			t.Errorf("domainOf(%q) = %q, want %q", tt.link, got, tt.expected)
		}
	}
}
