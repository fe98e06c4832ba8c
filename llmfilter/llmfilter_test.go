package llmfilter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func mockServer(t *testing.T, response string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Stream {
			t.Error("expected stream=false")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(generateResponse{Response: response, Done: true})
	}))
}

func TestFilterKeywords(t *testing.T) {
	server := mockServer(t, `["créatine", "musculation"]`)
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	got, err := client.FilterKeywords([]string{"créatine", "padding", "musculation"})
	if err != nil {
		t.Fatalf("FilterKeywords: %v", err)
	}
	if len(got) != 2 || got[0] != "créatine" || got[1] != "musculation" {
		t.Errorf("got %v, want [créatine musculation]", got)
	}
}

func TestFilterKeywordsSubsetEnforced(t *testing.T) {
	// The model approves a term that was never in the input.
	server := mockServer(t, `["créatine", "hallucination"]`)
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	got, err := client.FilterKeywords([]string{"créatine", "padding"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "créatine" {
		t.Errorf("invented term survived: %v", got)
	}
}

func TestFilterKeywordsProseWrappedResponse(t *testing.T) {
	server := mockServer(t, `Voici les mots-clés retenus : ["créatine"] comme demandé.`)
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	got, err := client.FilterKeywords([]string{"créatine", "padding"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "créatine" {
		t.Errorf("got %v", got)
	}
}

func TestFilterKeywordsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	if _, err := client.FilterKeywords([]string{"créatine"}); err == nil {
		t.Fatal("expected an error from a failing server")
	}
}

func TestFilterKeywordsDailyBudget(t *testing.T) {
	server := mockServer(t, `["créatine"]`)
	defer server.Close()

	client := New(Config{BaseURL: server.URL, DailyLimit: 2})
	for i := 0; i < 2; i++ {
		if _, err := client.FilterKeywords([]string{"créatine"}); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}
	if _, err := client.FilterKeywords([]string{"créatine"}); err == nil {
		t.Fatal("expected the daily budget to be exhausted")
	}
}

func TestNilClientPassesThrough(t *testing.T) {
	var client *Client
	terms := []string{"créatine", "whey"}

	got, err := client.FilterKeywords(terms)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("nil client altered the list: %v", got)
	}
}

func TestNewWithoutBaseURL(t *testing.T) {
	if client := New(Config{}); client != nil {
		t.Error("expected nil client without a base URL")
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`["a","b"]`, `["a","b"]`},
		{`prose ["a"] more prose`, `["a"]`},
		{`no array at all`, `[]`},
		{``, `[]`},
	}

	for _, tt := range tests {
		if got := extractJSONArray(tt.input); got != tt.expected {
			t.Errorf("extractJSONArray(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
