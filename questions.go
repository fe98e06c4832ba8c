package analyzer

import (
	"fmt"
	"strings"

	"github.com/rankforge/analyzer/models"
)

const maxQuestions = 60

var questionTemplates = []string{
	"Comment choisir %s ?",
	"Pourquoi utiliser %s ?",
	"Quand prendre %s ?",
	"Quel est le meilleur %s ?",
	"Combien coûte %s ?",
	"Quels sont les avantages de %s ?",
	"Quels sont les effets de %s ?",
	"Comment fonctionne %s ?",
	"Où acheter %s ?",
	"%s est-il efficace ?",
}

// buildQuestions assembles the question suggestions: the questions real users
// asked come first, then templated variations on the query and the strongest
// keywords fill up to the cap.
func buildQuestions(query string, paa []string, required []models.Keyword) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(q string) {
		q = strings.TrimSpace(q)
		if q == "" || seen[strings.ToLower(q)] || len(out) >= maxQuestions {
			return
		}
		seen[strings.ToLower(q)] = true
		out = append(out, q)
	}

	for _, q := range paa {
		add(q)
	}
	for _, tpl := range questionTemplates {
		add(fmt.Sprintf(tpl, query))
	}
	for _, kw := range required {
		if len(out) >= maxQuestions {
			break
		}
		if kw.Term == "" || strings.EqualFold(kw.Term, query) {
			continue
		}
		for _, tpl := range questionTemplates[:3] {
			add(fmt.Sprintf(tpl, kw.Term))
		}
	}
	return out
}

var (
	productMarkers = []string{"/produit/", "/product/", "acheter", "prix", "commander"}
	catalogMarkers = []string{"/categorie/", "/collection/", "boutique", "shop"}
)

// classifyContentTypes buckets result URLs into editorial, catalog and
// product pages and returns the percentage split.
func classifyContentTypes(results []models.OrganicResult) models.ContentTypes {
	if len(results) == 0 {
		return models.ContentTypes{}
	}
	var product, catalog, editorial int
	for _, res := range results {
		url := strings.ToLower(res.URL)
		switch {
		case containsMarker(url, productMarkers):
			product++
		case containsMarker(url, catalogMarkers):
			catalog++
		default:
			editorial++
		}
	}
	n := len(results)
	return models.ContentTypes{
		Editorial: 100 * editorial / n,
		Catalog:   100 * catalog / n,
		Product:   100 * product / n,
	}
}

func containsMarker(url string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(url, m) {
			return true
		}
	}
	return false
}

// wordCountStats summarizes competitor page lengths. Pages that failed
// extraction (zero words) are ignored; with no usable pages the defaults
// describe a typical editorial page.
func wordCountStats(competitors []models.Competitor) models.WordStats {
	var counts []int
	for _, c := range competitors {
		if c.WordCount > 0 {
			counts = append(counts, c.WordCount)
		}
	}
	if len(counts) == 0 {
		return models.WordStats{Min: 800, Max: 1500, Mean: 1200}
	}
	min, max, sum := counts[0], counts[0], 0
	for _, c := range counts {
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
		sum += c
	}
	return models.WordStats{Min: min, Max: max, Mean: sum / len(counts)}
}
