package analyzer

import (
	"time"

	"github.com/google/uuid"
	"github.com/rankforge/analyzer/models"
)

// demoResult returns a fixed demonstration analysis. It is served when the
// search provider yields no organic results, so the rest of the product
// still has realistic data to render.
func demoResult(query string) *models.AnalysisResult {
	competitors := []models.Competitor{
		{Position: 1, URL: "https://www.exemple-nutrition.fr/guide-creatine", Domain: "exemple-nutrition.fr",
			Title: "Créatine : guide complet", H1: "Tout savoir sur la créatine", WordCount: 2450,
			Score: 72, InternalLinks: 18, ExternalLinks: 4, Titles: 12, Lists: 6, Images: 8},
		{Position: 2, URL: "https://www.sport-sante.fr/creatine-monohydrate", Domain: "sport-sante.fr",
			Title: "Créatine monohydrate : effets et dosage", H1: "Créatine monohydrate", WordCount: 1890,
			Score: 64, InternalLinks: 12, ExternalLinks: 6, Titles: 9, Lists: 4, Images: 5},
		{Position: 3, URL: "https://www.musculation-pro.fr/complements/creatine", Domain: "musculation-pro.fr",
			Title: "Quelle créatine choisir ?", H1: "Bien choisir sa créatine", WordCount: 1560,
			Score: 58, InternalLinks: 9, ExternalLinks: 3, Titles: 8, Lists: 5, Images: 6},
		{Position: 4, URL: "https://www.fitshop.fr/produit/creatine-500g", Domain: "fitshop.fr",
			Title: "Créatine 500g au meilleur prix", H1: "Créatine 500g", WordCount: 640,
			Score: 45, InternalLinks: 22, ExternalLinks: 1, Titles: 4, Lists: 2, Images: 10},
		{Position: 5, URL: "https://www.blog-fitness.fr/creatine-ou-whey", Domain: "blog-fitness.fr",
			Title: "Créatine ou whey : que choisir ?", H1: "Créatine ou whey", WordCount: 1120,
			Score: 38, InternalLinks: 7, ExternalLinks: 5, Titles: 6, Lists: 3, Images: 4},
	}

	paa := []string{
		"Quand faut-il prendre de la créatine ?",
		"La créatine est-elle dangereuse pour les reins ?",
		"Quelle est la différence entre créatine et whey ?",
		"Faut-il faire une phase de charge de créatine ?",
	}

	return &models.AnalysisResult{
		ID:            uuid.NewString(),
		Query:         query,
		TargetScore:   60,
		RequiredWords: 1100,
		RequiredKeywords: []models.Keyword{
			{Term: "créatine", Frequency: 24, Importance: 95, MinFrequency: 21, MaxFrequency: 30},
			{Term: "monohydrate", Frequency: 12, Importance: 78, MinFrequency: 10, MaxFrequency: 15},
			{Term: "musculation", Frequency: 9, Importance: 62, MinFrequency: 8, MaxFrequency: 12},
			{Term: "muscle", Frequency: 8, Importance: 55, MinFrequency: 7, MaxFrequency: 11},
			{Term: "prise", Frequency: 7, Importance: 48, MinFrequency: 6, MaxFrequency: 10},
			{Term: "dosage", Frequency: 6, Importance: 44, MinFrequency: 5, MaxFrequency: 9},
			{Term: "complément", Frequency: 6, Importance: 41, MinFrequency: 5, MaxFrequency: 9},
			{Term: "performance", Frequency: 5, Importance: 37, MinFrequency: 4, MaxFrequency: 8},
			{Term: "entraînement", Frequency: 5, Importance: 34, MinFrequency: 4, MaxFrequency: 8},
			{Term: "récupération", Frequency: 4, Importance: 30, MinFrequency: 3, MaxFrequency: 7},
		},
		ComplementaryKeywords: []models.Keyword{
			{Term: "whey", Frequency: 6, Importance: 22, MinFrequency: 5, MaxFrequency: 9},
			{Term: "protéine", Frequency: 5, Importance: 20, MinFrequency: 4, MaxFrequency: 8},
			{Term: "force", Frequency: 4, Importance: 16, MinFrequency: 3, MaxFrequency: 7},
			{Term: "énergie", Frequency: 4, Importance: 15, MinFrequency: 3, MaxFrequency: 7},
			{Term: "sportif", Frequency: 3, Importance: 12, MinFrequency: 2, MaxFrequency: 6},
		},
		Ngrams: []models.Expression{
			{Phrase: "créatine monohydrate pour la musculation", Frequency: 5, Importance: 70},
			{Phrase: "prise de masse musculaire rapide", Frequency: 4, Importance: 41},
			{Phrase: "meilleure créatine du marché", Frequency: 3, Importance: 37},
		},
		Bigrams: []models.Expression{
			{Phrase: "créatine monohydrate", Frequency: 12, Importance: 54},
			{Phrase: "masse musculaire", Frequency: 8, Importance: 16},
			{Phrase: "phase charge", Frequency: 5, Importance: 10},
		},
		Trigrams: []models.Expression{
			{Phrase: "créatine monohydrate pure", Frequency: 4, Importance: 37},
			{Phrase: "prise masse musculaire", Frequency: 3, Importance: 14},
		},
		MaxOveroptimization: 5,
		Questions:           buildQuestions(query, paa, nil),
		PeopleAlsoAsk:       paa,
		RelatedSearches:     []string{"créatine avant ou après l'entraînement", "créatine danger", "meilleure créatine 2025"},
		ContentTypes:        models.ContentTypes{Editorial: 80, Catalog: 0, Product: 20},
		WordStats:           models.WordStats{Min: 640, Max: 2450, Mean: 1532},
		Competitors:         competitors,
		Demo:                true,
		CreatedAt:           time.Now().UTC(),
	}
}
