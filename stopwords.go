package analyzer

// French stopword list used by the tokenizer. Derived from the usual
// closed-class words plus the adverbs and auxiliary forms that dominate SERP
// snippets.
var stopwords = newWordSet(
	"le", "la", "les", "un", "une", "des", "du", "de", "et", "ou", "est", "sont",
	"dans", "sur", "avec", "par", "pour", "sans", "sous", "vers", "chez",
	"plus", "très", "bien", "tout", "tous", "toute", "toutes", "que", "qui",
	"quoi", "dont", "où", "comment", "pourquoi", "quand",
	"au", "aux", "en", "y", "ne", "pas", "non", "oui", "si",
	"ce", "ces", "cet", "cette", "se", "sa", "son", "ses",
	"il", "elle", "ils", "elles", "je", "tu", "nous", "vous", "on",
	"me", "te", "lui", "leur", "leurs", "mon", "ton", "ma", "ta",
	"mes", "tes", "nos", "vos", "notre", "votre",
	"mais", "donc", "or", "ni", "car", "comme", "ainsi", "alors",
	"être", "avoir", "faire", "été", "était", "étaient", "sera", "seront",
	"ont", "avait", "avons", "avez", "peut", "peuvent", "doit", "doivent",
	"fait", "faut", "va", "vont", "aussi", "encore", "déjà", "toujours",
	"jamais", "souvent", "peu", "beaucoup", "trop", "assez", "moins",
	"entre", "depuis", "pendant", "avant", "après", "lors", "afin",
	"cela", "ceci", "celui", "celle", "ceux", "celles", "autre", "autres",
	"même", "mêmes", "tel", "telle", "tels", "telles", "quel", "quelle",
	"quels", "quelles", "chaque", "plusieurs", "certains", "certaines",
)

// Stopwords used by the phrase validators. Narrower than the tokenizer list:
// it covers the function words that make a phrase edge dangle.
var validationStopwords = newWordSet(
	"de", "du", "des", "le", "la", "les", "un", "une", "ce", "ces", "se", "sa",
	"son", "ses", "sur", "sous", "dans", "avec", "sans", "pour", "par", "vers",
	"chez", "entre", "depuis", "et", "ou", "ni", "mais", "car", "donc", "or",
	"comme", "que", "qui", "dont", "où", "il", "elle", "nous", "vous", "ils",
	"elles", "je", "tu", "me", "te", "lui", "leur", "mon", "ton", "ma", "ta",
	"mes", "tes", "nos", "vos", "leurs", "votre", "notre", "est", "sont",
	"était", "étaient", "sera", "seront", "avoir", "être", "faire", "dire",
	"aller", "voir", "savoir", "pouvoir", "vouloir", "venir", "falloir",
	"devoir", "prendre", "plus", "moins", "très", "bien", "mal", "mieux",
	"beaucoup", "peu", "assez", "trop", "tout", "tous", "toute", "toutes",
	"autre", "autres", "même", "mêmes", "tel", "telle", "à", "au", "aux",
	"en", "y", "ne", "pas", "non", "oui", "si", "peut", "peuvent",
)

// Compact stopword set used by the long n-gram validator: the articles and
// prepositions counted toward the stopword ratio and rejected at phrase edges.
var ngramStopwords = newWordSet(
	"de", "du", "des", "le", "la", "les", "un", "une", "et", "ou", "à", "au", "aux", "en",
)

// Short technical acronyms allowed through the minimum-length filters.
var acronymExceptions = newWordSet(
	"seo", "web", "app", "cms", "api", "roi", "kpi", "b2b", "b2c",
)

// Two-word sequences that are grammatical fragments rather than keyword
// groups. Checked verbatim against candidate bigrams.
var invalidBigrams = newWordSet(
	"à la", "à le", "à les", "de la", "de le", "de les", "du côté",
	"en tant", "au niveau", "par rapport", "grâce à", "face à",
	"selon les", "selon le", "selon la", "parmi les", "parmi le",
)

// Leading and trailing two-word sequences that disqualify a trigram.
var invalidTrigramStarts = newWordSet(
	"il est", "elle est", "nous sommes", "vous êtes", "ils sont", "c est",
)

var invalidTrigramEnds = newWordSet(
	"de plus", "en plus", "en effet", "par exemple", "en fait",
)

// Words that mark a semantically rich expression (questions, guides,
// comparisons). Their presence bumps a phrase's importance.
var semanticMarkers = newWordSet(
	"comment", "pourquoi", "quand", "guide", "conseil", "astuce", "méthode",
	"technique", "stratégie", "comparaison", "différence", "avantage",
	"inconvénient", "bienfait", "effet", "résultat",
)

// Topic words that mark an expression as belonging to the search-marketing
// domain; used for the bigram/trigram importance bonus.
var domainMarkers = newWordSet(
	"seo", "référencement", "google", "naturel", "optimisation", "ranking",
)

// semanticRoots maps inflectional variants to a shared root, so the n-gram
// deduplicator can recognize singular/plural and verb/noun forms of the same
// concept. The table is curated, not a stemmer.
var semanticRoots = map[string]string{
	"école":         "école",
	"écoles":        "école",
	"ecole":         "école",
	"ecoles":        "école",
	"commerce":      "commerce",
	"commerces":     "commerce",
	"formation":     "formation",
	"formations":    "formation",
	"former":        "formation",
	"étude":         "étude",
	"études":        "étude",
	"étudier":       "étude",
	"métier":        "métier",
	"métiers":       "métier",
	"entreprise":    "entreprise",
	"entreprises":   "entreprise",
	"muscle":        "muscle",
	"muscles":       "muscle",
	"musculaire":    "muscle",
	"musculaires":   "muscle",
	"musculation":   "muscle",
	"protéine":      "protéine",
	"protéines":     "protéine",
	"complément":    "complément",
	"compléments":   "complément",
	"performance":   "performance",
	"performances":  "performance",
	"optimisation":  "optimisation",
	"optimiser":     "optimisation",
	"optimisé":      "optimisation",
	"récupération":  "récupération",
	"récupérer":     "récupération",
	"entraînement":  "entraînement",
	"entraînements": "entraînement",
	"entraîner":     "entraînement",
	"produit":       "produit",
	"produits":      "produit",
	"conseil":       "conseil",
	"conseils":      "conseil",
}

type wordSet map[string]struct{}

func newWordSet(words ...string) wordSet {
	s := make(wordSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s wordSet) has(w string) bool {
	_, ok := s[w]
	return ok
}
