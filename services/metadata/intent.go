package metadata

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/cases"

	"reelyseries/utils/filter"
)

// normalizeQuery strips diacritics, folds case and collapses whitespace.
func normalizeQuery(q string) string {
	q = unidecode.Unidecode(q)
	// Casers are stateful, so each call gets its own.
	q = cases.Fold().String(q)
	return strings.Join(strings.Fields(q), " ")
}

// queryVariants returns the raw trimmed query and its diacritic-free form,
// without duplicates.
func queryVariants(q string) []string {
	raw := strings.Join(strings.Fields(q), " ")
	if raw == "" {
		return nil
	}
	variants := []string{raw}
	stripped := strings.Join(strings.Fields(unidecode.Unidecode(raw)), " ")
	if stripped != "" && stripped != raw {
		variants = append(variants, stripped)
	}
	return variants
}

// regionalIntent is an explicit request for content from one origin.
type regionalIntent struct {
	language string
	// demonyms name the origin ("romanian", "coreea").
	demonyms map[string]struct{}
	// explicit phrases ask for the origin on their own ("k-drama").
	explicit []filter.CompiledTerm
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// mediaNouns and intentFillers may surround a demonym without turning the
// query into a title search.
var (
	mediaNouns = wordSet(
		"film", "filme", "filmul", "filmele", "movie", "movies", "films", "cinema",
		"serial", "seriale", "series", "show", "shows", "tv", "drama", "dramas",
		"pelicula", "peliculas", "telenovela", "telenovele", "dizi",
	)
	intentFillers = wordSet(
		"best", "top", "new", "latest", "popular", "good",
		"noi", "noua", "cele", "mai", "bune", "bun", "populare",
		"from", "din", "in", "de", "si", "and",
	)
)

// Demonyms are matched as whole tokens of the normalized query.
var regionalIntents = []regionalIntent{
	{
		language: "ro",
		demonyms: wordSet("romania", "romanian", "romanesc", "romanesti", "romaneasca"),
	},
	{
		language: "tr",
		demonyms: wordSet("turkish", "turkey", "turcia", "turcesc", "turcesti", "turceasca"),
	},
	{
		language: "ko",
		demonyms: wordSet("korean", "korea", "coreea", "coreean", "coreene", "coreeana"),
		explicit: filter.CompileTerms([]string{"kdrama", "k-drama", `/\bk-?dramas\b/`}),
	},
	{
		language: "es",
		demonyms: wordSet("spanish", "spain", "spania", "spaniol", "spaniole", "spaniolesti", "espanol", "espanola", "espana"),
	},
}

// matches reports whether the query as a whole asks for this origin: an
// explicit phrase, or a demonym with nothing around it but media nouns and
// fillers. "filme romanesti" and "best korean drama" match; "the spanish
// prisoner" does not.
func (ri regionalIntent) matches(normalized string, tokens []string) bool {
	if filter.MatchesAnyTerm(normalized, ri.explicit) {
		return true
	}
	sawDemonym := false
	for _, tok := range tokens {
		if _, ok := ri.demonyms[tok]; ok {
			sawDemonym = true
			continue
		}
		if _, ok := mediaNouns[tok]; ok {
			continue
		}
		if _, ok := intentFillers[tok]; ok {
			continue
		}
		return false
	}
	return sawDemonym
}

// detectRegionalIntent returns the original-language code the query asks
// for, if any.
func detectRegionalIntent(normalized string) (string, bool) {
	if normalized == "" {
		return "", false
	}
	tokens := strings.Fields(normalized)
	for i, tok := range tokens {
		tokens[i] = strings.Trim(tok, ".,;:!?\"'")
	}
	for _, intent := range regionalIntents {
		if intent.matches(normalized, tokens) {
			return intent.language, true
		}
	}
	return "", false
}
