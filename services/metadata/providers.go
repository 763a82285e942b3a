package metadata

import (
	"context"
	"log"
	"strings"

	"github.com/mozillazg/go-unidecode"

	"reelyseries/models"
)

// platform describes a streaming service we surface as a category and as a
// watch button.
type platform struct {
	key   string
	label string
	// Display-name variants, most specific first.
	variants []string
	// Search deep link; {q} is replaced with the escaped title.
	searchURL string
}

var platforms = map[models.Category]platform{
	models.CategoryNetflix: {
		key:       "netflix",
		label:     "Netflix",
		variants:  []string{"netflix"},
		searchURL: "https://www.netflix.com/search?q={q}",
	},
	models.CategoryPrimeVideo: {
		key:       "prime",
		label:     "Prime Video",
		variants:  []string{"amazon prime video", "prime video"},
		searchURL: "https://www.primevideo.com/search/ref=atv_nb_sr?phrase={q}",
	},
	models.CategoryDisneyPlus: {
		key:       "disney",
		label:     "Disney+",
		variants:  []string{"disney plus", "disney+"},
		searchURL: "https://www.disneyplus.com/search?q={q}",
	},
	models.CategoryHBOMax: {
		key:       "max",
		label:     "Max",
		variants:  []string{"hbo max", "max", "hbo"},
		searchURL: "https://play.max.com/search?q={q}",
	},
	models.CategoryAppleTV: {
		key:       "appletv",
		label:     "Apple TV+",
		variants:  []string{"apple tv+", "apple tv plus", "apple tv"},
		searchURL: "https://tv.apple.com/search?term={q}",
	},
	models.CategorySkyShowtime: {
		key:       "skyshowtime",
		label:     "SkyShowtime",
		variants:  []string{"skyshowtime", "sky showtime"},
		searchURL: "https://www.skyshowtime.com/search?q={q}",
	},
}

// platformOrder fixes the order watch buttons are emitted in.
var platformOrder = []models.Category{
	models.CategoryNetflix,
	models.CategoryPrimeVideo,
	models.CategoryDisneyPlus,
	models.CategoryHBOMax,
	models.CategoryAppleTV,
	models.CategorySkyShowtime,
}

func normalizeProviderName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(unidecode.Unidecode(name))), " ")
}

// matchProvider finds the provider for p in list. Exact name matches beat
// substring matches so "Max" does not land on "Max Amazon Channel".
func matchProvider(p platform, list []providerEntry) (providerEntry, bool) {
	for _, v := range p.variants {
		for _, entry := range list {
			if normalizeProviderName(entry.Name) == v {
				return entry, true
			}
		}
	}
	for _, v := range p.variants {
		for _, entry := range list {
			if strings.Contains(normalizeProviderName(entry.Name), v) {
				return entry, true
			}
		}
	}
	return providerEntry{}, false
}

// Plan suffixes upstream appends to a platform's own offers.
var planSuffixes = []string{" with ads", " standard", " basic", " premium"}

func stripPlanSuffix(name string) string {
	for _, suffix := range planSuffixes {
		name = strings.TrimSuffix(name, suffix)
	}
	return name
}

// platformForProvider maps an upstream provider name to a known platform for
// watch buttons. Only exact names (ignoring plan suffixes) count, so resold
// channels like "Cinemax Amazon Channel" are not mistaken for the platform.
func platformForProvider(name string) (models.Category, platform, bool) {
	normalized := stripPlanSuffix(normalizeProviderName(name))
	for _, cat := range platformOrder {
		p := platforms[cat]
		for _, v := range p.variants {
			if normalized == v {
				return cat, p, true
			}
		}
	}
	return "", platform{}, false
}

// ResolveProvider maps a platform category to an upstream provider id.
// ok is false when the category is not a platform, the directory could not
// be loaded, or no provider name matched.
func (s *Service) ResolveProvider(ctx context.Context, kind models.MediaType, category models.Category) (int64, bool) {
	p, known := platforms[category]
	if !known {
		return 0, false
	}
	list, err := s.providers.getOrPopulate(ctx, kind, s.tmdb.providerList)
	if err != nil {
		log.Printf("[providers] directory lookup for %s failed: %v", kind, err)
		return 0, false
	}
	entry, ok := matchProvider(p, list)
	if !ok {
		log.Printf("[providers] no %s provider matches %q", kind, p.label)
		return 0, false
	}
	return entry.ID, true
}
