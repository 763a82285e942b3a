package metadata

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"reelyseries/config"
	"reelyseries/models"
	"reelyseries/services/curation"
)

type postFilter int

const (
	filterNone postFilter = iota
	filterVoteFloor
)

// categoryRecipe is the upstream query a category resolves to.
type categoryRecipe struct {
	path   string
	params map[string]string
	// platform is set for platform categories; the provider id is resolved at
	// query time and added to params when found.
	platform models.Category
	post     postFilter
	// classify applies the content classifier to the result.
	classify bool
}

// Movie and tv genre taxonomies differ upstream. Tags without a close tv
// genre collapse onto the nearest one.
var movieGenres = map[models.Category]int64{
	models.CategoryAction:      28,
	models.CategoryAdventure:   12,
	models.CategoryComedy:      35,
	models.CategoryDrama:       18,
	models.CategoryHorror:      27,
	models.CategoryThriller:    53,
	models.CategorySciFi:       878,
	models.CategoryFantasy:     14,
	models.CategoryRomance:     10749,
	models.CategoryCrime:       80,
	models.CategoryDocumentary: 99,
	models.CategoryFamily:      10751,
	models.CategoryMystery:     9648,
	models.CategoryWar:         10752,
	models.CategoryHistory:     36,
}

var tvGenres = map[models.Category]int64{
	models.CategoryAction:      10759,
	models.CategoryAdventure:   10759,
	models.CategoryComedy:      35,
	models.CategoryDrama:       18,
	models.CategoryHorror:      9648,
	models.CategoryThriller:    9648,
	models.CategorySciFi:       10765,
	models.CategoryFantasy:     10765,
	models.CategoryRomance:     18,
	models.CategoryCrime:       80,
	models.CategoryDocumentary: 99,
	models.CategoryFamily:      10751,
	models.CategoryMystery:     9648,
	models.CategoryWar:         10768,
	models.CategoryHistory:     10768,
}

// genreID returns the upstream genre id for a genre tag in a namespace.
func genreID(kind models.MediaType, category models.Category) (int64, bool) {
	table := movieGenres
	if kind == models.MediaTypeTV {
		table = tvGenres
	}
	id, ok := table[category]
	return id, ok
}

type temporalPaths struct {
	movie string
	tv    string
}

func (p temporalPaths) pick(kind models.MediaType) string {
	if kind == models.MediaTypeTV {
		return p.tv
	}
	return p.movie
}

var (
	inCinemasPaths  = temporalPaths{movie: "/movie/now_playing", tv: "/tv/airing_today"}
	comingSoonPaths = temporalPaths{movie: "/movie/upcoming", tv: "/tv/on_the_air"}
	newestSortKeys  = temporalPaths{movie: "primary_release_date.desc", tv: "first_air_date.desc"}
)

// resolveRecipe maps (kind, category) to an upstream query. It is pure: the
// same inputs always yield the same recipe.
func resolveRecipe(kind models.MediaType, category models.Category, page int, locale models.LocaleContext, cfg config.BrowseSettings) (categoryRecipe, error) {
	if !kind.Valid() {
		return categoryRecipe{}, fmt.Errorf("unsupported media type %q", kind)
	}
	base := map[string]string{
		"language": locale.Language,
		"page":     strconv.Itoa(models.ClampPage(page)),
	}
	discover := "/discover/" + string(kind)

	switch category.Group() {
	case models.GroupTemporal:
		r := categoryRecipe{params: base, classify: true}
		switch category {
		case models.CategoryTrending:
			r.path = "/trending/" + string(kind) + "/week"
			r.classify = cfg.FilterTrending
		case models.CategoryNewest:
			r.path = discover
			r.params["sort_by"] = newestSortKeys.pick(kind)
			r.params["vote_count.gte"] = strconv.Itoa(cfg.NewestMinVotes)
			r.params["include_adult"] = "false"
		case models.CategoryMostViewed:
			r.path = "/" + string(kind) + "/popular"
		case models.CategoryBestRated:
			r.path = "/" + string(kind) + "/top_rated"
			r.post = filterVoteFloor
		case models.CategoryInCinemas:
			r.path = inCinemasPaths.pick(kind)
			r.params["region"] = locale.Region
		case models.CategoryComingSoon:
			r.path = comingSoonPaths.pick(kind)
			r.params["region"] = locale.Region
		}
		return r, nil

	case models.GroupPlatform:
		base["sort_by"] = "popularity.desc"
		base["watch_region"] = locale.Region
		base["with_watch_monetization_types"] = "flatrate"
		base["include_adult"] = "false"
		return categoryRecipe{path: discover, params: base, platform: category, classify: true}, nil

	case models.GroupGenre:
		id, ok := genreID(kind, category)
		if !ok {
			return categoryRecipe{}, fmt.Errorf("no genre mapping for %q", category)
		}
		base["sort_by"] = "popularity.desc"
		base["with_genres"] = strconv.FormatInt(id, 10)
		base["include_adult"] = "false"
		return categoryRecipe{path: discover, params: base, classify: true}, nil
	}
	return categoryRecipe{}, fmt.Errorf("unknown category %q", category)
}

// applyVoteFloor keeps records with at least minVotes votes, but only when at
// least minItems survive. Otherwise the page is returned untouched.
func applyVoteFloor(records []taggedRecord, minVotes, minItems int) []taggedRecord {
	filtered := make([]taggedRecord, 0, len(records))
	for _, rec := range records {
		if rec.voteCount() >= minVotes {
			filtered = append(filtered, rec)
		}
	}
	if len(filtered) >= minItems {
		return filtered
	}
	return records
}

func classifyRecords(records []taggedRecord) []taggedRecord {
	return curation.FilterEligible(records, taggedRecord.classifierRecord)
}

// Browse returns one page of a curated category.
func (s *Service) Browse(ctx context.Context, kind models.MediaType, category models.Category, page int, locale models.LocaleContext) (models.BrowseResult, error) {
	cfg := s.cfg.Get().Browse
	recipe, err := resolveRecipe(kind, category, page, locale, cfg)
	if err != nil {
		return models.BrowseResult{}, err
	}

	if recipe.platform != "" {
		if id, ok := s.ResolveProvider(ctx, kind, recipe.platform); ok {
			recipe.params["with_watch_providers"] = strconv.FormatInt(id, 10)
		} else {
			log.Printf("[metadata] browse %s/%s without provider filter", kind, category)
		}
	}

	res, err := s.tmdb.listPage(ctx, kind, recipe.path, recipe.params)
	if err != nil {
		return models.BrowseResult{}, fmt.Errorf("browse %s/%s: %w", kind, category, err)
	}

	records := res.records
	if recipe.post == filterVoteFloor {
		records = applyVoteFloor(records, cfg.BestRatedMinVotes, cfg.BestRatedMinItems)
	}
	if recipe.classify {
		records = classifyRecords(records)
	}

	return models.BrowseResult{
		Items:      mediaItems(records, s.tmdb.images),
		TotalPages: models.ClampTotalPages(res.totalPages),
	}, nil
}

// Top returns the first n trending items for the home rankings.
func (s *Service) Top(ctx context.Context, kind models.MediaType, locale models.LocaleContext, n int) ([]models.MediaItem, error) {
	res, err := s.Browse(ctx, kind, models.CategoryTrending, 1, locale)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(res.Items) > n {
		return res.Items[:n], nil
	}
	return res.Items, nil
}
