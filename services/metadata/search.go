package metadata

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/sourcegraph/conc/pool"

	"reelyseries/config"
	"reelyseries/models"
)

// sourceOutcome is what one search source contributed. A failed auxiliary
// source carries err and no items; the aggregator counts it as empty.
type sourceOutcome struct {
	name  string
	items []models.MediaItem
	err   error
}

func (o sourceOutcome) usable() []models.MediaItem {
	if o.err != nil {
		log.Printf("[search] %s source failed, contributing nothing: %v", o.name, o.err)
		return nil
	}
	return o.items
}

// primaryOutcome is the multi-type search response the page is built on.
type primaryOutcome struct {
	items      []models.MediaItem
	totalPages int
	err        error
}

// Search runs the aggregated free-text search: regional shortcut, or the
// primary multi search enriched with actor credits and keyword discovery.
func (s *Service) Search(ctx context.Context, query string, page int, locale models.LocaleContext) (models.BrowseResult, error) {
	normalized := normalizeQuery(query)
	if normalized == "" {
		return models.EmptyResult(), nil
	}
	page = models.ClampPage(page)
	cfg := s.cfg.Get().Search

	if lang, ok := detectRegionalIntent(normalized); ok {
		log.Printf("[search] regional intent %q for %q", lang, normalized)
		return s.searchRegional(ctx, lang, page, locale, cfg)
	}

	variants := queryVariants(query)
	var (
		primary  primaryOutcome
		people   sourceOutcome
		keywords sourceOutcome
	)

	p := pool.New()
	p.Go(func() {
		primary = s.searchPrimary(ctx, variants[0], page, locale, cfg)
	})
	// Derived sources only enrich the first page.
	if page == 1 {
		p.Go(func() {
			people = s.searchActorCredits(ctx, variants, cfg)
		})
		p.Go(func() {
			keywords = s.searchKeywordBoost(ctx, variants[0], locale, cfg)
		})
	}
	p.Wait()

	if primary.err != nil {
		return models.BrowseResult{}, fmt.Errorf("search %q: %w", normalized, primary.err)
	}

	merged := mergeUnique(primary.items, people.usable(), keywords.usable())
	rankItems(merged)

	return models.BrowseResult{
		Items:      truncateItems(merged, cfg.MaxResults),
		TotalPages: models.ClampTotalPages(primary.totalPages),
	}, nil
}

// searchPrimary runs /search/multi in the requested language, falling back to
// the canonical language when the first response is too thin.
func (s *Service) searchPrimary(ctx context.Context, query string, page int, locale models.LocaleContext, cfg config.SearchSettings) primaryOutcome {
	res, err := s.tmdb.searchMulti(ctx, query, page, locale.Language)
	if err != nil {
		return primaryOutcome{err: err}
	}
	items := mediaItems(res.records, s.tmdb.images)

	if len(items) < cfg.MinPrimaryResults && locale.Language != models.CanonicalLanguage {
		fallback, ferr := s.tmdb.searchMulti(ctx, query, page, models.CanonicalLanguage)
		if ferr != nil {
			log.Printf("[search] %s fallback for %q failed, keeping %s results: %v", models.CanonicalLanguage, query, locale.Language, ferr)
		} else {
			res = fallback
			items = mediaItems(fallback.records, s.tmdb.images)
		}
	}
	return primaryOutcome{items: items, totalPages: res.totalPages}
}

// searchActorCredits resolves the query as person names and collects the
// best-known credits of the top matches.
func (s *Service) searchActorCredits(ctx context.Context, variants []string, cfg config.SearchSettings) sourceOutcome {
	out := sourceOutcome{name: "actor"}
	if cfg.MaxPeople <= 0 {
		return out
	}

	perVariant := make([][]personRecord, len(variants))
	errs := make([]error, len(variants))
	vp := pool.New()
	for i, v := range variants {
		vp.Go(func() {
			perVariant[i], errs[i] = s.tmdb.searchPerson(ctx, v, models.CanonicalLanguage)
		})
	}
	vp.Wait()

	seen := make(map[int64]struct{})
	people := make([]personRecord, 0, cfg.MaxPeople)
	failures := 0
	for i := range variants {
		if errs[i] != nil {
			failures++
			continue
		}
		for _, person := range perVariant[i] {
			if len(people) == cfg.MaxPeople {
				break
			}
			if _, dup := seen[person.ID]; dup {
				continue
			}
			seen[person.ID] = struct{}{}
			people = append(people, person)
		}
	}
	if failures == len(variants) {
		out.err = errs[0]
		return out
	}

	credits := make([][]models.MediaItem, len(people))
	cp := pool.New()
	for i, person := range people {
		cp.Go(func() {
			records, err := s.tmdb.combinedCredits(ctx, person.ID, models.CanonicalLanguage)
			if err != nil {
				log.Printf("[search] credits for person %d failed: %v", person.ID, err)
				return
			}
			if cfg.MaxCreditsPerPerson > 0 && len(records) > cfg.MaxCreditsPerPerson {
				records = records[:cfg.MaxCreditsPerPerson]
			}
			credits[i] = mediaItems(records, s.tmdb.images)
		})
	}
	cp.Wait()

	for _, items := range credits {
		out.items = append(out.items, items...)
	}
	return out
}

// searchKeywordBoost looks the query up as a keyword and adds the most
// popular titles tagged with it.
func (s *Service) searchKeywordBoost(ctx context.Context, variant string, locale models.LocaleContext, cfg config.SearchSettings) sourceOutcome {
	out := sourceOutcome{name: "keyword"}
	id, err := s.tmdb.firstKeyword(ctx, variant)
	if err != nil {
		out.err = err
		return out
	}
	if id == 0 {
		return out
	}

	params := map[string]string{
		"with_keywords": strconv.FormatInt(id, 10),
		"sort_by":       "popularity.desc",
		"language":      locale.Language,
		"include_adult": "false",
	}
	kinds := []models.MediaType{models.MediaTypeMovie, models.MediaTypeTV}
	slices := make([][]models.MediaItem, len(kinds))
	errs := make([]error, len(kinds))
	p := pool.New()
	for i, kind := range kinds {
		p.Go(func() {
			res, err := s.tmdb.discover(ctx, kind, copyParams(params))
			if err != nil {
				errs[i] = err
				return
			}
			items := mediaItems(res.records, s.tmdb.images)
			slices[i] = truncateItems(items, cfg.KeywordSlice)
		})
	}
	p.Wait()

	for i := range kinds {
		if errs[i] != nil {
			log.Printf("[search] keyword %d discover %s failed: %v", id, kinds[i], errs[i])
			continue
		}
		out.items = append(out.items, slices[i]...)
	}
	if out.items == nil && errs[0] != nil && errs[1] != nil {
		out.err = errs[0]
	}
	return out
}

// searchRegional answers explicit "content from X" queries with discovery by
// original language. It has no fallback, so either failure is returned.
func (s *Service) searchRegional(ctx context.Context, lang string, page int, locale models.LocaleContext, cfg config.SearchSettings) (models.BrowseResult, error) {
	params := map[string]string{
		"with_original_language": lang,
		"sort_by":                "popularity.desc",
		"language":               locale.Language,
		"page":                   strconv.Itoa(page),
		"include_adult":          "false",
	}
	kinds := []models.MediaType{models.MediaTypeMovie, models.MediaTypeTV}
	pages := make([]recordPage, len(kinds))
	p := pool.New().WithErrors()
	for i, kind := range kinds {
		p.Go(func() error {
			res, err := s.tmdb.discover(ctx, kind, copyParams(params))
			if err != nil {
				return fmt.Errorf("regional %s discover: %w", kind, err)
			}
			pages[i] = res
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return models.BrowseResult{}, err
	}

	totalPages := 0
	sets := make([][]models.MediaItem, len(kinds))
	for i, res := range pages {
		sets[i] = mediaItems(res.records, s.tmdb.images)
		if res.totalPages > totalPages {
			totalPages = res.totalPages
		}
	}
	merged := mergeUnique(sets...)
	rankItems(merged)

	return models.BrowseResult{
		Items:      truncateItems(merged, cfg.MaxResults),
		TotalPages: models.ClampTotalPages(totalPages),
	}, nil
}

func copyParams(params map[string]string) map[string]string {
	cp := make(map[string]string, len(params))
	for k, v := range params {
		cp[k] = v
	}
	return cp
}
