package metadata

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"reelyseries/models"
	"reelyseries/utils"
)

const youtubeWatchURL = "https://www.youtube.com/watch?v="

// MediaDetails loads a title's detail page. Only the title lookup itself can
// fail the call; cast, trailer and watch buttons are best effort.
func (s *Service) MediaDetails(ctx context.Context, kind models.MediaType, id int64, locale models.LocaleContext) (models.MediaDetails, error) {
	if !kind.Valid() {
		return models.MediaDetails{}, fmt.Errorf("unsupported media type %q", kind)
	}
	if id <= 0 {
		return models.MediaDetails{}, fmt.Errorf("invalid id %d", id)
	}
	maxCast := s.cfg.Get().Details.MaxCast

	var (
		rec       titleDetailsRecord
		recErr    error
		cast      []castRecord
		videos    []videoRecord
		providers regionProviders
		hasRegion bool
	)

	p := pool.New()
	p.Go(func() {
		rec, recErr = s.tmdb.titleDetails(ctx, kind, id, locale.Language)
	})
	p.Go(func() {
		var err error
		if cast, err = s.tmdb.credits(ctx, kind, id, locale.Language); err != nil {
			log.Printf("[metadata] credits for %s/%d failed: %v", kind, id, err)
		}
	})
	p.Go(func() {
		var err error
		if videos, err = s.tmdb.videos(ctx, kind, id, locale.ISO639()); err != nil {
			log.Printf("[metadata] videos for %s/%d failed: %v", kind, id, err)
		}
	})
	p.Go(func() {
		var err error
		if providers, hasRegion, err = s.tmdb.watchProviders(ctx, kind, id, locale.Region); err != nil {
			log.Printf("[metadata] watch providers for %s/%d failed: %v", kind, id, err)
		}
	})
	p.Wait()

	if recErr != nil {
		return models.MediaDetails{}, fmt.Errorf("details %s/%d: %w", kind, id, recErr)
	}

	title := firstNonEmpty(rec.Title, rec.Name, rec.OriginalTitle, rec.OriginalName)
	item := newMediaItem(kind, rec.ID, title, rec.VoteAverage, s.tmdb.images.poster(rec.PosterPath), firstNonEmpty(rec.ReleaseDate, rec.FirstAirDate))

	details := models.MediaDetails{
		MediaItem:    item,
		Overview:     strings.TrimSpace(rec.Overview),
		Backdrop:     s.tmdb.images.backdrop(rec.BackdropPath),
		Cast:         s.castPeople(cast, maxCast),
		TrailerURL:   pickTrailer(videos),
		WatchButtons: []models.WatchButton{},
	}
	if hasRegion {
		details.WatchButtons = buildWatchButtons(providers, title)
	}
	return details, nil
}

func (s *Service) castPeople(cast []castRecord, limit int) []models.CastPerson {
	out := make([]models.CastPerson, 0, min(len(cast), max(limit, 0)))
	for _, c := range cast {
		if limit > 0 && len(out) == limit {
			break
		}
		if c.ID <= 0 {
			continue
		}
		var character *string
		if ch := strings.TrimSpace(c.Character); ch != "" {
			character = &ch
		}
		out = append(out, models.CastPerson{
			ID:        c.ID,
			Name:      strings.TrimSpace(c.Name),
			Character: character,
			Profile:   s.tmdb.images.profile(c.ProfilePath),
			Href:      models.PersonPath(c.ID),
		})
	}
	return out
}

// pickTrailer prefers an official YouTube trailer, then any YouTube trailer,
// then a YouTube teaser.
func pickTrailer(videos []videoRecord) *string {
	score := func(v videoRecord) int {
		if !strings.EqualFold(v.Site, "YouTube") || strings.TrimSpace(v.Key) == "" {
			return 0
		}
		switch {
		case strings.EqualFold(v.Type, "Trailer") && v.Official:
			return 3
		case strings.EqualFold(v.Type, "Trailer"):
			return 2
		case strings.EqualFold(v.Type, "Teaser"):
			return 1
		}
		return 0
	}
	best, bestScore := videoRecord{}, 0
	for _, v := range videos {
		if sc := score(v); sc > bestScore {
			best, bestScore = v, sc
		}
	}
	if bestScore == 0 {
		return nil
	}
	u := youtubeWatchURL + strings.TrimSpace(best.Key)
	return &u
}

// buildWatchButtons emits one deep link per known platform available in the
// region, subscription offers first, then the upstream "all options" page.
func buildWatchButtons(rp regionProviders, title string) []models.WatchButton {
	buttons := []models.WatchButton{}
	seen := map[string]struct{}{}
	groups := []struct {
		kind    models.WatchButtonKind
		entries []providerEntry
	}{
		{models.WatchFlatrate, rp.Flatrate},
		{models.WatchRent, rp.Rent},
		{models.WatchBuy, rp.Buy},
	}
	for _, g := range groups {
		for _, entry := range g.entries {
			_, plat, ok := platformForProvider(entry.Name)
			if !ok {
				continue
			}
			if _, dup := seen[plat.key]; dup {
				continue
			}
			seen[plat.key] = struct{}{}
			buttons = append(buttons, models.WatchButton{
				Key:   plat.key,
				Label: plat.label,
				URL:   utils.FillSearchURL(plat.searchURL, title),
				Kind:  g.kind,
			})
		}
	}
	if link := strings.TrimSpace(rp.Link); link != "" {
		if encoded, err := utils.EncodeURLWithSpaces(link); err == nil {
			buttons = append(buttons, models.WatchButton{
				Key:   "tmdb",
				Label: "All options",
				URL:   encoded,
				Kind:  models.WatchLink,
			})
		}
	}
	return buttons
}

// PersonDetails loads an actor page header. An empty biography in the
// requested language is filled from the canonical language when possible.
func (s *Service) PersonDetails(ctx context.Context, id int64, locale models.LocaleContext) (models.Person, error) {
	if id <= 0 {
		return models.Person{}, fmt.Errorf("invalid person id %d", id)
	}
	rec, err := s.tmdb.personDetails(ctx, id, locale.Language)
	if err != nil {
		return models.Person{}, fmt.Errorf("person %d: %w", id, err)
	}
	bio := strings.TrimSpace(rec.Biography)
	if bio == "" && locale.Language != models.CanonicalLanguage {
		if fallback, ferr := s.tmdb.personDetails(ctx, id, models.CanonicalLanguage); ferr == nil {
			bio = strings.TrimSpace(fallback.Biography)
		} else {
			log.Printf("[metadata] %s biography for person %d failed: %v", models.CanonicalLanguage, id, ferr)
		}
	}
	return models.Person{
		ID:         rec.ID,
		Name:       strings.TrimSpace(rec.Name),
		Biography:  bio,
		Profile:    s.tmdb.images.profile(rec.ProfilePath),
		Popularity: rec.Popularity,
		Href:       models.PersonPath(rec.ID),
	}, nil
}

// PersonCredits lists an actor's movie and tv cast credits, most popular
// first, each title once.
func (s *Service) PersonCredits(ctx context.Context, id int64, locale models.LocaleContext) ([]models.MediaItem, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid person id %d", id)
	}
	records, err := s.tmdb.combinedCredits(ctx, id, locale.Language)
	if err != nil {
		return nil, fmt.Errorf("person %d credits: %w", id, err)
	}
	return mergeUnique(mediaItems(records, s.tmdb.images)), nil
}
