package curation

import (
	"strings"

	"reelyseries/models"
)

// AnimationGenreID is the upstream animation genre in both movie and tv namespaces.
const AnimationGenreID int64 = 16

// Original-language codes kept off curated rankings (ISO 639-1, lower case).
var blockedLanguages = map[string]struct{}{
	"hi": {},
	"ta": {},
	"te": {},
	"ml": {},
	"kn": {},
	"ja": {},
	"ko": {},
	"zh": {},
	"th": {},
}

// Origin countries kept off curated tv rankings (ISO 3166-1, upper case).
var blockedCountries = map[string]struct{}{
	"IN": {},
	"JP": {},
	"KR": {},
	"CN": {},
	"TW": {},
	"TH": {},
}

// Record is the slice of an upstream record the classifier looks at.
// Zero values mean "unknown" and never block.
type Record struct {
	Type             models.MediaType
	OriginalLanguage string
	GenreIDs         []int64
	OriginCountries  []string
}

// IsEligibleForTopSurfaces decides whether a record may appear on curated
// browse pages. It is never applied to free-text search.
func IsEligibleForTopSurfaces(r Record) bool {
	if IsBlockedLanguage(r.OriginalLanguage) {
		return false
	}
	for _, id := range r.GenreIDs {
		if id == AnimationGenreID {
			return false
		}
	}
	if r.Type == models.MediaTypeTV {
		for _, c := range r.OriginCountries {
			if IsBlockedCountry(c) {
				return false
			}
		}
	}
	return true
}

// IsBlockedLanguage reports whether an original-language code is excluded.
func IsBlockedLanguage(code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return false
	}
	_, blocked := blockedLanguages[code]
	return blocked
}

// IsBlockedCountry reports whether an origin country is excluded for tv.
func IsBlockedCountry(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return false
	}
	_, blocked := blockedCountries[code]
	return blocked
}

// FilterEligible keeps the items whose record passes the classifier, in order.
func FilterEligible[T any](items []T, record func(T) Record) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if IsEligibleForTopSurfaces(record(item)) {
			result = append(result, item)
		}
	}
	return result
}
