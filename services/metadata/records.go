package metadata

import (
	"encoding/json"
	"log"
	"strings"

	"reelyseries/models"
	"reelyseries/services/curation"
)

// Upstream record shapes. Every raw result is decoded into exactly one of
// these variants at the client boundary.

type movieRecord struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	ReleaseDate      string  `json:"release_date"`
	PosterPath       string  `json:"poster_path"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	OriginalLanguage string  `json:"original_language"`
	GenreIDs         []int64 `json:"genre_ids"`
}

type tvRecord struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	OriginalName     string   `json:"original_name"`
	FirstAirDate     string   `json:"first_air_date"`
	PosterPath       string   `json:"poster_path"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	Popularity       float64  `json:"popularity"`
	OriginalLanguage string   `json:"original_language"`
	GenreIDs         []int64  `json:"genre_ids"`
	OriginCountry    []string `json:"origin_country"`
}

type personRecord struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	ProfilePath        string  `json:"profile_path"`
	Popularity         float64 `json:"popularity"`
	KnownForDepartment string  `json:"known_for_department"`
}

type recordKind int

const (
	kindUnknown recordKind = iota
	kindMovie
	kindTV
	kindPerson
)

// taggedRecord holds exactly one variant, selected by kind.
type taggedRecord struct {
	kind   recordKind
	movie  *movieRecord
	tv     *tvRecord
	person *personRecord
}

type recordPage struct {
	records    []taggedRecord
	page       int
	totalPages int
}

type rawPage struct {
	Page         int               `json:"page"`
	Results      []json.RawMessage `json:"results"`
	TotalPages   int               `json:"total_pages"`
	TotalResults int               `json:"total_results"`
}

func kindFor(t models.MediaType) recordKind {
	switch t {
	case models.MediaTypeMovie:
		return kindMovie
	case models.MediaTypeTV:
		return kindTV
	default:
		return kindUnknown
	}
}

func kindFromTag(tag string) recordKind {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "movie":
		return kindMovie
	case "tv":
		return kindTV
	case "person":
		return kindPerson
	default:
		return kindUnknown
	}
}

// decodeRecord picks the variant from media_type when present, otherwise from
// the endpoint's namespace. Records without an id are rejected.
func decodeRecord(raw json.RawMessage, fallback recordKind) (taggedRecord, bool) {
	var tag struct {
		MediaType string `json:"media_type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return taggedRecord{}, false
	}
	kind := fallback
	if tag.MediaType != "" {
		kind = kindFromTag(tag.MediaType)
	}

	switch kind {
	case kindMovie:
		var m movieRecord
		if err := json.Unmarshal(raw, &m); err != nil || m.ID <= 0 {
			return taggedRecord{}, false
		}
		return taggedRecord{kind: kindMovie, movie: &m}, true
	case kindTV:
		var t tvRecord
		if err := json.Unmarshal(raw, &t); err != nil || t.ID <= 0 {
			return taggedRecord{}, false
		}
		return taggedRecord{kind: kindTV, tv: &t}, true
	case kindPerson:
		var p personRecord
		if err := json.Unmarshal(raw, &p); err != nil || p.ID <= 0 {
			return taggedRecord{}, false
		}
		return taggedRecord{kind: kindPerson, person: &p}, true
	default:
		return taggedRecord{}, false
	}
}

func decodePage(path string, page rawPage, fallback recordKind) recordPage {
	out := recordPage{
		records:    make([]taggedRecord, 0, len(page.Results)),
		page:       page.Page,
		totalPages: page.TotalPages,
	}
	skipped := 0
	for _, raw := range page.Results {
		rec, ok := decodeRecord(raw, fallback)
		if !ok {
			skipped++
			continue
		}
		out.records = append(out.records, rec)
	}
	if skipped > 0 {
		log.Printf("[tmdb] %s: skipped %d malformed or unsupported records", path, skipped)
	}
	return out
}

func (r taggedRecord) isMedia() bool {
	return r.kind == kindMovie || r.kind == kindTV
}

func (r taggedRecord) mediaType() models.MediaType {
	switch r.kind {
	case kindMovie:
		return models.MediaTypeMovie
	case kindTV:
		return models.MediaTypeTV
	default:
		return ""
	}
}

func (r taggedRecord) voteCount() int {
	switch r.kind {
	case kindMovie:
		return r.movie.VoteCount
	case kindTV:
		return r.tv.VoteCount
	default:
		return 0
	}
}

func (r taggedRecord) popularity() float64 {
	switch r.kind {
	case kindMovie:
		return r.movie.Popularity
	case kindTV:
		return r.tv.Popularity
	case kindPerson:
		return r.person.Popularity
	default:
		return 0
	}
}

// classifierRecord exposes the fields the content classifier inspects.
func (r taggedRecord) classifierRecord() curation.Record {
	switch r.kind {
	case kindMovie:
		return curation.Record{
			Type:             models.MediaTypeMovie,
			OriginalLanguage: r.movie.OriginalLanguage,
			GenreIDs:         r.movie.GenreIDs,
		}
	case kindTV:
		return curation.Record{
			Type:             models.MediaTypeTV,
			OriginalLanguage: r.tv.OriginalLanguage,
			GenreIDs:         r.tv.GenreIDs,
			OriginCountries:  r.tv.OriginCountry,
		}
	default:
		return curation.Record{}
	}
}

// mediaItem normalizes a movie or tv record. ok is false for people and
// unknown variants.
func (r taggedRecord) mediaItem(img imageBuilder) (models.MediaItem, bool) {
	switch r.kind {
	case kindMovie:
		m := r.movie
		return newMediaItem(models.MediaTypeMovie, m.ID, firstNonEmpty(m.Title, m.OriginalTitle), m.VoteAverage, img.poster(m.PosterPath), m.ReleaseDate), true
	case kindTV:
		t := r.tv
		return newMediaItem(models.MediaTypeTV, t.ID, firstNonEmpty(t.Name, t.OriginalName), t.VoteAverage, img.poster(t.PosterPath), t.FirstAirDate), true
	default:
		return models.MediaItem{}, false
	}
}

func newMediaItem(t models.MediaType, id int64, title string, rating float64, poster *string, date string) models.MediaItem {
	return models.MediaItem{
		ID:     id,
		Type:   t,
		Title:  title,
		Rating: normalizeRating(rating),
		Poster: poster,
		Year:   yearFrom(date),
		Href:   models.MediaPath(t, id),
	}
}

// mediaItems converts the media variants of records, preserving order.
func mediaItems(records []taggedRecord, img imageBuilder) []models.MediaItem {
	items := make([]models.MediaItem, 0, len(records))
	for _, rec := range records {
		if item, ok := rec.mediaItem(img); ok {
			items = append(items, item)
		}
	}
	return items
}

func normalizeRating(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

// yearFrom takes the year of an upstream date ("2024-05-01"), or the
// unknown-year sentinel when the date is missing or malformed.
func yearFrom(date string) string {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return models.UnknownYear
	}
	year := date[:4]
	for _, c := range year {
		if c < '0' || c > '9' {
			return models.UnknownYear
		}
	}
	if year == "0000" {
		return models.UnknownYear
	}
	return year
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
