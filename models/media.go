package models

import (
	"fmt"
	"strconv"
)

// MediaType is the upstream namespace a title lives in.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// UnknownYear is shown when a title has no usable release or first-air date.
const UnknownYear = "—"

// MaxPages caps any upstream-reported page count.
const MaxPages = 500

// ParseMediaType accepts the common spellings used by links and query strings.
func ParseMediaType(value string) (MediaType, bool) {
	switch value {
	case "movie", "movies", "film", "films":
		return MediaTypeMovie, true
	case "tv", "series", "show", "shows":
		return MediaTypeTV, true
	default:
		return "", false
	}
}

func (t MediaType) Valid() bool {
	return t == MediaTypeMovie || t == MediaTypeTV
}

// MediaItem is the normalized card shown in every list.
type MediaItem struct {
	ID     int64     `json:"id"`
	Type   MediaType `json:"type"`
	Title  string    `json:"title"`
	Rating float64   `json:"rating"` // 0 means no rating
	Poster *string   `json:"poster"`
	Year   string    `json:"year"`
	Href   string    `json:"href"`
}

// ItemKey identifies an item across merges.
type ItemKey struct {
	Type MediaType
	ID   int64
}

func (m MediaItem) Key() ItemKey {
	return ItemKey{Type: m.Type, ID: m.ID}
}

// YearNumber parses Year. ok is false for the sentinel or junk.
func (m MediaItem) YearNumber() (int, bool) {
	if m.Year == "" || m.Year == UnknownYear {
		return 0, false
	}
	y, err := strconv.Atoi(m.Year)
	if err != nil || y <= 0 {
		return 0, false
	}
	return y, true
}

// MediaPath is the detail view address for an item.
func MediaPath(t MediaType, id int64) string {
	return fmt.Sprintf("/%s/%d", t, id)
}

// PersonPath is the person view address for an actor.
func PersonPath(id int64) string {
	return fmt.Sprintf("/person/%d", id)
}

// BrowseResult is one page of a browse or search query.
type BrowseResult struct {
	Items      []MediaItem `json:"items"`
	TotalPages int         `json:"totalPages"`
}

// ClampTotalPages keeps a reported page count within [1, MaxPages].
func ClampTotalPages(total int) int {
	if total < 1 {
		return 1
	}
	if total > MaxPages {
		return MaxPages
	}
	return total
}

// ClampPage keeps a requested page within [1, MaxPages].
func ClampPage(page int) int {
	return ClampTotalPages(page)
}

// EmptyResult is the valid representation of "nothing found".
func EmptyResult() BrowseResult {
	return BrowseResult{Items: []MediaItem{}, TotalPages: 1}
}
