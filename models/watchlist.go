package models

import "time"

// WatchlistItem is a saved card. AddedAt is unix milliseconds, like the SPA writes it.
type WatchlistItem struct {
	ID      int64     `json:"id"`
	Type    MediaType `json:"type"`
	Title   string    `json:"title"`
	Year    string    `json:"year"`
	Rating  float64   `json:"rating"`
	Poster  *string   `json:"poster"`
	AddedAt int64     `json:"addedAt"`
}

func (w WatchlistItem) Key() ItemKey {
	return ItemKey{Type: w.Type, ID: w.ID}
}

// WatchlistUpsert is the request body for adding an item.
type WatchlistUpsert struct {
	ID     int64     `json:"id" validate:"required,gt=0"`
	Type   MediaType `json:"type" validate:"required,oneof=movie tv"`
	Title  string    `json:"title" validate:"required,max=512"`
	Year   string    `json:"year" validate:"max=8"`
	Rating float64   `json:"rating" validate:"gte=0,lte=10"`
	Poster *string   `json:"poster" validate:"omitempty,url"`
}

// ClickEvent records a "where to watch" click. Debug only.
type ClickEvent struct {
	EventID  string    `json:"eventId"`
	TS       int64     `json:"ts"`
	Type     MediaType `json:"type"`
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Provider string    `json:"provider"`
	URL      string    `json:"url"`
}

// ClickInput is the request body for tracking a click.
type ClickInput struct {
	Type     MediaType `json:"type" validate:"required,oneof=movie tv"`
	ID       int64     `json:"id" validate:"required,gt=0"`
	Title    string    `json:"title" validate:"required,max=512"`
	Provider string    `json:"provider" validate:"required,max=128"`
	URL      string    `json:"url" validate:"required,url"`
}

// UnixMillis matches the JS Date.now() representation stored by the SPA.
func UnixMillis(t time.Time) int64 {
	return t.UnixNano() / int64(time.Millisecond)
}
