package models

// CastPerson is one billed cast member on a detail page.
type CastPerson struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Character *string `json:"character"`
	Profile   *string `json:"profile"`
	Href      string  `json:"href"`
}

// WatchButtonKind mirrors the upstream monetization buckets.
type WatchButtonKind string

const (
	WatchFlatrate WatchButtonKind = "flatrate"
	WatchRent     WatchButtonKind = "rent"
	WatchBuy      WatchButtonKind = "buy"
	WatchLink     WatchButtonKind = "link"
)

// WatchButton is a provider deep link shown under "Where to watch".
type WatchButton struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	URL   string          `json:"url"`
	Kind  WatchButtonKind `json:"kind"`
}

type MediaDetails struct {
	MediaItem
	Overview     string        `json:"overview"`
	Backdrop     *string       `json:"backdrop"`
	Cast         []CastPerson  `json:"cast"`
	TrailerURL   *string       `json:"trailerUrl"`
	WatchButtons []WatchButton `json:"watchButtons"`
}

type Person struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Biography  string  `json:"biography"`
	Profile    *string `json:"profile"`
	Popularity float64 `json:"popularity"`
	Href       string  `json:"href"`
}
