package watchlist

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
	bolt "go.etcd.io/bbolt"

	"reelyseries/models"
)

// Keys of the two JSON lists kept per client scope.
const (
	WatchlistKey = "reely_watchlist_v1"
	ClicksKey    = "reely_clicks_v1"
)

// DefaultScope is used when a request carries no client id.
const DefaultScope = "default"

// DefaultMaxClicks bounds the click ring buffer when no cap is configured.
const DefaultMaxClicks = 200

// Service stores each client's watchlist and recent watch clicks as opaque
// JSON arrays. Every read or write failure is logged and treated as an empty
// list or a no-op; callers never see storage errors.
type Service struct {
	db        *bolt.DB
	maxClicks int

	// Serializes read-modify-write cycles on the same scope.
	mu sync.Mutex

	now   func() time.Time
	newID func() string
}

// Open creates (or reopens) the store at path.
func Open(path string, maxClicks int) (*Service, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}
	return NewService(db, maxClicks), nil
}

// NewService wraps an already open database.
func NewService(db *bolt.DB, maxClicks int) *Service {
	if maxClicks <= 0 {
		maxClicks = DefaultMaxClicks
	}
	return &Service{
		db:        db,
		maxClicks: maxClicks,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func normalizeScope(scope string) string {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return DefaultScope
	}
	return scope
}

// load decodes key in the scope bucket into dest. It returns false when the
// value could not be read or decoded; a missing key is not a failure.
func (s *Service) load(scope, key string, dest any) bool {
	scope = normalizeScope(scope)
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(scope))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		log.Printf("[watchlist] read %s/%s failed: %v", scope, key, err)
		return false
	}
	if data == nil {
		return true
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("[watchlist] %s/%s is corrupt, treating as empty: %v", scope, key, err)
		return false
	}
	return true
}

func (s *Service) save(scope, key string, value any) {
	scope = normalizeScope(scope)
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("[watchlist] encode %s/%s failed: %v", scope, key, err)
		return
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(scope))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
	if err != nil {
		log.Printf("[watchlist] write %s/%s failed: %v", scope, key, err)
	}
}

func (s *Service) readWatchlist(scope string) []models.WatchlistItem {
	var items []models.WatchlistItem
	if !s.load(scope, WatchlistKey, &items) || items == nil {
		return []models.WatchlistItem{}
	}
	return items
}

// List returns the saved items, newest first.
func (s *Service) List(scope string) []models.WatchlistItem {
	return s.readWatchlist(scope)
}

// Filter returns saved items whose title fuzzily matches query.
func (s *Service) Filter(scope, query string) []models.WatchlistItem {
	items := s.readWatchlist(scope)
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}
	out := make([]models.WatchlistItem, 0, len(items))
	for _, item := range items {
		if fuzzy.MatchFold(query, item.Title) {
			out = append(out, item)
		}
	}
	return out
}

// Add prepends an item unless (type, id) is already saved. added is false
// for duplicates; the stored item is returned either way.
func (s *Service) Add(scope string, in models.WatchlistUpsert) (models.WatchlistItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.readWatchlist(scope)
	key := models.ItemKey{Type: in.Type, ID: in.ID}
	for _, existing := range items {
		if existing.Key() == key {
			return existing, false
		}
	}

	item := models.WatchlistItem{
		ID:      in.ID,
		Type:    in.Type,
		Title:   strings.TrimSpace(in.Title),
		Year:    in.Year,
		Rating:  in.Rating,
		Poster:  in.Poster,
		AddedAt: models.UnixMillis(s.now()),
	}
	if item.Year == "" {
		item.Year = models.UnknownYear
	}
	s.save(scope, WatchlistKey, append([]models.WatchlistItem{item}, items...))
	return item, true
}

// Remove drops (type, id) and returns the remaining list.
func (s *Service) Remove(scope string, t models.MediaType, id int64) []models.WatchlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.readWatchlist(scope)
	key := models.ItemKey{Type: t, ID: id}
	kept := make([]models.WatchlistItem, 0, len(items))
	for _, item := range items {
		if item.Key() != key {
			kept = append(kept, item)
		}
	}
	if len(kept) != len(items) {
		s.save(scope, WatchlistKey, kept)
	}
	return kept
}

func (s *Service) Contains(scope string, t models.MediaType, id int64) bool {
	key := models.ItemKey{Type: t, ID: id}
	for _, item := range s.readWatchlist(scope) {
		if item.Key() == key {
			return true
		}
	}
	return false
}

// TrackClick records a "where to watch" click at the head of the ring buffer.
func (s *Service) TrackClick(scope string, in models.ClickInput) models.ClickEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	event := models.ClickEvent{
		EventID:  s.newID(),
		TS:       models.UnixMillis(s.now()),
		Type:     in.Type,
		ID:       in.ID,
		Title:    strings.TrimSpace(in.Title),
		Provider: strings.TrimSpace(in.Provider),
		URL:      in.URL,
	}
	log.Printf("[track] watch_click scope=%s type=%s id=%d provider=%q", normalizeScope(scope), event.Type, event.ID, event.Provider)

	events := append([]models.ClickEvent{event}, s.RecentClicks(scope)...)
	if len(events) > s.maxClicks {
		events = events[:s.maxClicks]
	}
	s.save(scope, ClicksKey, events)
	return event
}

// RecentClicks returns tracked clicks, newest first.
func (s *Service) RecentClicks(scope string) []models.ClickEvent {
	var events []models.ClickEvent
	if !s.load(scope, ClicksKey, &events) || events == nil {
		return []models.ClickEvent{}
	}
	return events
}
