package watchlist_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"reelyseries/models"
	"reelyseries/services/watchlist"
)

func openTestStore(t *testing.T, maxClicks int) (*watchlist.Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "reely.db")
	svc, err := watchlist.Open(path, maxClicks)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc, path
}

func TestServiceAddListAndPersist(t *testing.T) {
	svc, path := openTestStore(t, 0)

	added, ok := svc.Add("", models.WatchlistUpsert{
		ID:    603,
		Type:  models.MediaTypeMovie,
		Title: "The Matrix",
		Year:  "1999",
	})
	require.True(t, ok)
	assert.Equal(t, "The Matrix", added.Title)
	assert.NotZero(t, added.AddedAt)

	items := svc.List(watchlist.DefaultScope)
	require.Len(t, items, 1)
	require.NoError(t, svc.Close())

	reloaded, err := watchlist.Open(path, 0)
	require.NoError(t, err)
	defer reloaded.Close()

	items = reloaded.List("")
	require.Len(t, items, 1)
	assert.Equal(t, "The Matrix", items[0].Title)
}

func TestServiceAddPrependsAndSkipsDuplicates(t *testing.T) {
	svc, _ := openTestStore(t, 0)

	_, ok := svc.Add("c1", models.WatchlistUpsert{ID: 1, Type: models.MediaTypeMovie, Title: "First"})
	require.True(t, ok)
	_, ok = svc.Add("c1", models.WatchlistUpsert{ID: 1, Type: models.MediaTypeTV, Title: "Same id, series"})
	require.True(t, ok)
	existing, ok := svc.Add("c1", models.WatchlistUpsert{ID: 1, Type: models.MediaTypeMovie, Title: "Renamed"})
	assert.False(t, ok)
	assert.Equal(t, "First", existing.Title)

	items := svc.List("c1")
	require.Len(t, items, 2)
	assert.Equal(t, "Same id, series", items[0].Title)
	assert.Equal(t, models.UnknownYear, items[0].Year)
	assert.Empty(t, svc.List("other-client"), "scopes are independent")
}

func TestServiceRemoveAndContains(t *testing.T) {
	svc, _ := openTestStore(t, 0)
	svc.Add("c1", models.WatchlistUpsert{ID: 1, Type: models.MediaTypeMovie, Title: "Keep"})
	svc.Add("c1", models.WatchlistUpsert{ID: 2, Type: models.MediaTypeTV, Title: "Drop"})

	assert.True(t, svc.Contains("c1", models.MediaTypeTV, 2))
	assert.False(t, svc.Contains("c1", models.MediaTypeMovie, 2))

	remaining := svc.Remove("c1", models.MediaTypeTV, 2)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Keep", remaining[0].Title)
	assert.False(t, svc.Contains("c1", models.MediaTypeTV, 2))

	// Removing something absent is a no-op.
	assert.Len(t, svc.Remove("c1", models.MediaTypeTV, 99), 1)
}

func TestServiceFilterFuzzy(t *testing.T) {
	svc, _ := openTestStore(t, 0)
	for i, title := range []string{"The Lord of the Rings", "Breaking Bad", "Better Call Saul"} {
		svc.Add("c1", models.WatchlistUpsert{ID: int64(i + 1), Type: models.MediaTypeTV, Title: title})
	}

	got := svc.Filter("c1", "lotr")
	require.Len(t, got, 1)
	assert.Equal(t, "The Lord of the Rings", got[0].Title)

	assert.Len(t, svc.Filter("c1", "  "), 3)
	assert.Empty(t, svc.Filter("c1", "xyz"))
}

func TestServiceCorruptDataReadsAsEmpty(t *testing.T) {
	svc, path := openTestStore(t, 0)
	svc.Add("c1", models.WatchlistUpsert{ID: 1, Type: models.MediaTypeMovie, Title: "Soon corrupt"})
	require.NoError(t, svc.Close())

	db, err := bolt.Open(path, 0o600, nil)
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte("c1"))
		if err := b.Put([]byte(watchlist.WatchlistKey), []byte(`[{"id":"not-a-number"}]`)); err != nil {
			return err
		}
		return b.Put([]byte(watchlist.ClicksKey), []byte(`{broken`))
	}))

	svc = watchlist.NewService(db, 0)
	defer svc.Close()
	assert.Empty(t, svc.List("c1"))
	assert.Empty(t, svc.RecentClicks("c1"))

	// Writing over corrupt data recovers the list.
	_, ok := svc.Add("c1", models.WatchlistUpsert{ID: 2, Type: models.MediaTypeMovie, Title: "Fresh"})
	require.True(t, ok)
	assert.Len(t, svc.List("c1"), 1)
}

func TestServiceTrackClickRingBuffer(t *testing.T) {
	svc, _ := openTestStore(t, 3)

	var last models.ClickEvent
	for i := 1; i <= 5; i++ {
		last = svc.TrackClick("c1", models.ClickInput{
			Type:     models.MediaTypeMovie,
			ID:       int64(i),
			Title:    fmt.Sprintf("Movie %d", i),
			Provider: "netflix",
			URL:      "https://www.netflix.com/search?q=x",
		})
	}
	assert.NotEmpty(t, last.EventID)
	assert.NotZero(t, last.TS)

	events := svc.RecentClicks("c1")
	require.Len(t, events, 3)
	assert.Equal(t, int64(5), events[0].ID)
	assert.Equal(t, int64(3), events[2].ID)
	assert.NotEqual(t, events[0].EventID, events[1].EventID)
}

func TestServiceDefaultClickCap(t *testing.T) {
	svc, _ := openTestStore(t, 0)
	for i := 0; i < watchlist.DefaultMaxClicks+5; i++ {
		svc.TrackClick("", models.ClickInput{Type: models.MediaTypeTV, ID: int64(i + 1), Title: "t", Provider: "p", URL: "https://x.test"})
	}
	assert.Len(t, svc.RecentClicks(""), watchlist.DefaultMaxClicks)
}
