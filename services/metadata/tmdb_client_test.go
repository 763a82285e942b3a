package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelyseries/config"
	"reelyseries/models"
)

func testClient(f *fakeTMDB, token string) *tmdbClient {
	s := config.Default().TMDB
	s.BaseURL = testBaseURL
	s.RateLimit = 0
	return newTMDBClient(s, func() string { return token }, f.client())
}

func TestTMDBClientMissingTokenFailsFast(t *testing.T) {
	f := newFakeTMDB()
	c := testClient(f, "   ")

	err := c.get(t.Context(), "/movie/popular", nil, nil)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, config.ErrMissingToken)
	assert.Zero(t, f.callCount(), "no request may be sent without a token")
}

func TestTMDBClientOmitsEmptyParams(t *testing.T) {
	f := newFakeTMDB()
	f.handle("/discover/movie", pageJSON(1))
	c := testClient(f, "tok")

	err := c.get(t.Context(), "/discover/movie", map[string]string{
		"language":             "ro-RO",
		"with_watch_providers": "",
		"region":               "  ",
	}, nil)
	require.NoError(t, err)

	calls := f.callsTo("/discover/movie")
	require.Len(t, calls, 1)
	assert.Equal(t, "ro-RO", calls[0].Get("language"))
	assert.NotContains(t, calls[0], "with_watch_providers")
	assert.NotContains(t, calls[0], "region")
	assert.Equal(t, "Bearer tok", f.auth[0])
}

func TestTMDBClientUpstreamStatus(t *testing.T) {
	f := newFakeTMDB()
	f.fail("/movie/top_rated", http.StatusUnauthorized)
	c := testClient(f, "tok")

	err := c.get(t.Context(), "/movie/top_rated", nil, &rawPage{})

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusUnauthorized, upErr.Status)
	assert.Contains(t, upErr.Body, "boom")
	assert.Equal(t, "/movie/top_rated", upErr.Path)
	assert.Contains(t, err.Error(), "TMDB error 401")
}

func TestTMDBClientTransportFailure(t *testing.T) {
	c := testClient(newFakeTMDB(), "tok")
	c.httpc = &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})}

	err := c.get(t.Context(), "/movie/popular", nil, nil)

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Zero(t, upErr.Status)
	assert.True(t, IsUpstreamError(err))
	assert.False(t, IsConfigError(err))
}

func TestTMDBClientTimeoutIsUpstreamError(t *testing.T) {
	c := testClient(newFakeTMDB(), "tok")
	c.timeout = 20 * time.Millisecond
	c.httpc = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	})}

	err := c.get(t.Context(), "/movie/popular", nil, nil)

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTMDBClientMalformedBody(t *testing.T) {
	f := newFakeTMDB()
	f.handle("/movie/popular", `{"results": [`)
	c := testClient(f, "tok")

	_, err := c.listPage(t.Context(), models.MediaTypeMovie, "/movie/popular", nil)
	assert.True(t, IsUpstreamError(err))
}

func TestDecodeRecordVariants(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		fallback recordKind
		wantKind recordKind
		ok       bool
	}{
		{"tagged movie", `{"id":1,"media_type":"movie","title":"A"}`, kindUnknown, kindMovie, true},
		{"tagged tv beats fallback", `{"id":2,"media_type":"tv","name":"B"}`, kindMovie, kindTV, true},
		{"tagged person", `{"id":3,"media_type":"person","name":"C"}`, kindUnknown, kindPerson, true},
		{"untagged uses fallback", `{"id":4,"title":"D"}`, kindMovie, kindMovie, true},
		{"untagged without fallback", `{"id":5,"title":"E"}`, kindUnknown, kindUnknown, false},
		{"unknown tag", `{"id":6,"media_type":"collection"}`, kindMovie, kindUnknown, false},
		{"missing id", `{"media_type":"movie","title":"F"}`, kindUnknown, kindUnknown, false},
		{"not an object", `[1,2]`, kindMovie, kindUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := decodeRecord(json.RawMessage(tt.raw), tt.fallback)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.wantKind, rec.kind)
			}
		})
	}
}

func TestDecodePageSkipsBadRecords(t *testing.T) {
	raw := rawPage{
		Page:       1,
		TotalPages: 3,
		Results: []json.RawMessage{
			json.RawMessage(`{"id":1,"title":"Kept"}`),
			json.RawMessage(`{"title":"No id"}`),
			json.RawMessage(`"junk"`),
			json.RawMessage(`{"id":2,"title":"Also kept"}`),
		},
	}
	page := decodePage("/movie/popular", raw, kindMovie)
	require.Len(t, page.records, 2)
	assert.Equal(t, 3, page.totalPages)
	assert.Equal(t, "Kept", page.records[0].movie.Title)
}

func TestMediaItemNormalizesMissingFields(t *testing.T) {
	img := imageBuilder{base: "https://image.tmdb.org/t/p", posterSize: "w500"}
	rec, ok := decodeRecord(json.RawMessage(`{"id":9,"media_type":"tv","original_name":"Orig"}`), kindUnknown)
	require.True(t, ok)

	item, ok := rec.mediaItem(img)
	require.True(t, ok)
	assert.Equal(t, "Orig", item.Title)
	assert.Zero(t, item.Rating)
	assert.Nil(t, item.Poster)
	assert.Equal(t, models.UnknownYear, item.Year)
	assert.Equal(t, "/tv/9", item.Href)
}

func TestYearFrom(t *testing.T) {
	tests := map[string]string{
		"2024-05-01": "2024",
		"1999":       "1999",
		"":           models.UnknownYear,
		"199":        models.UnknownYear,
		"abcd-01-01": models.UnknownYear,
		"0000-00-00": models.UnknownYear,
	}
	for input, want := range tests {
		if got := yearFrom(input); got != want {
			t.Fatalf("yearFrom(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestBuildImageURL(t *testing.T) {
	if img := buildImageURL("https://image.tmdb.org/t/p", "w500", ""); img != nil {
		t.Fatal("expected nil image when path empty")
	}
	img := buildImageURL("https://image.tmdb.org/t/p/", "w500", "poster.png")
	if img == nil {
		t.Fatal("expected image for valid path")
	}
	if *img != "https://image.tmdb.org/t/p/w500/poster.png" {
		t.Fatalf("unexpected image url: %s", *img)
	}
}

func TestNormalizeRating(t *testing.T) {
	assert.Equal(t, 0.0, normalizeRating(-1))
	assert.Equal(t, 10.0, normalizeRating(11))
	assert.Equal(t, 7.5, normalizeRating(7.5))
}
