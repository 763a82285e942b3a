package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"reelyseries/config"
	"reelyseries/models"
)

const (
	tmdbProfileSize = "w185"
	maxBodyBytes    = 4 << 20
)

// tmdbClient is a thin bearer-token client for the TMDB v3 endpoints we use.
// It never retries and never caches.
type tmdbClient struct {
	baseURL string
	token   func() string
	httpc   *http.Client
	timeout time.Duration
	limiter *rate.Limiter
	images  imageBuilder
}

type imageBuilder struct {
	base         string
	posterSize   string
	backdropSize string
	profileSize  string
}

func newTMDBClient(s config.TMDBSettings, token func() string, httpc *http.Client) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	var limiter *rate.Limiter
	if s.RateLimit > 0 {
		burst := s.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(s.RateLimit), burst)
	}
	return &tmdbClient{
		baseURL: strings.TrimRight(s.BaseURL, "/"),
		token:   token,
		httpc:   httpc,
		timeout: timeout,
		limiter: limiter,
		images: imageBuilder{
			base:         s.ImageBaseURL,
			posterSize:   firstNonEmpty(s.PosterSize, "w500"),
			backdropSize: firstNonEmpty(s.BackdropSize, "w1280"),
			profileSize:  tmdbProfileSize,
		},
	}
}

// get performs one authenticated GET. Empty parameter values are dropped.
func (c *tmdbClient) get(ctx context.Context, path string, params map[string]string, out any) error {
	token := ""
	if c.token != nil {
		token = strings.TrimSpace(c.token())
	}
	if token == "" {
		return &ConfigError{Err: config.ErrMissingToken}
	}

	q := url.Values{}
	for k, v := range params {
		if strings.TrimSpace(v) == "" {
			continue
		}
		q.Set(k, v)
	}
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &UpstreamError{Path: path, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &UpstreamError{Path: path, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		log.Printf("[tmdb] GET %s failed after %s: %v", path, time.Since(start).Round(time.Millisecond), err)
		return &UpstreamError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &UpstreamError{Path: path, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[tmdb] GET %s status=%d", path, resp.StatusCode)
		return &UpstreamError{Path: path, Status: resp.StatusCode, Body: string(body)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &UpstreamError{Path: path, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// listPage fetches a paged list endpoint whose records default to kind.
func (c *tmdbClient) listPage(ctx context.Context, kind models.MediaType, path string, params map[string]string) (recordPage, error) {
	var raw rawPage
	if err := c.get(ctx, path, params, &raw); err != nil {
		return recordPage{}, err
	}
	return decodePage(path, raw, kindFor(kind)), nil
}

func (c *tmdbClient) discover(ctx context.Context, kind models.MediaType, params map[string]string) (recordPage, error) {
	return c.listPage(ctx, kind, "/discover/"+string(kind), params)
}

// searchMulti runs the combined movie/tv/person search.
func (c *tmdbClient) searchMulti(ctx context.Context, query string, page int, language string) (recordPage, error) {
	var raw rawPage
	params := map[string]string{
		"query":         query,
		"page":          strconv.Itoa(page),
		"language":      language,
		"include_adult": "false",
	}
	if err := c.get(ctx, "/search/multi", params, &raw); err != nil {
		return recordPage{}, err
	}
	return decodePage("/search/multi", raw, kindUnknown), nil
}

func (c *tmdbClient) searchPerson(ctx context.Context, query, language string) ([]personRecord, error) {
	var raw rawPage
	params := map[string]string{
		"query":         query,
		"language":      language,
		"include_adult": "false",
	}
	if err := c.get(ctx, "/search/person", params, &raw); err != nil {
		return nil, err
	}
	page := decodePage("/search/person", raw, kindPerson)
	people := make([]personRecord, 0, len(page.records))
	for _, rec := range page.records {
		if rec.kind == kindPerson {
			people = append(people, *rec.person)
		}
	}
	return people, nil
}

// combinedCredits returns a person's movie and tv cast credits, most popular first.
func (c *tmdbClient) combinedCredits(ctx context.Context, personID int64, language string) ([]taggedRecord, error) {
	var raw struct {
		Cast []json.RawMessage `json:"cast"`
	}
	path := fmt.Sprintf("/person/%d/combined_credits", personID)
	if err := c.get(ctx, path, map[string]string{"language": language}, &raw); err != nil {
		return nil, err
	}
	records := make([]taggedRecord, 0, len(raw.Cast))
	for _, item := range raw.Cast {
		rec, ok := decodeRecord(item, kindUnknown)
		if !ok || !rec.isMedia() {
			continue
		}
		records = append(records, rec)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].popularity() > records[j].popularity()
	})
	return records, nil
}

type keywordRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// firstKeyword returns the id of the best keyword match, or 0.
func (c *tmdbClient) firstKeyword(ctx context.Context, query string) (int64, error) {
	var resp struct {
		Results []keywordRecord `json:"results"`
	}
	if err := c.get(ctx, "/search/keyword", map[string]string{"query": query}, &resp); err != nil {
		return 0, err
	}
	for _, k := range resp.Results {
		if k.ID > 0 {
			return k.ID, nil
		}
	}
	return 0, nil
}

type providerEntry struct {
	ID              int64  `json:"provider_id"`
	Name            string `json:"provider_name"`
	LogoPath        string `json:"logo_path"`
	DisplayPriority int    `json:"display_priority"`
}

// providerList fetches the full provider directory for a namespace in the
// canonical locale so display names stay stable.
func (c *tmdbClient) providerList(ctx context.Context, kind models.MediaType) ([]providerEntry, error) {
	var resp struct {
		Results []providerEntry `json:"results"`
	}
	params := map[string]string{
		"language":     models.CanonicalLanguage,
		"watch_region": models.CanonicalRegion,
	}
	if err := c.get(ctx, "/watch/providers/"+string(kind), params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (b imageBuilder) poster(path string) *string {
	return buildImageURL(b.base, b.posterSize, path)
}

func (b imageBuilder) backdrop(path string) *string {
	return buildImageURL(b.base, b.backdropSize, path)
}

func (b imageBuilder) profile(path string) *string {
	return buildImageURL(b.base, b.profileSize, path)
}

// buildImageURL composes an absolute CDN URL. A missing path yields nil.
func buildImageURL(base, size, path string) *string {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := strings.TrimRight(base, "/") + "/" + size + path
	return &u
}

type genreRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type titleDetailsRecord struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	Name          string        `json:"name"`
	OriginalTitle string        `json:"original_title"`
	OriginalName  string        `json:"original_name"`
	Overview      string        `json:"overview"`
	ReleaseDate   string        `json:"release_date"`
	FirstAirDate  string        `json:"first_air_date"`
	PosterPath    string        `json:"poster_path"`
	BackdropPath  string        `json:"backdrop_path"`
	VoteAverage   float64       `json:"vote_average"`
	Genres        []genreRecord `json:"genres"`
}

func (c *tmdbClient) titleDetails(ctx context.Context, kind models.MediaType, id int64, language string) (titleDetailsRecord, error) {
	var rec titleDetailsRecord
	path := fmt.Sprintf("/%s/%d", kind, id)
	if err := c.get(ctx, path, map[string]string{"language": language}, &rec); err != nil {
		return titleDetailsRecord{}, err
	}
	if rec.ID <= 0 {
		return titleDetailsRecord{}, &UpstreamError{Path: path, Err: fmt.Errorf("response has no id")}
	}
	return rec, nil
}

type castRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

func (c *tmdbClient) credits(ctx context.Context, kind models.MediaType, id int64, language string) ([]castRecord, error) {
	var resp struct {
		Cast []castRecord `json:"cast"`
	}
	path := fmt.Sprintf("/%s/%d/credits", kind, id)
	if err := c.get(ctx, path, map[string]string{"language": language}, &resp); err != nil {
		return nil, err
	}
	return resp.Cast, nil
}

type videoRecord struct {
	Key      string `json:"key"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// videos lists trailers and teasers in the given language, then English, then
// untagged uploads.
func (c *tmdbClient) videos(ctx context.Context, kind models.MediaType, id int64, iso639 string) ([]videoRecord, error) {
	var resp struct {
		Results []videoRecord `json:"results"`
	}
	path := fmt.Sprintf("/%s/%d/videos", kind, id)
	params := map[string]string{"include_video_language": iso639 + ",en,null"}
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

type regionProviders struct {
	Link     string          `json:"link"`
	Flatrate []providerEntry `json:"flatrate"`
	Rent     []providerEntry `json:"rent"`
	Buy      []providerEntry `json:"buy"`
}

func (c *tmdbClient) watchProviders(ctx context.Context, kind models.MediaType, id int64, region string) (regionProviders, bool, error) {
	var resp struct {
		Results map[string]regionProviders `json:"results"`
	}
	path := fmt.Sprintf("/%s/%d/watch/providers", kind, id)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return regionProviders{}, false, err
	}
	rp, ok := resp.Results[strings.ToUpper(region)]
	return rp, ok, nil
}

type personDetailsRecord struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Biography   string  `json:"biography"`
	ProfilePath string  `json:"profile_path"`
	Popularity  float64 `json:"popularity"`
}

func (c *tmdbClient) personDetails(ctx context.Context, id int64, language string) (personDetailsRecord, error) {
	var rec personDetailsRecord
	path := fmt.Sprintf("/person/%d", id)
	if err := c.get(ctx, path, map[string]string{"language": language}, &rec); err != nil {
		return personDetailsRecord{}, err
	}
	if rec.ID <= 0 {
		return personDetailsRecord{}, &UpstreamError{Path: path, Err: fmt.Errorf("response has no id")}
	}
	return rec, nil
}
