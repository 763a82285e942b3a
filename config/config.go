package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Settings is the full application configuration.
type Settings struct {
	Server  ServerSettings  `mapstructure:"server"`
	TMDB    TMDBSettings    `mapstructure:"tmdb"`
	Locale  LocaleSettings  `mapstructure:"locale"`
	Browse  BrowseSettings  `mapstructure:"browse"`
	Search  SearchSettings  `mapstructure:"search"`
	Details DetailsSettings `mapstructure:"details"`
	Storage StorageSettings `mapstructure:"storage"`
	Logging LoggingSettings `mapstructure:"logging"`
}

type ServerSettings struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// Per-client search requests per second and burst.
	SearchRate  float64 `mapstructure:"search_rate"`
	SearchBurst int     `mapstructure:"search_burst"`
}

type TMDBSettings struct {
	Token        string        `mapstructure:"token"`
	BaseURL      string        `mapstructure:"base_url"`
	ImageBaseURL string        `mapstructure:"image_base"`
	PosterSize   string        `mapstructure:"poster_size"`
	BackdropSize string        `mapstructure:"backdrop_size"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RateLimit    float64       `mapstructure:"rate_limit"`
	RateBurst    int           `mapstructure:"rate_burst"`
}

// LocaleSettings only seed the SPA; queries always carry an explicit locale.
type LocaleSettings struct {
	DefaultLanguage string `mapstructure:"default_language"`
	DefaultRegion   string `mapstructure:"default_region"`
}

type BrowseSettings struct {
	BestRatedMinVotes int  `mapstructure:"best_rated_min_votes"`
	BestRatedMinItems int  `mapstructure:"best_rated_min_items"`
	NewestMinVotes    int  `mapstructure:"newest_min_votes"`
	FilterTrending    bool `mapstructure:"filter_trending"`
}

type SearchSettings struct {
	MinPrimaryResults   int `mapstructure:"min_primary_results"`
	MaxPeople           int `mapstructure:"max_people"`
	MaxCreditsPerPerson int `mapstructure:"max_credits_per_person"`
	KeywordSlice        int `mapstructure:"keyword_slice"`
	MaxResults          int `mapstructure:"max_results"`
}

type DetailsSettings struct {
	MaxCast int `mapstructure:"max_cast"`
}

type StorageSettings struct {
	Path      string `mapstructure:"path"`
	MaxClicks int    `mapstructure:"max_clicks"`
}

type LoggingSettings struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// ErrMissingToken is returned when no upstream bearer token is configured.
var ErrMissingToken = errors.New("missing TMDB token: set REELY_TMDB_TOKEN or tmdb.token in config.yaml")

// Default returns the built-in configuration.
func Default() Settings {
	return Settings{
		Server: ServerSettings{
			Addr:        ":7777",
			SearchRate:  5,
			SearchBurst: 10,
		},
		TMDB: TMDBSettings{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
			PosterSize:   "w500",
			BackdropSize: "w1280",
			Timeout:      12 * time.Second,
			RateLimit:    40,
			RateBurst:    20,
		},
		Locale: LocaleSettings{
			DefaultLanguage: "ro-RO",
			DefaultRegion:   "RO",
		},
		Browse: BrowseSettings{
			BestRatedMinVotes: 500,
			BestRatedMinItems: 10,
			NewestMinVotes:    50,
			FilterTrending:    true,
		},
		Search: SearchSettings{
			MinPrimaryResults:   3,
			MaxPeople:           2,
			MaxCreditsPerPerson: 40,
			KeywordSlice:        15,
			MaxResults:          60,
		},
		Details: DetailsSettings{
			MaxCast: 12,
		},
		Storage: StorageSettings{
			Path:      "cache/reely.db",
			MaxClicks: 200,
		},
		Logging: LoggingSettings{
			File:       "cache/logs/reely.log",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Validate reports the first problem that would make the service unusable.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.TMDB.Token) == "" {
		return ErrMissingToken
	}
	if s.TMDB.BaseURL == "" {
		return fmt.Errorf("tmdb.base_url is required")
	}
	if s.TMDB.Timeout <= 0 {
		return fmt.Errorf("tmdb.timeout must be positive, got %s", s.TMDB.Timeout)
	}
	if s.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive, got %d", s.Search.MaxResults)
	}
	if s.Browse.BestRatedMinItems < 0 || s.Browse.BestRatedMinVotes < 0 {
		return fmt.Errorf("browse thresholds must not be negative")
	}
	return nil
}

// Manager holds the loaded settings and hands out copies.
type Manager struct {
	mu       sync.RWMutex
	fs       afero.Fs
	dir      string
	settings Settings
}

// NewManager builds a manager reading config.yaml from dir on fs.
// A nil fs uses the OS filesystem.
func NewManager(fs afero.Fs, dir string) *Manager {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Manager{fs: fs, dir: dir, settings: Default()}
}

// Load reads config.yaml (optional) and REELY_* environment overrides.
func (m *Manager) Load() (Settings, error) {
	v := viper.New()
	v.SetFs(m.fs)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if m.dir != "" {
		v.AddConfigPath(m.dir)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("REELY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, Default())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error parsing config: %w", err)
	}

	m.mu.Lock()
	m.settings = s
	m.mu.Unlock()
	return s, nil
}

// Get returns a copy of the current settings.
func (m *Manager) Get() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// Token returns the upstream bearer token as currently configured.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return strings.TrimSpace(m.settings.TMDB.Token)
}

// Update swaps the settings in place (used by tests and hot reloads).
func (m *Manager) Update(fn func(*Settings)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.settings)
}

// setDefaults registers every key so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper, d Settings) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.search_rate", d.Server.SearchRate)
	v.SetDefault("server.search_burst", d.Server.SearchBurst)

	v.SetDefault("tmdb.token", d.TMDB.Token)
	v.SetDefault("tmdb.base_url", d.TMDB.BaseURL)
	v.SetDefault("tmdb.image_base", d.TMDB.ImageBaseURL)
	v.SetDefault("tmdb.poster_size", d.TMDB.PosterSize)
	v.SetDefault("tmdb.backdrop_size", d.TMDB.BackdropSize)
	v.SetDefault("tmdb.timeout", d.TMDB.Timeout)
	v.SetDefault("tmdb.rate_limit", d.TMDB.RateLimit)
	v.SetDefault("tmdb.rate_burst", d.TMDB.RateBurst)

	v.SetDefault("locale.default_language", d.Locale.DefaultLanguage)
	v.SetDefault("locale.default_region", d.Locale.DefaultRegion)

	v.SetDefault("browse.best_rated_min_votes", d.Browse.BestRatedMinVotes)
	v.SetDefault("browse.best_rated_min_items", d.Browse.BestRatedMinItems)
	v.SetDefault("browse.newest_min_votes", d.Browse.NewestMinVotes)
	v.SetDefault("browse.filter_trending", d.Browse.FilterTrending)

	v.SetDefault("search.min_primary_results", d.Search.MinPrimaryResults)
	v.SetDefault("search.max_people", d.Search.MaxPeople)
	v.SetDefault("search.max_credits_per_person", d.Search.MaxCreditsPerPerson)
	v.SetDefault("search.keyword_slice", d.Search.KeywordSlice)
	v.SetDefault("search.max_results", d.Search.MaxResults)

	v.SetDefault("details.max_cast", d.Details.MaxCast)

	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.max_clicks", d.Storage.MaxClicks)

	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
}
