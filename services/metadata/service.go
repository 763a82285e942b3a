package metadata

import (
	"net/http"

	"reelyseries/config"
)

// Service answers browse, search and detail queries against TMDB.
type Service struct {
	cfg       *config.Manager
	tmdb      *tmdbClient
	providers *ProviderDirectory
}

// NewService wires the upstream client. The bearer token is read from cfg on
// every call so a reload takes effect without rebuilding the service.
// A nil directory gets a fresh one.
func NewService(cfg *config.Manager, httpc *http.Client, providers *ProviderDirectory) *Service {
	if providers == nil {
		providers = NewProviderDirectory()
	}
	return &Service{
		cfg:       cfg,
		tmdb:      newTMDBClient(cfg.Get().TMDB, cfg.Token, httpc),
		providers: providers,
	}
}

// Providers exposes the shared provider directory.
func (s *Service) Providers() *ProviderDirectory {
	return s.providers
}
