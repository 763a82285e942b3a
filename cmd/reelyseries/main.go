package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"reelyseries/api"
	"reelyseries/config"
	"reelyseries/handlers"
	"reelyseries/services/metadata"
	"reelyseries/services/watchlist"
	"reelyseries/utils"
)

func main() {
	var configDir string
	flag.StringVar(&configDir, "config", "", "directory containing config.yaml")
	flag.Parse()

	mgr := config.NewManager(nil, configDir)
	settings, err := mgr.Load()
	if err != nil {
		log.Fatalf("[config] %v", err)
	}
	// Refuse to start without a token rather than failing every request.
	if err := settings.Validate(); err != nil {
		log.Fatalf("[config] invalid configuration: %v", err)
	}

	setupLogging(settings.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, settings.Storage)
	if err != nil {
		log.Fatalf("[watchlist] open %s: %v", settings.Storage.Path, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("[watchlist] close: %v", err)
		}
	}()

	metadataSvc := metadata.NewService(mgr, &http.Client{}, metadata.NewProviderDirectory())
	validate := validator.New()

	metadataHandler := handlers.NewMetadataHandler(metadataSvc)
	watchlistHandler := handlers.NewWatchlistHandler(store, validate)
	trackHandler := handlers.NewTrackHandler(store, validate)
	versionHandler := handlers.NewVersionHandler(settings.Locale)
	logsHandler := handlers.NewLogsHandler(settings.Logging.File)
	searchLimiter := api.NewClientRateLimiter(ctx, rate.Limit(settings.Server.SearchRate), settings.Server.SearchBurst)

	r := utils.NewRouter(settings.Server.AllowedOrigins)
	r.HandleFunc("/health", versionHandler.Health).Methods(http.MethodGet)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(api.ClientIDMiddleware())
	apiRouter.HandleFunc("/version", versionHandler.GetVersion).Methods(http.MethodGet)
	apiRouter.HandleFunc("/browse", metadataHandler.Browse).Methods(http.MethodGet)
	apiRouter.HandleFunc("/top", metadataHandler.Top).Methods(http.MethodGet)
	apiRouter.Handle("/search", searchLimiter.HandlerFunc(metadataHandler.Search)).Methods(http.MethodGet)
	apiRouter.HandleFunc("/person/{id}", metadataHandler.Person).Methods(http.MethodGet)
	apiRouter.HandleFunc("/person/{id}/credits", metadataHandler.PersonCredits).Methods(http.MethodGet)
	apiRouter.HandleFunc("/watchlist", watchlistHandler.List).Methods(http.MethodGet)
	apiRouter.HandleFunc("/watchlist", watchlistHandler.Add).Methods(http.MethodPost)
	apiRouter.HandleFunc("/watchlist/{type}/{id}", watchlistHandler.Contains).Methods(http.MethodGet)
	apiRouter.HandleFunc("/watchlist/{type}/{id}", watchlistHandler.Remove).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/track/clicks", trackHandler.Recent).Methods(http.MethodGet)
	apiRouter.HandleFunc("/track/clicks", trackHandler.Track).Methods(http.MethodPost)
	apiRouter.HandleFunc("/debug/logs", logsHandler.Tail).Methods(http.MethodGet)
	// Catch-all detail route goes last.
	apiRouter.HandleFunc("/{type}/{id}", metadataHandler.Details).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:              settings.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      writeTimeout(settings.TMDB.Timeout),
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("[server] listening on %s (version %s)", srv.Addr, handlers.GetVersion())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[server] listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[server] shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[server] graceful shutdown failed: %v", err)
		_ = srv.Close()
	}
	log.Println("[server] stopped")
}

// maxSequentialTMDBCalls is the longest chain of dependent upstream calls a
// single request makes: primary search then language fallback, person search
// then credits, keyword then discover, provider list then discover.
const maxSequentialTMDBCalls = 2

// writeTimeout leaves room for every sequential upstream call to use its
// whole per-call timeout, plus time to encode and write the response.
func writeTimeout(tmdbTimeout time.Duration) time.Duration {
	return maxSequentialTMDBCalls*tmdbTimeout + 10*time.Second
}

// setupLogging tees the standard logger to stdout and a rotated file.
func setupLogging(s config.LoggingSettings) {
	if s.File == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.File), 0o755); err != nil {
		log.Printf("[server] log directory unavailable, logging to stdout only: %v", err)
		return
	}
	rotator := &lumberjack.Logger{
		Filename:   s.File,
		MaxSize:    s.MaxSizeMB,
		MaxBackups: s.MaxBackups,
		MaxAge:     s.MaxAgeDays,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}

// openStore retries briefly since bbolt holds an exclusive file lock that a
// previous instance may still be releasing.
func openStore(ctx context.Context, s config.StorageSettings) (*watchlist.Service, error) {
	return retry.DoWithData(
		func() (*watchlist.Service, error) {
			return watchlist.Open(s.Path, s.MaxClicks)
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("[watchlist] open attempt %d failed: %v", n+1, err)
		}),
	)
}
