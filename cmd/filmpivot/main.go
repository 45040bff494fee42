package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filmpivot/api"
	"filmpivot/config"
	"filmpivot/handlers"
	"filmpivot/internal/database"
	"filmpivot/internal/logging"
	"filmpivot/services/cache"
	"filmpivot/services/discovery"
	"filmpivot/services/favorites"
	"filmpivot/services/history"
	"filmpivot/services/tmdb"
	"filmpivot/services/users"
	"filmpivot/services/watchlist"
	"filmpivot/utils"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var (
		showVersion bool
		memoryCache bool
	)
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&memoryCache, "memory", false, "keep the metadata cache in memory instead of SQLite")
	flag.Parse()

	if showVersion {
		fmt.Printf("filmpivot %s\n", Version)
		return
	}

	if err := run(memoryCache); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(memoryCache bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer logging.Close()
	logging.Info().Str("version", Version).Msg("starting filmpivot")

	if cfg.TMDB.APIKey == "" {
		logging.Warn().Msg("TMDB_API_KEY is not set; metadata requests will fail")
	}

	db, err := database.NewDB(database.Config{DatabasePath: cfg.Database.Path})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	conn := db.Connection()

	var backend cache.Backend
	if memoryCache {
		backend = cache.NewMemoryBackend()
		logging.Info().Msg("using in-memory metadata cache")
	} else {
		repo := database.NewCacheRepository(conn)
		if n, err := repo.CountMovies(context.Background()); err == nil {
			logging.Info().Int("movies", n).Str("path", db.Path()).Msg("metadata cache opened")
		}
		backend = repo
	}

	tmdbClient := tmdb.NewClient(cfg.TMDB)
	userSvc := users.NewService(database.NewUserRepository(conn))
	historySvc := history.NewService(database.NewSessionRepository(conn), cfg.History)
	store := cache.NewStore(backend, cache.WithTTL(cfg.Cache.TTL))
	discoverySvc := discovery.NewService(tmdbClient, store, historySvc)

	set := handlers.Set{
		Discovery: handlers.NewDiscoveryHandler(discoverySvc, tmdbClient),
		Favorites: handlers.NewFavoritesHandler(favorites.NewService(database.NewFavoriteRepository(conn))),
		Watchlist: handlers.NewWatchlistHandler(watchlist.NewService(database.NewWatchlistRepository(conn))),
		History:   handlers.NewHistoryHandler(historySvc),
		Users:     handlers.NewUsersHandler(userSvc),
		Webhooks:  handlers.NewWebhookHandler(userSvc, cfg.Webhooks),
		Version:   handlers.NewVersionHandler(Version),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := api.NewIPRateLimiterFromConfig(cfg.RateLimit)
	if limiter != nil {
		go limiter.Run(ctx)
	}

	router := utils.NewRouter()
	handlers.Register(router, set, userSvc, limiter)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      utils.WithCORS(cfg.Server.AllowedOrigins, router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
