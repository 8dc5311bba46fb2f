package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/techish-thoughts/blogsearch/internal/config"
	"github.com/techish-thoughts/blogsearch/internal/db"
	"github.com/techish-thoughts/blogsearch/internal/db/memory"
	dbRedis "github.com/techish-thoughts/blogsearch/internal/db/redis"
	dominter "github.com/techish-thoughts/blogsearch/internal/domain/interaction"
	"github.com/techish-thoughts/blogsearch/internal/feed"
	logpkg "github.com/techish-thoughts/blogsearch/internal/logger"
	"github.com/techish-thoughts/blogsearch/internal/metrics"
	"github.com/techish-thoughts/blogsearch/internal/repository/feedcache"
	interactionrepo "github.com/techish-thoughts/blogsearch/internal/repository/interaction"
	chiTransport "github.com/techish-thoughts/blogsearch/internal/transport/chi"
	"github.com/techish-thoughts/blogsearch/internal/usecase/catalog"
	"github.com/techish-thoughts/blogsearch/internal/usecase/gateway"
	healthuc "github.com/techish-thoughts/blogsearch/internal/usecase/health"
	"github.com/techish-thoughts/blogsearch/internal/usecase/index"
	interactionuc "github.com/techish-thoughts/blogsearch/internal/usecase/interaction"
	searchuc "github.com/techish-thoughts/blogsearch/internal/usecase/search"
	"github.com/techish-thoughts/blogsearch/internal/version"
)

// ServeCommand runs the HTTP API.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Load the content feed and serve the search API",
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c.String("env"))
		},
	}
}

func serve(ctx context.Context, env string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	info := version.Get()
	logger.Info("Starting blogsearch API server",
		zap.String("version", info.Version),
		zap.String("commit", info.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	lang, err := language.Parse(cfg.Search.Language)
	if err != nil {
		return fmt.Errorf("search.language %q: %w", cfg.Search.Language, err)
	}

	store, err := openStore(cfg.Database)
	if err != nil {
		return fmt.Errorf("create database store: %w", err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	loader := feed.NewLoader(newSource(cfg.Feed), feedcache.New(store, cfg.Feed.CacheTTL()), logger)
	idx := index.New(logger)
	catalogSvc := catalog.New(loader, idx, logger)

	loadCtx, cancel := context.WithTimeout(ctx, cfg.Feed.Timeout())
	out, err := catalogSvc.Reload(loadCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("initial index build: %w", err)
	}
	logger.Info("Search index built",
		zap.String("origin", string(out.Origin)),
		zap.Int("rejected", out.Rejected),
		zap.Int("articles", out.Stats.ArticlesIndexed),
		zap.Int("authors", out.Stats.AuthorsIndexed),
		zap.Int("tags", out.Stats.TagsIndexed),
	)

	searchSvc := searchuc.New(idx, searchuc.Config{
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MaxPageSize:     cfg.Search.MaxPageSize,
		SuggestionLimit: cfg.Search.SuggestionLimit,
		ExcerptLength:   cfg.Search.ExcerptLength,
		Language:        lang,
	})
	interactionSvc := interactionuc.New(dominter.NewViewers(cfg.Interactions.MaxViewers), interactionrepo.New(store), idx)
	healthSvc := healthuc.New(store, idx)

	server := chiTransport.NewServer(chiTransport.Deps{
		Search:       searchSvc,
		Indexer:      idx,
		Catalog:      catalogSvc,
		Interactions: interactionSvc,
		Health:       healthSvc,
		Live: gateway.Config{
			Quiet:     cfg.Search.Debounce(),
			MinLength: cfg.Search.MinQueryLength,
		},
	}, logger)
	router := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys:  cfg.Auth.APIKeys,
		Gatherer: prometheus.DefaultGatherer,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Feed.Watch {
		w := feed.NewWatcher(cfg.Feed.Path, feed.DefaultSettle, func(ctx context.Context) {
			reloadCtx, cancel := context.WithTimeout(ctx, cfg.Feed.Timeout())
			defer cancel()
			if _, err := catalogSvc.Reload(reloadCtx); err != nil {
				logger.Warn("Feed reload failed", zap.Error(err))
			}
		}, logger)
		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Error("Feed watcher stopped", zap.Error(err))
			}
		}()
	}

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

func openStore(cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverRedis, config.DriverValkey:
		// Valkey speaks the Redis protocol; one rueidis client serves both.
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err != nil {
			return nil, err //nolint:wrapcheck // wrapped by the caller
		}
		return s, nil
	case config.DriverMemory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func newSource(cfg config.FeedConfig) feed.Source {
	if cfg.URL != "" {
		return feed.NewHTTPSource(cfg.URL, &http.Client{Timeout: cfg.Timeout()})
	}
	return feed.NewFileSource(cfg.Path)
}
