package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/pureskin/dupefinder/config"
	httpDelivery "github.com/pureskin/dupefinder/internal/delivery/http"
	"github.com/pureskin/dupefinder/internal/domain"
	"github.com/pureskin/dupefinder/internal/infrastructure/cache"
	"github.com/pureskin/dupefinder/internal/infrastructure/catalog"
	"github.com/pureskin/dupefinder/internal/infrastructure/embedding"
	"github.com/pureskin/dupefinder/internal/infrastructure/metrics"
	"github.com/pureskin/dupefinder/internal/infrastructure/snapshot"
	"github.com/pureskin/dupefinder/internal/usecase"
)

const version = "1.0.0"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)

	logger.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Type).
		Str("provider", cfg.Embedding.Provider).
		Msg("Starting dupefinder backend")

	cacheRepo := newCacheBackend(cfg.Cache, logger)
	provider := newEmbeddingProvider(cfg.Embedding, logger)

	// Fail fast on a dead or misconfigured embedding endpoint
	probeCtx, cancel := context.WithTimeout(context.Background(), cfg.Embedding.Timeout)
	probe, err := provider.EmbedOne(probeCtx, "aqua glycerin niacinamide")
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Str("base_url", cfg.Embedding.BaseURL).Msg("Embedding provider probe failed")
	}
	logger.Info().
		Str("model", provider.Model()).
		Int("dimension", len(probe)).
		Msg("Embedding provider ready")

	collector := metrics.NewCollector()
	search := usecase.NewSearchService(cacheRepo, provider, collector, usecase.SearchServiceConfig{
		TopN:          cfg.Search.TopN,
		PriceHeadroom: cfg.Search.PriceHeadroom,
		CacheTTL:      cfg.Cache.TTL,
	}, logger)
	builder := usecase.NewIndexBuilder(provider, logger)

	var store domain.SnapshotStore
	if cfg.Catalog.SnapshotPath != "" {
		sqliteStore, err := snapshot.NewStore(cfg.Catalog.SnapshotPath, cfg.Embedding.Model, logger)
		if err != nil {
			logger.Warn().Err(err).Str("path", cfg.Catalog.SnapshotPath).Msg("Snapshot store unavailable, persistence disabled")
		} else {
			defer sqliteStore.Close()
			store = sqliteStore
		}
	}

	source := catalog.NewFallbackSource(
		catalog.NewCSVSource(cfg.Catalog.CSVPath, logger),
		catalog.NewSampleSource(),
		logger,
	)
	manager := usecase.NewIndexManager(source, builder, search, store, logger)

	// Warm up in the background; index-dependent endpoints answer 503
	// until the first build lands.
	go warmup(manager, logger)

	reports := usecase.NewReportService(search, logger)
	services := httpDelivery.Services{
		Search: search,
		Dupes: usecase.NewDupeService(search, usecase.DupeServiceConfig{
			SimilarityFloor: cfg.Dupe.SimilarityFloor,
			PriceRatio:      cfg.Dupe.PriceRatio,
		}, logger),
		Reports:   reports,
		Scans:     usecase.NewScanService(usecase.NewLabelMatcher(usecase.MatchConfig{}), reports, search, logger),
		Recommend: usecase.NewRecommendService(search, logger),
		Reviews:   usecase.NewReviewService(logger),
		Favorites: usecase.NewFavoritesService(),
		Index:     manager,
	}

	handler := httpDelivery.NewHandler(services, cfg.Cache.Type, version, logger)
	router := httpDelivery.SetupRouter(cfg, handler, collector, logger)

	srv := &http.Server{
		Addr:        net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Must outlast an in-request reindex of the full catalog
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Forced shutdown")
	}
	logger.Info().Msg("Server stopped")
}

// newLogger builds the process logger. Pretty output is for local
// development; production stays line-delimited JSON.
func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func newCacheBackend(cfg config.CacheConfig, logger zerolog.Logger) domain.CacheRepository {
	switch cfg.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.Addr).Msg("Failed to connect to Redis")
		}
		logger.Info().Str("addr", cfg.Addr).Msg("Redis cache connected")
		return redisCache
	case "none":
		logger.Warn().Msg("Embedding cache disabled, every query hits the provider")
		return cache.NewNoopCache()
	default:
		return cache.NewMemoryCache()
	}
}

func newEmbeddingProvider(cfg config.EmbeddingConfig, logger zerolog.Logger) domain.EmbeddingProvider {
	if cfg.Provider == "mock" {
		logger.Warn().Msg("Using the offline embedding provider, similarity quality will be poor")
		return embedding.NewMockProvider(cfg.Model, cfg.Dimension)
	}

	return embedding.NewClient(embedding.Config{
		BaseURL:           cfg.BaseURL,
		APIKey:            cfg.APIKey,
		Model:             cfg.Model,
		Dimension:         cfg.Dimension,
		BatchSize:         cfg.BatchSize,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}, logger)
}

// warmup installs the snapshot if one matches the configured model,
// otherwise builds the index from the catalog source. A failed build
// leaves the server running but unready; an admin reindex can recover it
// once the provider is back.
func warmup(manager *usecase.IndexManager, logger zerolog.Logger) {
	ctx := context.Background()

	count, err := manager.Restore(ctx)
	if err == nil {
		logger.Info().Int("products", count).Msg("Index restored from snapshot")
		return
	}
	if !errors.Is(err, domain.ErrSnapshotNotFound) {
		logger.Warn().Err(err).Msg("Snapshot restore failed, rebuilding from catalog")
	}

	count, err = manager.Rebuild(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Initial index build failed, serving unready")
		return
	}
	logger.Info().Int("products", count).Msg("Index built")
}
