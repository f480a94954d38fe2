package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/brandonnguyen11/rosterAI/migrations"
	"github.com/brandonnguyen11/rosterAI/pkg/config"
	"github.com/brandonnguyen11/rosterAI/pkg/database"
	"github.com/brandonnguyen11/rosterAI/pkg/events"
	"github.com/brandonnguyen11/rosterAI/pkg/handlers"
	"github.com/brandonnguyen11/rosterAI/pkg/insights"
	"github.com/brandonnguyen11/rosterAI/pkg/logging"
	"github.com/brandonnguyen11/rosterAI/pkg/metrics"
	"github.com/brandonnguyen11/rosterAI/pkg/middleware"
	"github.com/brandonnguyen11/rosterAI/pkg/models"
	"github.com/brandonnguyen11/rosterAI/pkg/news"
	"github.com/brandonnguyen11/rosterAI/pkg/normalize"
	"github.com/brandonnguyen11/rosterAI/pkg/remote"
	"github.com/brandonnguyen11/rosterAI/pkg/repositories"
	"github.com/brandonnguyen11/rosterAI/pkg/roster"
	"github.com/brandonnguyen11/rosterAI/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Configuration loaded",
		zap.String("version", cfg.Version),
		zap.String("listen_addr", cfg.ListenAddr()),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.Bool("insights_enabled", cfg.Insights.Enabled()),
		zap.Bool("news_enabled", cfg.News.Enabled()),
	)

	m := metrics.New()

	kv, err := openKeyValueStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logger.Warn("Failed to close storage", zap.Error(err))
		}
	}()

	store := roster.NewStore(kv, cfg.Storage.Namespace, logger)
	if _, err := store.LoadPersisted(ctx); err != nil {
		return fmt.Errorf("failed to load stored roster: %w", err)
	}
	summary := roster.Summarize(store.Current())
	m.SetRosterSize(summary.ActiveCount, summary.BenchCount)

	extraAliases, err := normalize.LoadAliasFile(cfg.Normalizer.AliasesFile)
	if err != nil {
		return err
	}
	normalizer := normalize.NewNormalizer(extraAliases, logger)

	insightsRemote := remote.NewClient(remote.ClientConfig{
		Service: "insights",
		BaseURL: cfg.Insights.BaseURL,
		Timeout: cfg.Insights.Timeout,
	}, m, logger)
	newsRemote := remote.NewClient(remote.ClientConfig{
		Service: "news",
		BaseURL: cfg.News.BaseURL,
		Timeout: cfg.News.Timeout,
	}, m, logger)

	importService := services.NewImportService(store, normalizer, m, logger)
	rosterService := services.NewRosterService(store, m, logger)
	insightService := services.NewInsightService(store, insights.NewClient(insightsRemote, logger), m, logger)
	defer insightService.Close()
	newsService := services.NewNewsService(store, news.NewClient(newsRemote, logger), m, logger)
	defer newsService.Close()

	hub := events.NewHub(m, logger)
	defer hub.Close()
	unsubscribe := store.Subscribe(func(s models.RosterSnapshot) {
		hub.BroadcastRoster(services.BuildRosterView(s))
	})
	defer unsubscribe()

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger, insightsRemote, newsRemote).RegisterRoutes(mux)
	handlers.NewRosterHandler(importService, rosterService, logger).RegisterRoutes(mux)
	handlers.NewInsightsHandler(insightService, logger).RegisterRoutes(mux)
	handlers.NewNewsHandler(newsService, logger).RegisterRoutes(mux)
	handlers.NewRosterEventsHandler(ctx, hub, rosterService, cfg.CORS.AllowedOrigins, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", m.Handler())

	var handler http.Handler = mux
	handler = middleware.RequestMetrics(m)(handler)
	handler = middleware.RequestLogger(logger)(handler)
	handler = cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})(handler)

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting rosterai-engine", zap.String("addr", server.Addr), zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server shutdown error", zap.Error(err))
	}
	logger.Info("Shutdown complete")
	return nil
}

// openKeyValueStore connects the configured storage backend. The postgres
// backend runs pending migrations before use.
func openKeyValueStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.KeyValueStore, error) {
	switch cfg.Storage.Backend {
	case repositories.BackendMemory:
		logger.Warn("Using in-memory storage; the roster will not survive a restart")
		return repositories.NewMemoryKeyValueStore(), nil

	case repositories.BackendFile:
		kv, err := repositories.NewFileKeyValueStore(cfg.Storage.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open file storage: %w", err)
		}
		logger.Info("Using file storage", zap.String("path", cfg.Storage.FilePath))
		return kv, nil

	case repositories.BackendRedis:
		client, err := database.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		logger.Info("Using Redis storage", zap.String("addr", cfg.Redis.Addr()), zap.Int("db", cfg.Redis.DB))
		return repositories.NewRedisKeyValueStore(client), nil

	case repositories.BackendPostgres:
		db, err := database.NewConnection(ctx, &database.Config{
			URL:            cfg.Database.ConnectionString(),
			MaxConnections: cfg.Database.MaxConnections,
		}, logger)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(db.SQLDB(), migrations.FS, logger); err != nil {
			db.Close()
			return nil, err
		}
		return repositories.NewPostgresKeyValueStore(db), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
