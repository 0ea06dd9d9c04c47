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

	"go.uber.org/zap"

	"github.com/kailas-cloud/symptomd/internal/config"
	dbRedis "github.com/kailas-cloud/symptomd/internal/db/redis"
	"github.com/kailas-cloud/symptomd/internal/domain/disease"
	"github.com/kailas-cloud/symptomd/internal/domain/symptom"
	logpkg "github.com/kailas-cloud/symptomd/internal/logger"
	"github.com/kailas-cloud/symptomd/internal/metrics"
	"github.com/kailas-cloud/symptomd/internal/repository/extractcache"
	statsrepo "github.com/kailas-cloud/symptomd/internal/repository/stats"
	chiTransport "github.com/kailas-cloud/symptomd/internal/transport/chi"
	"github.com/kailas-cloud/symptomd/internal/transport/openai"
	healthuc "github.com/kailas-cloud/symptomd/internal/usecase/health"
	modeluc "github.com/kailas-cloud/symptomd/internal/usecase/model"
	predictionuc "github.com/kailas-cloud/symptomd/internal/usecase/prediction"
	statsuc "github.com/kailas-cloud/symptomd/internal/usecase/stats"
	"github.com/kailas-cloud/symptomd/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting symptomd API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("model_path", cfg.Model.Path),
		zap.Bool("stats_enabled", cfg.Database.Enabled()),
		zap.Bool("extractor_enabled", cfg.Extractor.Enabled),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterPredictionMetrics()

	ctx := context.Background()

	catalog, err := loadCatalog(cfg.Model)
	if err != nil {
		logger.Fatal("Invalid disease catalog", zap.Error(err))
	}
	encoder := symptom.NewEncoder(symptom.Default())

	// Optional Redis for prediction statistics.
	var (
		statsSvc = statsuc.New(nil)
		dbPinger healthuc.DBPinger
		kvStore  *dbRedis.Store
	)
	if cfg.Database.Enabled() {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database", zap.Strings("addrs", cfg.Database.Addrs))

		retention := time.Duration(cfg.Stats.RetentionDay) * 24 * time.Hour
		statsSvc = statsuc.New(statsrepo.New(store, cfg.Stats.KeyPrefix, retention))
		dbPinger = store
		kvStore = store
	}

	// Pass nil interfaces (not typed nil pointers) for disabled components.
	var (
		extractor      predictionuc.Extractor
		extractorCheck healthuc.Checker
	)
	if cfg.Extractor.Enabled {
		ext := openai.NewExtractor(&openai.Config{
			APIKey:          cfg.Extractor.APIKey,
			BaseURL:         cfg.Extractor.BaseURL,
			Model:           cfg.Extractor.Model,
			Timeout:         time.Duration(cfg.Extractor.TimeoutSec) * time.Second,
			BreakerFailures: uint32(cfg.Extractor.BreakerFailures), //nolint:gosec // validated positive
			BreakerOpen:     time.Duration(cfg.Extractor.BreakerOpenSec) * time.Second,
			Logger:          logger,
		})
		extractor = ext
		extractorCheck = ext
		if ttl := cfg.Extractor.CacheTTL(); kvStore != nil && ttl > 0 {
			cached := extractcache.New(ext, kvStore, cfg.Stats.KeyPrefix, ttl, metrics.ExtractorCacheTotal, logger)
			extractor = cached
			extractorCheck = cached
		}
		logger.Info("Symptom extractor enabled",
			zap.String("model", cfg.Extractor.Model),
			zap.Duration("cache_ttl", cfg.Extractor.CacheTTL()),
		)
	}

	var recorder predictionuc.StatsRecorder
	if statsSvc.Enabled() {
		recorder = statsSvc
	}

	models := modeluc.New(cfg.Model.Path, encoder, catalog, logger,
		modeluc.WithLazyReload(cfg.Model.LazyReloadInterval()))
	if _, err := models.Load(ctx, modeluc.TriggerStartup); err != nil {
		if cfg.Model.RequireOnStart {
			logger.Fatal("Model required on start", zap.Error(err))
		}
		logger.Warn("Serving without a model until reload succeeds", zap.Error(err))
	}

	predictions := predictionuc.New(encoder, catalog, models, recorder, extractor, logger)
	healthSvc := healthuc.New(models, dbPinger, extractorCheck)

	retryAfter := cfg.Model.LazyReloadInterval()
	server := chiTransport.NewServer(predictions, models, statsSvc, healthSvc, logger)
	if retryAfter > 0 {
		server = server.WithRetryAfter(retryAfter)
	}

	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys:           cfg.Auth.APIKeys,
		AdminKeys:         cfg.Auth.AdminKeys,
		AllowedOrigins:    cfg.CORS.AllowedOrigins,
		CORSMaxAgeSec:     cfg.CORS.MaxAgeSec,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		MaxBodyBytes:      int64(cfg.HTTP.MaxBodyBytes),
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// SIGHUP reloads the model; SIGINT/SIGTERM shut down.
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	go func() {
		for range reload {
			logger.Info("Received reload signal")
			_, _ = models.Load(ctx, modeluc.TriggerSignal) // outcome logged by the model service
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")
	signal.Stop(reload)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// loadCatalog returns the built-in catalog or the configured YAML file,
// with the configured default disease as fallback label.
func loadCatalog(cfg config.ModelConfig) (disease.Catalog, error) {
	def := disease.Label(cfg.DefaultDisease)
	if cfg.CatalogPath == "" {
		c, err := disease.Default().WithDefault(def)
		if err != nil {
			return disease.Catalog{}, fmt.Errorf("default catalog: %w", err)
		}
		return c, nil
	}
	data, err := os.ReadFile(cfg.CatalogPath)
	if err != nil {
		return disease.Catalog{}, fmt.Errorf("read catalog %s: %w", cfg.CatalogPath, err)
	}
	c, err := disease.ParseCatalog(data, def)
	if err != nil {
		return disease.Catalog{}, fmt.Errorf("catalog %s: %w", cfg.CatalogPath, err)
	}
	return c, nil
}
