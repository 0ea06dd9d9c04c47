package symptomd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/symptomd/internal/db/redis"
	"github.com/kailas-cloud/symptomd/internal/domain"
	"github.com/kailas-cloud/symptomd/internal/domain/disease"
	domprediction "github.com/kailas-cloud/symptomd/internal/domain/prediction"
	domstats "github.com/kailas-cloud/symptomd/internal/domain/stats"
	"github.com/kailas-cloud/symptomd/internal/domain/symptom"
	"github.com/kailas-cloud/symptomd/internal/repository/extractcache"
	statsrepo "github.com/kailas-cloud/symptomd/internal/repository/stats"
	"github.com/kailas-cloud/symptomd/internal/transport/openai"
	healthuc "github.com/kailas-cloud/symptomd/internal/usecase/health"
	modeluc "github.com/kailas-cloud/symptomd/internal/usecase/model"
	predictionuc "github.com/kailas-cloud/symptomd/internal/usecase/prediction"
	statsuc "github.com/kailas-cloud/symptomd/internal/usecase/stats"
)

const (
	defaultReadinessTimeout  = 10 * time.Second
	defaultStatsPrefix       = domain.KeyPrefix
	defaultStatsRetention    = 30 * 24 * time.Hour
	defaultExtractorTimeout  = 10 * time.Second
	defaultExtractorCacheTTL = 24 * time.Hour
)

// Internal interfaces, swapped for fakes in tests.
type predictionUseCase interface {
	PredictText(ctx context.Context, symptoms []string, text string) (domprediction.Result, error)
	Vocabulary() symptom.Vocabulary
	Catalog() disease.Catalog
}

type modelUseCase interface {
	Load(ctx context.Context, trigger string) (*modeluc.Model, error)
	Status() modeluc.Status
}

type statsUseCase interface {
	Enabled() bool
	Report(ctx context.Context, period domstats.Period) (domstats.Report, error)
}

type closer interface {
	Close()
}

// Client is the symptomd SDK entry point.
type Client struct {
	predictSvc predictionUseCase
	modelSvc   modelUseCase
	statsSvc   statsUseCase
	healthSvc  healthUseCase
	store      closer
	obs        *observer
}

// New creates a Client and loads the model artifact.
// The provided context is used for the initial load and the Redis readiness check.
// A failed initial load is returned only with WithRequireModel; otherwise the
// client starts without a model and Predict reports ErrModelUnavailable until
// Reload (or lazy reload) succeeds.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		defaultDisease: domain.DefaultServingConfig().DefaultDisease,
		statsPrefix:    defaultStatsPrefix,
		statsTTL:       defaultStatsRetention,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.modelPath == "" {
		return nil, errors.New("symptomd: model path required (use WithModelPath)")
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var store *dbRedis.Store
	if cfg.redisAddr != "" {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    []string{cfg.redisAddr},
			Password: cfg.redisPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("symptomd: create redis store: %w", err)
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("symptomd: redis not ready: %w", err)
		}
	}

	c := wireClient(cfg, catalog, store, obs)

	if _, err := c.modelSvc.Load(ctx, modeluc.TriggerSDK); err != nil {
		if cfg.requireModel {
			c.Close()
			return nil, fmt.Errorf("symptomd: initial model load: %w", err)
		}
		if cfg.logger != nil {
			cfg.logger.Warn("starting without a model", "path", cfg.modelPath, "error", err)
		}
	}
	return c, nil
}

func loadCatalog(cfg *clientConfig) (disease.Catalog, error) {
	def := disease.Label(cfg.defaultDisease)
	if cfg.catalogPath == "" {
		catalog, err := disease.Default().WithDefault(def)
		if err != nil {
			return disease.Catalog{}, fmt.Errorf("symptomd: %w", err)
		}
		return catalog, nil
	}
	data, err := os.ReadFile(cfg.catalogPath)
	if err != nil {
		return disease.Catalog{}, fmt.Errorf("symptomd: read catalog: %w", err)
	}
	catalog, err := disease.ParseCatalog(data, def)
	if err != nil {
		return disease.Catalog{}, fmt.Errorf("symptomd: %w", err)
	}
	return catalog, nil
}

func wireClient(cfg *clientConfig, catalog disease.Catalog, store *dbRedis.Store, obs *observer) *Client {
	// Internal services log through zap; SDK callers get slog via the observer.
	logger := zap.NewNop()
	encoder := symptom.NewEncoder(symptom.Default())

	modelSvc := modeluc.New(cfg.modelPath, encoder, catalog, logger,
		modeluc.WithLazyReload(cfg.lazyReload))

	statsSvc := statsuc.New(nil)
	var dbPinger healthuc.DBPinger
	var cl closer
	if store != nil {
		statsSvc = statsuc.New(statsrepo.New(store, cfg.statsPrefix, cfg.statsTTL))
		dbPinger = store
		cl = store
	}

	var extractor predictionuc.Extractor
	var extractorCheck healthuc.Checker
	if cfg.extractor != nil {
		ext := openai.NewExtractor(&openai.Config{
			APIKey:  cfg.extractor.apiKey,
			BaseURL: cfg.extractor.baseURL,
			Model:   cfg.extractor.model,
			Timeout: defaultExtractorTimeout,
			Logger:  logger,
		})
		extractor = ext
		extractorCheck = ext
		if store != nil {
			cached := extractcache.New(ext, store, cfg.statsPrefix, defaultExtractorCacheTTL, nil, logger)
			extractor = cached
			extractorCheck = cached
		}
	}

	var recorder predictionuc.StatsRecorder
	if statsSvc.Enabled() {
		recorder = statsSvc
	}

	return &Client{
		predictSvc: predictionuc.New(encoder, catalog, modelSvc, recorder, extractor, logger),
		modelSvc:   modelSvc,
		statsSvc:   statsSvc,
		healthSvc:  healthuc.New(modelSvc, dbPinger, extractorCheck),
		store:      cl,
		obs:        obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}
