package symptomd

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	modelPath      string
	catalogPath    string
	defaultDisease string
	requireModel   bool
	lazyReload     time.Duration

	redisAddr     string
	redisPassword string
	statsPrefix   string
	statsTTL      time.Duration

	extractor *extractorConfig

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

type extractorConfig struct {
	apiKey  string
	baseURL string
	model   string
}

// WithModelPath sets the model artifact path. Required.
func WithModelPath(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.modelPath = path
	})
}

// WithCatalogFile replaces the built-in disease catalog with a YAML file.
func WithCatalogFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogPath = path
	})
}

// WithDefaultDisease sets the label used when the model predicts a disease
// that has no catalog entry. Default: "Common Cold".
func WithDefaultDisease(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultDisease = name
	})
}

// WithRequireModel makes New fail when the initial model load fails.
// By default the client starts without a model and reports ErrModelUnavailable.
func WithRequireModel() Option {
	return optionFunc(func(c *clientConfig) {
		c.requireModel = true
	})
}

// WithLazyReload retries loading a missing model on Predict, at most once per interval.
func WithLazyReload(interval time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.lazyReload = interval
	})
}

// WithRedis enables prediction statistics stored in Redis.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddr = addr
		c.redisPassword = password
	})
}

// WithStatsRetention sets the key prefix and daily-bucket retention for statistics.
// Defaults: "symptomd:", 30 days.
func WithStatsRetention(prefix string, retention time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.statsPrefix = prefix
		c.statsTTL = retention
	})
}

// WithOpenAIExtractor enables free-text symptom extraction through an
// OpenAI-compatible chat API. An empty baseURL uses the OpenAI default.
// With WithRedis, results are cached for a day.
func WithOpenAIExtractor(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.extractor = &extractorConfig{apiKey: apiKey, baseURL: baseURL, model: model}
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
