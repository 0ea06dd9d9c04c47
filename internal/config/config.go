package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/symptomd/internal/domain"
)

// Config holds the symptomd service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Model     ModelConfig     `yaml:"model"`
	Auth      AuthConfig      `yaml:"auth"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Stats     StatsConfig     `yaml:"stats"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. Empty APIKeys disables auth.
// Admin endpoints require one of AdminKeys; with none configured they fall back to APIKeys.
type AuthConfig struct {
	APIKeys   []string `yaml:"api_keys"`
	AdminKeys []string `yaml:"admin_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	MaxBodyBytes    int `yaml:"max_body_bytes"`
}

// DatabaseConfig holds the optional Redis connection used for prediction statistics.
// No addrs means statistics are disabled.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis (default)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether a database is configured.
func (d DatabaseConfig) Enabled() bool { return len(d.Addrs) > 0 }

// ModelConfig holds classifier artifact settings.
type ModelConfig struct {
	Path           string `yaml:"path"`
	DefaultDisease string `yaml:"default_disease"`
	CatalogPath    string `yaml:"catalog_path"`     // optional YAML catalog overriding the built-in one
	LazyReloadSec  int    `yaml:"lazy_reload_sec"`  // 0 disables on-demand reload
	RequireOnStart bool   `yaml:"require_on_start"` // exit when the startup load fails
}

// LazyReloadInterval returns the on-demand reload throttle.
func (m ModelConfig) LazyReloadInterval() time.Duration {
	return time.Duration(m.LazyReloadSec) * time.Second
}

// CORSConfig holds cross-origin settings. Empty AllowedOrigins disables CORS handling.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxAgeSec      int      `yaml:"max_age_sec"`
}

// RateLimitConfig holds per-IP rate limiting. Zero disables limiting.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// ExtractorConfig holds the OpenAI-compatible free-text symptom extractor settings.
type ExtractorConfig struct {
	Enabled         bool   `yaml:"enabled"`
	APIKey          string `yaml:"api_key"`
	BaseURL         string `yaml:"base_url"`
	Model           string `yaml:"model"`
	TimeoutSec      int    `yaml:"timeout_sec"`
	BreakerFailures int    `yaml:"breaker_failures"`
	BreakerOpenSec  int    `yaml:"breaker_open_sec"`
	// CacheTTLSec is how long extraction results stay cached in the database.
	// Caching needs database.addrs; 0 applies the default, negative disables it.
	CacheTTLSec int `yaml:"cache_ttl_sec"`
}

// CacheTTL returns the extraction cache lifetime, 0 when caching is disabled.
func (e ExtractorConfig) CacheTTL() time.Duration {
	if e.CacheTTLSec < 0 {
		return 0
	}
	return time.Duration(e.CacheTTLSec) * time.Second
}

// StatsConfig holds prediction statistics settings.
type StatsConfig struct {
	KeyPrefix    string `yaml:"key_prefix"`
	RetentionDay int    `yaml:"retention_days"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse expands ${VAR} references, decodes YAML, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		c.HTTP.MaxBodyBytes = 64 << 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "redis"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	serving := domain.DefaultServingConfig()
	if c.Model.Path == "" {
		c.Model.Path = serving.ModelPath
	}
	if c.Model.DefaultDisease == "" {
		c.Model.DefaultDisease = serving.DefaultDisease
	}
	if c.CORS.MaxAgeSec <= 0 {
		c.CORS.MaxAgeSec = 300
	}
	if c.Extractor.Model == "" {
		c.Extractor.Model = "gpt-4o-mini"
	}
	if c.Extractor.TimeoutSec <= 0 {
		c.Extractor.TimeoutSec = 10
	}
	if c.Extractor.BreakerFailures <= 0 {
		c.Extractor.BreakerFailures = 5
	}
	if c.Extractor.BreakerOpenSec <= 0 {
		c.Extractor.BreakerOpenSec = 30
	}
	if c.Extractor.CacheTTLSec == 0 {
		c.Extractor.CacheTTLSec = 86400
	}
	if c.Stats.KeyPrefix == "" {
		c.Stats.KeyPrefix = domain.KeyPrefix
	}
	if c.Stats.RetentionDay <= 0 {
		c.Stats.RetentionDay = 30
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.Driver != "redis" {
		return fmt.Errorf("database.driver must be \"redis\", got %q", c.Database.Driver)
	}
	if c.Model.LazyReloadSec < 0 {
		return fmt.Errorf("model.lazy_reload_sec must be >= 0, got %d", c.Model.LazyReloadSec)
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be >= 0, got %d", c.RateLimit.RequestsPerMinute)
	}
	if c.Extractor.Enabled && c.Extractor.APIKey == "" {
		return fmt.Errorf("extractor.api_key is required when extractor is enabled")
	}
	for _, k := range c.Auth.AdminKeys {
		if k == "" {
			return fmt.Errorf("auth.admin_keys must not contain empty keys")
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
