package extractcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/symptomd/internal/db"
)

// Extractor maps free text to vocabulary symptom names.
type Extractor interface {
	Extract(ctx context.Context, text string, vocabulary []string) ([]string, error)
}

// store is the consumer interface for the extraction cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedExtractor caches extraction results in a key-value store.
// Entries are keyed by text and vocabulary, so a vocabulary change never
// serves stale symptom names.
type CachedExtractor struct {
	inner      Extractor
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Extractor,
	s store,
	prefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedExtractor {
	return &CachedExtractor{
		inner:      inner,
		store:      s,
		prefix:     prefix,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Extract returns cached symptoms or calls the inner extractor.
// Errors are never cached; cache failures only cost a round-trip.
func (c *CachedExtractor) Extract(ctx context.Context, text string, vocabulary []string) ([]string, error) {
	key := c.cacheKey(text, vocabulary)

	if symptoms, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return symptoms, nil
	}

	c.incCache("miss")

	symptoms, err := c.inner.Extract(ctx, text, vocabulary)
	if err != nil {
		return nil, fmt.Errorf("extract symptoms: %w", err)
	}

	c.putToCache(ctx, key, symptoms)
	return symptoms, nil
}

// HealthCheck delegates to the inner extractor when it supports health checks.
func (c *CachedExtractor) HealthCheck(ctx context.Context) error {
	hc, ok := c.inner.(interface{ HealthCheck(context.Context) error })
	if !ok {
		return nil
	}
	if err := hc.HealthCheck(ctx); err != nil {
		return fmt.Errorf("extractor health check: %w", err)
	}
	return nil
}

func (c *CachedExtractor) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedExtractor) cacheKey(text string, vocabulary []string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(vocabulary, ",")))
	h.Write([]byte{0})
	h.Write([]byte(strings.TrimSpace(text)))
	return c.prefix + "extract_cache:" + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedExtractor) getFromCache(ctx context.Context, key string) ([]string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached extraction", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var symptoms []string
	if err := json.Unmarshal(data, &symptoms); err != nil {
		c.logger.Warn("Failed to parse cached extraction", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return symptoms, true
}

func (c *CachedExtractor) putToCache(ctx context.Context, key string, symptoms []string) {
	if symptoms == nil {
		symptoms = []string{}
	}
	data, err := json.Marshal(symptoms)
	if err != nil {
		c.logger.Warn("Failed to encode extraction", zap.Error(err))
		return
	}
	if c.ttl > 0 {
		err = c.store.SetWithTTL(ctx, key, data, c.ttl)
	} else {
		err = c.store.Set(ctx, key, data)
	}
	if err != nil {
		c.logger.Warn("Failed to cache extraction", zap.String("key", key), zap.Error(err))
	}
}
