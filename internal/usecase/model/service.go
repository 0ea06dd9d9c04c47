package model

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/symptomd/internal/classifier/artifact"
	"github.com/kailas-cloud/symptomd/internal/domain"
	"github.com/kailas-cloud/symptomd/internal/domain/disease"
	"github.com/kailas-cloud/symptomd/internal/domain/symptom"
	"github.com/kailas-cloud/symptomd/internal/metrics"
)

// SelfTestSymptom is the single symptom used to smoke-test a freshly loaded model.
const SelfTestSymptom = "fever"

// Load triggers, used as metric labels.
const (
	TriggerStartup = "startup"
	TriggerAPI     = "api"
	TriggerSignal  = "signal"
	TriggerLazy    = "lazy"
	TriggerSDK     = "sdk"
)

// Status describes the registry state for admin and health endpoints.
type Status struct {
	Available bool
	Path      string
	Model     *Model
	LastError string
	LastTry   time.Time
}

type failure struct {
	err error
	at  time.Time
}

// Service owns the live model reference. Predictions read it lock-free;
// reloads are serialized and swap the reference only after full verification.
type Service struct {
	path    string
	encoder *symptom.Encoder
	catalog disease.Catalog
	loader  ArtifactLoader
	logger  *zap.Logger
	limiter *rate.Limiter
	now     func() time.Time

	current atomic.Pointer[Model]
	lastErr atomic.Pointer[failure]
	mu      sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithLoader overrides the artifact loader (default artifact.Load).
func WithLoader(l ArtifactLoader) Option {
	return func(s *Service) { s.loader = l }
}

// WithLazyReload enables an on-demand load attempt from Current while no
// model is live, at most once per interval.
func WithLazyReload(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.limiter = rate.NewLimiter(rate.Every(interval), 1)
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service. No model is loaded until Load is called.
func New(path string, encoder *symptom.Encoder, catalog disease.Catalog, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		path:    path,
		encoder: encoder,
		catalog: catalog,
		loader:  LoaderFunc(artifact.Load),
		logger:  logger,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load reads, verifies and activates the artifact. On failure the previous
// model (if any) keeps serving and the error wraps domain.ErrModelUnavailable.
func (s *Service) Load(ctx context.Context, trigger string) (*Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx, trigger)
}

// TryLoad is Load without waiting: returns domain.ErrReloadInProgress when
// another load holds the lock.
func (s *Service) TryLoad(ctx context.Context, trigger string) (*Model, error) {
	if !s.mu.TryLock() {
		return nil, domain.ErrReloadInProgress
	}
	defer s.mu.Unlock()
	return s.loadLocked(ctx, trigger)
}

func (s *Service) loadLocked(ctx context.Context, trigger string) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	start := s.now()

	m, err := s.build()
	if err != nil {
		s.lastErr.Store(&failure{err: err, at: start})
		metrics.ModelLoadsTotal.WithLabelValues(trigger, "error").Inc()
		s.logger.Error("Model load failed",
			zap.String("path", s.path),
			zap.String("trigger", trigger),
			zap.Bool("serving_previous", s.current.Load() != nil),
			zap.Error(err),
		)
		return nil, domain.NewModelUnavailable(s.path, err)
	}

	prev := s.current.Swap(m)
	s.lastErr.Store(nil)
	metrics.ModelLoadsTotal.WithLabelValues(trigger, "ok").Inc()
	metrics.ModelAvailable.Set(1)

	fields := []zap.Field{
		zap.String("path", s.path),
		zap.String("trigger", trigger),
		zap.String("version", m.version),
		zap.String("kind", m.kind),
		zap.Int("classes", len(m.classes)),
		zap.Duration("duration", s.now().Sub(start)),
	}
	if prev != nil {
		fields = append(fields, zap.String("previous_version", prev.version))
	}
	s.logger.Info("Model loaded", fields...)
	return m, nil
}

// build loads the artifact and checks capabilities, vocabulary and a self-test inference.
func (s *Service) build() (*Model, error) {
	art, err := s.loader.Load(s.path)
	if err != nil {
		return nil, fmt.Errorf("load artifact: %w", err)
	}

	predictor, ok := art.Model.(Predictor)
	if !ok {
		return nil, fmt.Errorf("%s model has no predict capability: %w", art.Kind, domain.ErrInvalidArtifact)
	}
	proba, ok := art.Model.(ProbabilityPredictor)
	if !ok {
		return nil, fmt.Errorf("%s model has no probability capability: %w", art.Kind, domain.ErrInvalidArtifact)
	}

	serving := s.encoder.Vocabulary()
	if !art.Vocabulary.Equal(serving) || art.Vocabulary.Checksum() != serving.Checksum() {
		return nil, fmt.Errorf("artifact vocabulary %s/%s, serving %s/%s: %w",
			art.Vocabulary.Version(), short(art.Vocabulary.Checksum()),
			serving.Version(), short(serving.Checksum()), domain.ErrVocabularyMismatch)
	}

	names := proba.Classes()
	if len(names) == 0 {
		return nil, fmt.Errorf("model has no classes: %w", domain.ErrInvalidArtifact)
	}
	classes := make([]disease.Label, len(names))
	for i, n := range names {
		classes[i] = disease.Label(n)
	}

	m := &Model{
		version:   art.Version,
		kind:      art.Kind,
		path:      s.path,
		classes:   classes,
		unmapped:  s.catalog.Missing(classes),
		predictor: predictor,
		proba:     proba,
		vocab:     art.Vocabulary,
		training:  art.Training,
		loadedAt:  s.now(),
	}
	if len(m.unmapped) > 0 {
		s.logger.Warn("Model emits labels without catalog entries",
			zap.Any("labels", m.unmapped),
			zap.String("fallback", string(s.catalog.DefaultLabel())),
		)
	}

	probe, err := s.encoder.Single(SelfTestSymptom)
	if err != nil {
		return nil, fmt.Errorf("self-test vector: %w", err)
	}
	if _, err := m.Infer(probe); err != nil {
		return nil, fmt.Errorf("self-test: %w", err)
	}
	return m, nil
}

// Current returns the live model or a domain.ModelUnavailableError.
// With lazy reload enabled, a missing model triggers a throttled,
// non-blocking load attempt.
func (s *Service) Current(ctx context.Context) (*Model, error) {
	if m := s.current.Load(); m != nil {
		return m, nil
	}
	if s.limiter != nil && s.limiter.Allow() {
		m, err := s.TryLoad(ctx, TriggerLazy)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, domain.ErrReloadInProgress) {
			return nil, err
		}
	}
	return nil, domain.NewModelUnavailable(s.path, s.lastError())
}

// Status reports whether a model is live and the last load error.
func (s *Service) Status() Status {
	st := Status{Path: s.path, Model: s.current.Load()}
	st.Available = st.Model != nil
	if f := s.lastErr.Load(); f != nil {
		st.LastError = f.err.Error()
		st.LastTry = f.at
	}
	return st
}

// HealthCheck returns an error when no model is live.
func (s *Service) HealthCheck(_ context.Context) error {
	if s.current.Load() == nil {
		return domain.NewModelUnavailable(s.path, s.lastError())
	}
	return nil
}

func (s *Service) lastError() error {
	if f := s.lastErr.Load(); f != nil {
		return f.err
	}
	return nil
}

func short(checksum string) string {
	if len(checksum) > 12 {
		return checksum[:12]
	}
	return checksum
}
