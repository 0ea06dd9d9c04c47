package prediction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/symptomd/internal/domain"
	"github.com/kailas-cloud/symptomd/internal/domain/disease"
	domprediction "github.com/kailas-cloud/symptomd/internal/domain/prediction"
	"github.com/kailas-cloud/symptomd/internal/domain/symptom"
	"github.com/kailas-cloud/symptomd/internal/metrics"
)

// Outcome labels for the predictions_total metric.
const (
	outcomeOK          = "ok"
	outcomeFallback    = "fallback"
	outcomeEmptyInput  = "empty_input"
	outcomeUnavailable = "unavailable"
	outcomeFailed      = "failed"
)

// Service is the prediction boundary: tokens in, one labeled result out.
type Service struct {
	encoder   *symptom.Encoder
	catalog   disease.Catalog
	models    ModelProvider
	stats     StatsRecorder
	extractor Extractor
	logger    *zap.Logger
	newID     func() string
}

// New creates a Service. stats and extractor can be nil.
func New(
	encoder *symptom.Encoder, catalog disease.Catalog, models ModelProvider,
	stats StatsRecorder, extractor Extractor, logger *zap.Logger,
) *Service {
	return &Service{
		encoder:   encoder,
		catalog:   catalog,
		models:    models,
		stats:     stats,
		extractor: extractor,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// Predict classifies a symptom set. Tokens must already be normalized;
// unknown tokens are ignored.
//
// Errors: domain.ErrEmptyInput when no token is recognized,
// domain.ErrModelUnavailable when no model is live,
// domain.ErrPredictionFailure for faults inside the classifier.
// A label without catalog metadata is replaced by the default label.
func (s *Service) Predict(ctx context.Context, tokens []string) (domprediction.Result, error) {
	vec, err := s.encoder.Encode(tokens)
	if err != nil {
		metrics.PredictionsTotal.WithLabelValues("", outcomeEmptyInput).Inc()
		return domprediction.Result{}, err //nolint:wrapcheck // already wraps domain.ErrEmptyInput
	}
	matched, ignored := s.encoder.Partition(tokens)

	m, err := s.models.Current(ctx)
	if err != nil {
		metrics.PredictionsTotal.WithLabelValues("", outcomeUnavailable).Inc()
		return domprediction.Result{}, fmt.Errorf("current model: %w", err)
	}

	start := time.Now()
	inf, err := m.Infer(vec)
	metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PredictionsTotal.WithLabelValues("", outcomeFailed).Inc()
		s.logger.Error("Prediction failed",
			zap.String("model_version", m.Version()),
			zap.Strings("symptoms", matched),
			zap.Error(err),
		)
		return domprediction.Result{}, fmt.Errorf("infer: %w", err)
	}

	info, fallback := s.catalog.Resolve(inf.Label)
	if fallback {
		metrics.LabelFallbacksTotal.WithLabelValues(string(inf.Label)).Inc()
		s.logger.Warn("Predicted label has no catalog entry, using default",
			zap.String("predicted", string(inf.Label)),
			zap.String("default", string(info.Label())),
			zap.String("model_version", m.Version()),
			zap.Error(domain.ErrLabelNotMapped),
		)
	}

	res, err := domprediction.New(domprediction.Params{
		ID:            s.newID(),
		Predicted:     inf.Label,
		Info:          info,
		Fallback:      fallback,
		Classes:       m.Classes(),
		Probabilities: inf.Probabilities,
		Matched:       matched,
		Ignored:       ignored,
		ModelVersion:  m.Version(),
	})
	if err != nil {
		metrics.PredictionsTotal.WithLabelValues("", outcomeFailed).Inc()
		return domprediction.Result{}, fmt.Errorf("build result: %w", err)
	}

	outcome := outcomeOK
	if fallback {
		outcome = outcomeFallback
	}
	metrics.PredictionsTotal.WithLabelValues(string(res.Disease()), outcome).Inc()
	metrics.PredictionConfidence.Observe(res.Confidence())

	s.record(ctx, res.Disease())
	return res, nil
}

// PredictText normalizes selected symptoms and free text, then predicts.
// Free text goes through the extractor when one is configured; on extractor
// failure it falls back to comma splitting.
func (s *Service) PredictText(ctx context.Context, symptoms []string, text string) (domprediction.Result, error) {
	tokens := symptom.NormalizeAll(symptoms)
	if strings.TrimSpace(text) != "" {
		tokens = append(tokens, s.textTokens(ctx, text)...)
	}
	return s.Predict(ctx, tokens)
}

func (s *Service) textTokens(ctx context.Context, text string) []string {
	split := symptom.NormalizeAll(symptom.SplitText(text))
	if s.extractor == nil {
		return split
	}
	extracted, err := s.extractor.Extract(ctx, text, s.encoder.Vocabulary().Names())
	if err != nil {
		level := zap.WarnLevel
		if errors.Is(err, domain.ErrExtractorUnavailable) {
			level = zap.DebugLevel
		}
		s.logger.Log(level, "Symptom extraction failed, using comma split", zap.Error(err))
		return split
	}
	return append(split, symptom.NormalizeAll(extracted)...)
}

func (s *Service) record(ctx context.Context, label disease.Label) {
	if s.stats == nil {
		return
	}
	if err := s.stats.Record(ctx, label); err != nil {
		metrics.StatsErrorsTotal.WithLabelValues("record").Inc()
		s.logger.Warn("Failed to record prediction stats",
			zap.String("disease", string(label)),
			zap.Error(err),
		)
	}
}

// Vocabulary returns the serving vocabulary.
func (s *Service) Vocabulary() symptom.Vocabulary { return s.encoder.Vocabulary() }

// Catalog returns the disease catalog used for guidance.
func (s *Service) Catalog() disease.Catalog { return s.catalog }
