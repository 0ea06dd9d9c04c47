package model

import (
	"fmt"
	"math"
	"time"

	"github.com/kailas-cloud/symptomd/internal/classifier/artifact"
	"github.com/kailas-cloud/symptomd/internal/domain"
	"github.com/kailas-cloud/symptomd/internal/domain/disease"
	"github.com/kailas-cloud/symptomd/internal/domain/symptom"
)

// Model is a verified classifier ready to serve. Immutable.
type Model struct {
	version   string
	kind      string
	path      string
	classes   []disease.Label
	unmapped  []disease.Label
	predictor Predictor
	proba     ProbabilityPredictor
	vocab     symptom.Vocabulary
	training  artifact.TrainingInfo
	loadedAt  time.Time
}

// Version returns the artifact content hash.
func (m *Model) Version() string { return m.version }

// Kind returns the artifact kind.
func (m *Model) Kind() string { return m.kind }

// Path returns the artifact path the model was loaded from.
func (m *Model) Path() string { return m.path }

// Classes returns the labels the model can emit.
func (m *Model) Classes() []disease.Label {
	out := make([]disease.Label, len(m.classes))
	copy(out, m.classes)
	return out
}

// Unmapped returns the model classes without a catalog entry.
func (m *Model) Unmapped() []disease.Label { return m.unmapped }

// Vocabulary returns the vocabulary the model was trained on.
func (m *Model) Vocabulary() symptom.Vocabulary { return m.vocab }

// Training returns the artifact's training metadata.
func (m *Model) Training() artifact.TrainingInfo { return m.training }

// LoadedAt returns when the model went live.
func (m *Model) LoadedAt() time.Time { return m.loadedAt }

// Inference is the raw classifier output for one vector.
type Inference struct {
	Label         disease.Label
	Probabilities []float64
}

// Infer runs both capabilities on x. Panics and malformed output are
// returned as domain.ErrPredictionFailure.
func (m *Model) Infer(x symptom.Vector) (inf Inference, err error) {
	defer func() {
		if r := recover(); r != nil {
			inf = Inference{}
			err = fmt.Errorf("classifier panic: %v: %w", r, domain.ErrPredictionFailure)
		}
	}()

	label, err := m.predictor.Predict(x)
	if err != nil {
		return Inference{}, fmt.Errorf("predict: %w: %w", domain.ErrPredictionFailure, err)
	}
	probs, err := m.proba.PredictProba(x)
	if err != nil {
		return Inference{}, fmt.Errorf("predict proba: %w: %w", domain.ErrPredictionFailure, err)
	}
	if len(probs) != len(m.classes) {
		return Inference{}, fmt.Errorf("%d probabilities for %d classes: %w",
			len(probs), len(m.classes), domain.ErrPredictionFailure)
	}
	sum := 0.0
	for _, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return Inference{}, fmt.Errorf("non-finite probability: %w", domain.ErrPredictionFailure)
		}
		sum += p
	}
	if math.Abs(sum-1) > 1e-6 {
		return Inference{}, fmt.Errorf("probabilities sum to %v: %w", sum, domain.ErrPredictionFailure)
	}
	return Inference{Label: disease.Label(label), Probabilities: probs}, nil
}
