package model

import (
	"errors"
	"sync/atomic"

	"github.com/kailas-cloud/symptomd/internal/classifier/artifact"
	"github.com/kailas-cloud/symptomd/internal/domain/disease"
	"github.com/kailas-cloud/symptomd/internal/domain/symptom"
)

// --- Mocks ---

type stubModel struct {
	label   string
	classes []string
	probs   []float64
	err     error
	panics  bool
}

func (m *stubModel) Predict(_ []uint8) (string, error) {
	if m.panics {
		panic("index out of range")
	}
	return m.label, m.err
}

func (m *stubModel) PredictProba(_ []uint8) ([]float64, error) {
	return m.probs, m.err
}

func (m *stubModel) Classes() []string { return m.classes }

type predictOnly struct{}

func (predictOnly) Predict(_ []uint8) (string, error) { return "Flu", nil }

type probaOnly struct{}

func (probaOnly) PredictProba(_ []uint8) ([]float64, error) { return []float64{1}, nil }
func (probaOnly) Classes() []string                       { return []string{"Flu"} }

func fluModel() *stubModel {
	return &stubModel{
		label:   string(disease.Flu),
		classes: []string{string(disease.CommonCold), string(disease.Flu)},
		probs:   []float64{0.3, 0.7},
	}
}

func stubArtifact(m any) *artifact.Artifact {
	return &artifact.Artifact{
		Kind:       "stub",
		Version:    "abc123",
		Vocabulary: symptom.Default(),
		Model:      m,
	}
}

// swapLoader returns whatever artifact or error is currently stored and counts calls.
type swapLoader struct {
	art   atomic.Pointer[artifact.Artifact]
	err   atomic.Pointer[error]
	calls atomic.Int32
}

func (l *swapLoader) Load(_ string) (*artifact.Artifact, error) {
	l.calls.Add(1)
	if e := l.err.Load(); e != nil {
		return nil, *e
	}
	if a := l.art.Load(); a != nil {
		return a, nil
	}
	return nil, errors.New("nothing to load")
}

func (l *swapLoader) set(a *artifact.Artifact) {
	l.err.Store(nil)
	l.art.Store(a)
}

func (l *swapLoader) fail(err error) {
	l.err.Store(&err)
}
