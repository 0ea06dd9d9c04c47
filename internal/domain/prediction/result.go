package prediction

import (
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/symptomd/internal/domain"
	"github.com/kailas-cloud/symptomd/internal/domain/disease"
)

// Confidence converts a probability distribution into a percentage:
// max(p) * 100, rounded to 2 decimals. Empty or non-finite input is a
// prediction failure.
func Confidence(probs []float64) (float64, error) {
	if len(probs) == 0 {
		return 0, fmt.Errorf("empty probability distribution: %w", domain.ErrPredictionFailure)
	}
	best := math.Inf(-1)
	for i, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 || p > 1 {
			return 0, fmt.Errorf("probability[%d]=%v out of range: %w", i, p, domain.ErrPredictionFailure)
		}
		if p > best {
			best = p
		}
	}
	return math.Round(best*100*100) / 100, nil
}

// ClassProbability is one entry of the per-class distribution.
type ClassProbability struct {
	Label       disease.Label
	Probability float64
}

// Params carries everything needed to build a Result.
type Params struct {
	ID            string
	Predicted     disease.Label
	Info          disease.Info
	Fallback      bool
	Classes       []disease.Label
	Probabilities []float64
	Matched       []string
	Ignored       []string
	ModelVersion  string
}

// Result is the outcome of one prediction (immutable value object).
type Result struct {
	id              string
	disease         disease.Label
	predicted       disease.Label
	confidence      float64
	distribution    []ClassProbability
	recommendations []string
	precautions     []string
	whenToSeeDoctor string
	specialization  string
	matched         []string
	ignored         []string
	fallback        bool
	modelVersion    string
}

// New validates the distribution and builds a Result.
// The reported disease is the catalog entry's label, which differs from the
// raw prediction when the fallback was applied.
func New(p Params) (Result, error) {
	if len(p.Classes) != len(p.Probabilities) {
		return Result{}, fmt.Errorf("%d classes vs %d probabilities: %w",
			len(p.Classes), len(p.Probabilities), domain.ErrPredictionFailure)
	}
	conf, err := Confidence(p.Probabilities)
	if err != nil {
		return Result{}, err
	}

	dist := make([]ClassProbability, len(p.Classes))
	for i, c := range p.Classes {
		dist[i] = ClassProbability{Label: c, Probability: p.Probabilities[i]}
	}
	sort.SliceStable(dist, func(i, j int) bool { return dist[i].Probability > dist[j].Probability })

	return Result{
		id:              p.ID,
		disease:         p.Info.Label(),
		predicted:       p.Predicted,
		confidence:      conf,
		distribution:    dist,
		recommendations: p.Info.Recommendations(),
		precautions:     p.Info.Precautions(),
		whenToSeeDoctor: p.Info.WhenToSeeDoctor(),
		specialization:  p.Info.Specialization(),
		matched:         p.Matched,
		ignored:         p.Ignored,
		fallback:        p.Fallback,
		modelVersion:    p.ModelVersion,
	}, nil
}

// ID returns the prediction identifier.
func (r Result) ID() string { return r.id }

// Disease returns the reported label (after fallback).
func (r Result) Disease() disease.Label { return r.disease }

// Predicted returns the raw label produced by the classifier.
func (r Result) Predicted() disease.Label { return r.predicted }

// Confidence returns the confidence percentage in [0, 100].
func (r Result) Confidence() float64 { return r.confidence }

// Distribution returns the per-class probabilities, highest first.
func (r Result) Distribution() []ClassProbability {
	out := make([]ClassProbability, len(r.distribution))
	copy(out, r.distribution)
	return out
}

// Recommendations returns the ordered recommendations.
func (r Result) Recommendations() []string { return r.recommendations }

// Precautions returns the ordered precautions.
func (r Result) Precautions() []string { return r.precautions }

// WhenToSeeDoctor returns the doctor-visit guidance.
func (r Result) WhenToSeeDoctor() string { return r.whenToSeeDoctor }

// Specialization returns the doctor specialization to consult.
func (r Result) Specialization() string { return r.specialization }

// Matched returns the recognized input symptoms.
func (r Result) Matched() []string { return r.matched }

// Ignored returns the input tokens outside the vocabulary.
func (r Result) Ignored() []string { return r.ignored }

// Fallback reports whether the default label replaced an unmapped prediction.
func (r Result) Fallback() bool { return r.fallback }

// ModelVersion returns the identifier of the model that produced the result.
func (r Result) ModelVersion() string { return r.modelVersion }
