package model

import "github.com/kailas-cloud/symptomd/internal/classifier/artifact"

// Predictor returns the most probable class for a feature vector.
type Predictor interface {
	Predict(x []uint8) (string, error)
}

// ProbabilityPredictor returns one probability per class, in Classes order.
type ProbabilityPredictor interface {
	PredictProba(x []uint8) ([]float64, error)
	Classes() []string
}

// ArtifactLoader reads a model artifact from storage.
type ArtifactLoader interface {
	Load(path string) (*artifact.Artifact, error)
}

// LoaderFunc adapts a function to ArtifactLoader.
type LoaderFunc func(path string) (*artifact.Artifact, error)

// Load calls f(path).
func (f LoaderFunc) Load(path string) (*artifact.Artifact, error) { return f(path) }
