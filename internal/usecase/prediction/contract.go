package prediction

import (
	"context"

	"github.com/kailas-cloud/symptomd/internal/domain/disease"
	"github.com/kailas-cloud/symptomd/internal/usecase/model"
)

// ModelProvider returns the live model.
type ModelProvider interface {
	Current(ctx context.Context) (*model.Model, error)
}

// StatsRecorder counts served predictions. Failures must not fail a prediction.
type StatsRecorder interface {
	Record(ctx context.Context, label disease.Label) error
}

// Extractor maps free text to vocabulary symptom names.
type Extractor interface {
	Extract(ctx context.Context, text string, vocabulary []string) ([]string, error)
}
