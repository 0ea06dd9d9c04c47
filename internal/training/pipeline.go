package training

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/symptomd/internal/classifier/artifact"
	"github.com/kailas-cloud/symptomd/internal/classifier/forest"
)

// DefaultSamples is the synthetic dataset size. The narrowest rule region
// (Flu) covers 1/32 of the space, so this leaves ~190 rows for it.
const DefaultSamples = 6000

// Report summarizes a fitted model.
type Report struct {
	Samples  int
	Classes  []string
	Counts   map[string]int
	Accuracy float64
	Duration time.Duration
}

// Fit trains a forest on ds and measures accuracy on the training rows.
func Fit(ctx context.Context, ds *Dataset, cfg forest.Config) (*forest.Forest, Report, error) {
	start := time.Now()
	f, err := forest.Fit(ctx, ds.X, ds.Y, cfg)
	if err != nil {
		return nil, Report{}, fmt.Errorf("fit forest: %w", err)
	}
	acc, err := Accuracy(f, ds)
	if err != nil {
		return nil, Report{}, err
	}
	return f, Report{
		Samples:  ds.Len(),
		Classes:  f.Classes(),
		Counts:   ds.Counts(),
		Accuracy: acc,
		Duration: time.Since(start),
	}, nil
}

// Accuracy returns the share of rows f labels correctly.
func Accuracy(f *forest.Forest, ds *Dataset) (float64, error) {
	if ds.Len() == 0 {
		return 0, nil
	}
	hits := 0
	for i, x := range ds.X {
		got, err := f.Predict(x)
		if err != nil {
			return 0, fmt.Errorf("predict row %d: %w", i, err)
		}
		if got == ds.Y[i] {
			hits++
		}
	}
	return float64(hits) / float64(ds.Len()), nil
}

// FitAndSave fits ds and writes the artifact to path.
func FitAndSave(ctx context.Context, ds *Dataset, cfg forest.Config, path string, logger *zap.Logger) (Report, error) {
	f, rep, err := Fit(ctx, ds, cfg)
	if err != nil {
		return Report{}, err
	}
	info := artifact.TrainingInfo{
		Samples:   rep.Samples,
		Trees:     cfg.Trees,
		Seed:      cfg.Seed,
		Accuracy:  rep.Accuracy,
		CreatedAt: time.Now().UTC(),
	}
	if err := artifact.Save(path, f, ds.Vocabulary, info); err != nil {
		return Report{}, fmt.Errorf("save artifact: %w", err)
	}
	logger.Info("Model trained",
		zap.String("path", path),
		zap.Int("samples", rep.Samples),
		zap.Int("trees", cfg.Trees),
		zap.Int64("seed", cfg.Seed),
		zap.Float64("accuracy", rep.Accuracy),
		zap.Strings("classes", rep.Classes),
		zap.Duration("duration", rep.Duration),
	)
	return rep, nil
}
