package stats

import (
	"context"
	"time"

	"github.com/kailas-cloud/symptomd/internal/domain/disease"
)

// Repository persists per-label prediction counters.
type Repository interface {
	Record(ctx context.Context, label disease.Label) error
	Day(ctx context.Context, t time.Time) (map[disease.Label]int64, error)
	Total(ctx context.Context) (map[disease.Label]int64, error)
}
