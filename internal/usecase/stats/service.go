package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/symptomd/internal/domain/disease"
	domstats "github.com/kailas-cloud/symptomd/internal/domain/stats"
)

// Service records and reports prediction counts.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates a Service. repo can be nil (statistics disabled).
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Enabled reports whether a backing store is configured.
func (s *Service) Enabled() bool { return s.repo != nil }

// Record counts one prediction. No-op when disabled.
func (s *Service) Record(ctx context.Context, label disease.Label) error {
	if s.repo == nil {
		return nil
	}
	return s.repo.Record(ctx, label)
}

// Report builds a count report for the given period.
func (s *Service) Report(ctx context.Context, period domstats.Period) (domstats.Report, error) {
	now := s.now().UTC()
	var start, end int64
	if period == domstats.PeriodDay {
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		start = dayStart.UnixMilli()
		end = dayStart.Add(24 * time.Hour).UnixMilli()
	}

	if s.repo == nil {
		return domstats.NewReport(period, start, end, nil, false), nil
	}

	var (
		counts map[disease.Label]int64
		err    error
	)
	switch period {
	case domstats.PeriodDay:
		counts, err = s.repo.Day(ctx, now)
	case domstats.PeriodTotal:
		counts, err = s.repo.Total(ctx)
	default:
		return domstats.Report{}, fmt.Errorf("unknown period %q", period)
	}
	if err != nil {
		return domstats.Report{}, fmt.Errorf("stats report %s: %w", period, err)
	}
	return domstats.NewReport(period, start, end, counts, true), nil
}
