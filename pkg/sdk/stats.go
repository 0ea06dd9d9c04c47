package symptomd

import (
	"context"
	"time"

	domstats "github.com/kailas-cloud/symptomd/internal/domain/stats"
)

// Stats periods.
const (
	PeriodDay   = string(domstats.PeriodDay)
	PeriodTotal = string(domstats.PeriodTotal)
)

// DiseaseCount is the number of predictions of one disease.
type DiseaseCount struct {
	Disease string
	Count   int64
}

// Stats holds prediction counts for a period.
type Stats struct {
	Period      string
	PeriodStart int64 // unix millis, 0 for total
	PeriodEnd   int64 // unix millis, 0 for total
	Counts      []DiseaseCount
	Total       int64
	Enabled     bool // false without WithRedis
}

// Stats returns prediction counts for "day" (current UTC day) or "total".
func (c *Client) Stats(ctx context.Context, period string) (s Stats, err error) {
	start := time.Now()
	defer func() { c.obs.observe("stats", start, err) }()

	p, err := domstats.ParsePeriod(period)
	if err != nil {
		return Stats{}, err //nolint:wrapcheck // validation message is self-describing
	}
	r, err := c.statsSvc.Report(ctx, p)
	if err != nil {
		return Stats{}, err //nolint:wrapcheck // already wrapped by the use case
	}
	counts := r.Counts()
	out := make([]DiseaseCount, len(counts))
	for i, lc := range counts {
		out[i] = DiseaseCount{Disease: string(lc.Label), Count: lc.Count}
	}
	return Stats{
		Period:      string(r.Period()),
		PeriodStart: r.PeriodStart(),
		PeriodEnd:   r.PeriodEnd(),
		Counts:      out,
		Total:       r.Total(),
		Enabled:     r.Enabled(),
	}, nil
}
