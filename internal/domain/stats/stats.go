package stats

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/symptomd/internal/domain/disease"
)

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodTotal Period = "total"
)

// ParsePeriod validates a period name. Empty means PeriodTotal.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodTotal:
		return PeriodTotal, nil
	case PeriodDay:
		return PeriodDay, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// LabelCount is the number of predictions reported for one label.
type LabelCount struct {
	Label disease.Label
	Count int64
}

// Report holds prediction counts for a period.
type Report struct {
	period      Period
	periodStart int64
	periodEnd   int64
	counts      []LabelCount
	total       int64
	enabled     bool
}

// NewReport creates a report. Counts are sorted by count (desc), then label.
func NewReport(period Period, start, end int64, counts map[disease.Label]int64, enabled bool) Report {
	lc := make([]LabelCount, 0, len(counts))
	var total int64
	for l, n := range counts {
		lc = append(lc, LabelCount{Label: l, Count: n})
		total += n
	}
	sort.Slice(lc, func(i, j int) bool {
		if lc[i].Count != lc[j].Count {
			return lc[i].Count > lc[j].Count
		}
		return lc[i].Label < lc[j].Label
	})
	return Report{
		period:      period,
		periodStart: start,
		periodEnd:   end,
		counts:      lc,
		total:       total,
		enabled:     enabled,
	}
}

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns the period start timestamp (unix millis), 0 for total.
func (r *Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the period end timestamp (unix millis), 0 for total.
func (r *Report) PeriodEnd() int64 { return r.periodEnd }

// Counts returns per-label counts, highest first.
func (r *Report) Counts() []LabelCount { return r.counts }

// Total returns the sum of all counts.
func (r *Report) Total() int64 { return r.total }

// Enabled reports whether statistics are being collected.
func (r *Report) Enabled() bool { return r.enabled }
