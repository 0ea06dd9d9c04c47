package stats

import (
	"testing"

	"github.com/kailas-cloud/symptomd/internal/domain/disease"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"", PeriodTotal, false},
		{"total", PeriodTotal, false},
		{"day", PeriodDay, false},
		{"month", "", true},
	}
	for _, tc := range tests {
		got, err := ParsePeriod(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParsePeriod(%q) = %q, %v", tc.in, got, err)
		}
	}
}

func TestNewReport_SortsAndTotals(t *testing.T) {
	r := NewReport(PeriodDay, 10, 20, map[disease.Label]int64{
		disease.Flu:        3,
		disease.CommonCold: 5,
		disease.Depression: 3,
	}, true)

	if r.Total() != 11 {
		t.Errorf("Total() = %d", r.Total())
	}
	c := r.Counts()
	if c[0].Label != disease.CommonCold || c[1].Label != disease.Depression || c[2].Label != disease.Flu {
		t.Errorf("Counts() order = %+v", c)
	}
	if r.Period() != PeriodDay || r.PeriodStart() != 10 || r.PeriodEnd() != 20 || !r.Enabled() {
		t.Errorf("unexpected metadata: %+v", r)
	}
}
