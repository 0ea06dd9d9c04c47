package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/symptomd/internal/db"
	"github.com/kailas-cloud/symptomd/internal/domain/disease"
)

// --- Mocks ---

type mockStore struct {
	incrs  []db.HashIncr
	hashes map[string]map[string]string
	err    error
}

func (m *mockStore) HIncrByMulti(_ context.Context, items []db.HashIncr) error {
	if m.err != nil {
		return m.err
	}
	m.incrs = append(m.incrs, items...)
	return nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hashes[key], nil
}

// --- Tests ---

func TestRecord_DailyAndTotal(t *testing.T) {
	ms := &mockStore{}
	s := New(ms, "symptomd:", 72*time.Hour)
	s.now = func() time.Time { return time.Date(2026, 10, 18, 23, 30, 0, 0, time.FixedZone("X", -2*3600)) }

	if err := s.Record(context.Background(), disease.Flu); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(ms.incrs) != 2 {
		t.Fatalf("got %d increments", len(ms.incrs))
	}
	day, total := ms.incrs[0], ms.incrs[1]
	if day.Key != "symptomd:stats:day:2026-10-19" || day.Field != "Flu" || day.TTL != 72*time.Hour {
		t.Errorf("day increment = %+v", day)
	}
	if total.Key != "symptomd:stats:total" || total.TTL != 0 {
		t.Errorf("total increment = %+v", total)
	}
}

func TestRecord_Error(t *testing.T) {
	ms := &mockStore{err: &db.Error{Op: db.OpHIncrBy, Err: errors.New("down")}}
	s := New(ms, "p:", time.Hour)
	err := s.Record(context.Background(), disease.Flu)
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected db.Error in chain, got %v", err)
	}
}

func TestTotal_Parses(t *testing.T) {
	ms := &mockStore{hashes: map[string]map[string]string{
		"p:stats:total": {"Flu": "4", "Common Cold": "9"},
	}}
	s := New(ms, "p:", time.Hour)

	got, err := s.Total(context.Background())
	if err != nil {
		t.Fatalf("Total: %v", err)
	}
	if got[disease.Flu] != 4 || got[disease.CommonCold] != 9 {
		t.Errorf("Total() = %v", got)
	}
}

func TestDay_MissingKeyIsEmpty(t *testing.T) {
	s := New(&mockStore{}, "p:", time.Hour)
	got, err := s.Day(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Day() = %v", got)
	}
}

func TestRead_BadValue(t *testing.T) {
	ms := &mockStore{hashes: map[string]map[string]string{"p:stats:total": {"Flu": "x"}}}
	s := New(ms, "p:", time.Hour)
	if _, err := s.Total(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}
