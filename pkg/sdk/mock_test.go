package symptomd

import (
	"context"

	"github.com/kailas-cloud/symptomd/internal/domain/disease"
	domprediction "github.com/kailas-cloud/symptomd/internal/domain/prediction"
	domstats "github.com/kailas-cloud/symptomd/internal/domain/stats"
	"github.com/kailas-cloud/symptomd/internal/domain/symptom"
	healthuc "github.com/kailas-cloud/symptomd/internal/usecase/health"
	modeluc "github.com/kailas-cloud/symptomd/internal/usecase/model"
)

// --- predictionUseCase mock ---

type mockPredictionUC struct {
	predictFn func(ctx context.Context, symptoms []string, text string) (domprediction.Result, error)
}

func (m *mockPredictionUC) PredictText(ctx context.Context, symptoms []string, text string) (domprediction.Result, error) {
	return m.predictFn(ctx, symptoms, text)
}

func (m *mockPredictionUC) Vocabulary() symptom.Vocabulary { return symptom.Default() }

func (m *mockPredictionUC) Catalog() disease.Catalog { return disease.Default() }

// --- modelUseCase mock ---

type mockModelUC struct {
	loadFn func(ctx context.Context, trigger string) (*modeluc.Model, error)
	status modeluc.Status
}

func (m *mockModelUC) Load(ctx context.Context, trigger string) (*modeluc.Model, error) {
	return m.loadFn(ctx, trigger)
}

func (m *mockModelUC) Status() modeluc.Status { return m.status }

// --- statsUseCase mock ---

type mockStatsUC struct {
	reportFn func(ctx context.Context, period domstats.Period) (domstats.Report, error)
}

func (m *mockStatsUC) Enabled() bool { return true }

func (m *mockStatsUC) Report(ctx context.Context, period domstats.Period) (domstats.Report, error) {
	return m.reportFn(ctx, period)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }
