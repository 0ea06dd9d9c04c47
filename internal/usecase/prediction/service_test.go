package prediction

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/symptomd/internal/classifier/forest"
	"github.com/kailas-cloud/symptomd/internal/domain"
	"github.com/kailas-cloud/symptomd/internal/domain/disease"
	"github.com/kailas-cloud/symptomd/internal/domain/symptom"
	"github.com/kailas-cloud/symptomd/internal/training"
	"github.com/kailas-cloud/symptomd/internal/usecase/model"
)

func fluStub() *fixedModel {
	return &fixedModel{
		label:   string(disease.Flu),
		classes: []string{string(disease.CommonCold), string(disease.Flu)},
		probs:   []float64{0.25, 0.75},
	}
}

func TestPredict_Success(t *testing.T) {
	stats := &mockStats{}
	svc := newService(loadedRegistry(t, fluStub()), stats, nil)

	res, err := svc.Predict(context.Background(), []string{"fever", "cough", "fever", "sneezing"})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if res.Disease() != disease.Flu || res.Fallback() {
		t.Errorf("Disease() = %q, Fallback() = %v", res.Disease(), res.Fallback())
	}
	if res.Confidence() != 75 {
		t.Errorf("Confidence() = %v", res.Confidence())
	}
	if !reflect.DeepEqual(res.Matched(), []string{"fever", "cough"}) || !reflect.DeepEqual(res.Ignored(), []string{"sneezing"}) {
		t.Errorf("Matched() = %v, Ignored() = %v", res.Matched(), res.Ignored())
	}
	if res.ID() != "pred-1" || res.ModelVersion() != "v-test" {
		t.Errorf("ID() = %q, ModelVersion() = %q", res.ID(), res.ModelVersion())
	}
	if len(res.Recommendations()) == 0 || res.Specialization() != disease.GeneralPhysician {
		t.Error("guidance not attached")
	}
	if len(stats.labels) != 1 || stats.labels[0] != disease.Flu {
		t.Errorf("stats recorded %v", stats.labels)
	}
}

func TestPredict_EmptyInput(t *testing.T) {
	stats := &mockStats{}
	svc := newService(loadedRegistry(t, fluStub()), stats, nil)

	for _, tokens := range [][]string{nil, {}, {"xyz_unknown_symptom"}, {"Fever"}} {
		if _, err := svc.Predict(context.Background(), tokens); !errors.Is(err, domain.ErrEmptyInput) {
			t.Errorf("Predict(%v): expected ErrEmptyInput, got %v", tokens, err)
		}
	}
	if len(stats.labels) != 0 {
		t.Error("empty input must not be recorded")
	}
}

func TestPredict_EmptyInputBeforeModelCheck(t *testing.T) {
	svc := newService(unavailable{err: domain.NewModelUnavailable("x", nil)}, nil, nil)
	if _, err := svc.Predict(context.Background(), []string{"nope"}); !errors.Is(err, domain.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestPredict_ModelUnavailable(t *testing.T) {
	svc := newService(unavailable{err: domain.NewModelUnavailable("model.json", fs.ErrNotExist)}, nil, nil)
	_, err := svc.Predict(context.Background(), []string{"fever"})
	if !errors.Is(err, domain.ErrModelUnavailable) {
		t.Errorf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestPredict_UnmappedLabelFallsBack(t *testing.T) {
	stub := &fixedModel{
		label:   "Food Poisoning",
		classes: []string{"Food Poisoning", string(disease.Flu)},
		probs:   []float64{0.6, 0.4},
	}
	stats := &mockStats{}
	svc := newService(loadedRegistry(t, stub), stats, nil)

	res, err := svc.Predict(context.Background(), []string{"nausea"})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if res.Disease() != disease.CommonCold || !res.Fallback() || res.Predicted() != "Food Poisoning" {
		t.Errorf("Disease() = %q, Fallback() = %v, Predicted() = %q", res.Disease(), res.Fallback(), res.Predicted())
	}
	if res.WhenToSeeDoctor() == "" || len(res.Precautions()) == 0 {
		t.Error("fallback must carry default guidance")
	}
	if stats.labels[0] != disease.CommonCold {
		t.Errorf("stats recorded %v", stats.labels)
	}
}

func TestPredict_PanicIsPredictionFailure(t *testing.T) {
	v := symptom.Default()
	rash, _ := v.Index("rash")
	stub := fluStub()
	stub.panicOn = rash
	svc := newService(loadedRegistry(t, stub), nil, nil)

	_, err := svc.Predict(context.Background(), []string{"rash"})
	if !errors.Is(err, domain.ErrPredictionFailure) {
		t.Fatalf("expected ErrPredictionFailure, got %v", err)
	}
	if _, err := svc.Predict(context.Background(), []string{"fever"}); err != nil {
		t.Errorf("service must keep serving after a recovered panic: %v", err)
	}
}

func TestPredict_StatsFailureIgnored(t *testing.T) {
	stats := &mockStats{err: errors.New("redis down")}
	svc := newService(loadedRegistry(t, fluStub()), stats, nil)
	if _, err := svc.Predict(context.Background(), []string{"fever"}); err != nil {
		t.Fatalf("stats failure must not fail prediction: %v", err)
	}
}

func TestPredictText_MergesFreeText(t *testing.T) {
	svc := newService(loadedRegistry(t, fluStub()), nil, nil)

	res, err := svc.PredictText(context.Background(), []string{"Fever"}, " Runny Nose , sore throat,,")
	if err != nil {
		t.Fatalf("PredictText: %v", err)
	}
	want := []string{"fever", "runny_nose", "sore_throat"}
	if !reflect.DeepEqual(res.Matched(), want) {
		t.Errorf("Matched() = %v, want %v", res.Matched(), want)
	}
}

func TestPredictText_Extractor(t *testing.T) {
	ex := &mockExtractor{out: []string{"headache"}}
	svc := newService(loadedRegistry(t, fluStub()), nil, ex)

	res, err := svc.PredictText(context.Background(), nil, "my head is pounding")
	if err != nil {
		t.Fatalf("PredictText: %v", err)
	}
	if !reflect.DeepEqual(res.Matched(), []string{"headache"}) {
		t.Errorf("Matched() = %v", res.Matched())
	}
	if len(ex.texts) != 1 {
		t.Errorf("extractor called %d times", len(ex.texts))
	}
}

func TestPredictText_ExtractorFailureFallsBackToSplit(t *testing.T) {
	ex := &mockExtractor{err: domain.ErrExtractorUnavailable}
	svc := newService(loadedRegistry(t, fluStub()), nil, ex)

	res, err := svc.PredictText(context.Background(), nil, "cough, fever")
	if err != nil {
		t.Fatalf("PredictText: %v", err)
	}
	if !reflect.DeepEqual(res.Matched(), []string{"cough", "fever"}) {
		t.Errorf("Matched() = %v", res.Matched())
	}

	if _, err := svc.PredictText(context.Background(), nil, "   "); !errors.Is(err, domain.ErrEmptyInput) {
		t.Errorf("blank text: expected ErrEmptyInput, got %v", err)
	}
}

// --- End-to-end scenarios against a trained artifact ---

var (
	trainedOnce sync.Once
	trainedPath string
	trainedErr  error
)

func trainedArtifact(t *testing.T) string {
	t.Helper()
	trainedOnce.Do(func() {
		dir, err := tempDirShared()
		if err != nil {
			trainedErr = err
			return
		}
		cfg := forest.DefaultConfig()
		ds, err := training.Generate(symptom.Default(), training.DefaultLabeler(), training.DefaultSamples, cfg.Seed)
		if err != nil {
			trainedErr = err
			return
		}
		trainedPath = filepath.Join(dir, "model.json")
		_, trainedErr = training.FitAndSave(context.Background(), ds, cfg, trainedPath, zap.NewNop())
	})
	if trainedErr != nil {
		t.Fatalf("train: %v", trainedErr)
	}
	return trainedPath
}

func scenarioService(t *testing.T, path string) (*Service, *model.Service) {
	t.Helper()
	enc := symptom.NewEncoder(symptom.Default())
	models := model.New(path, enc, disease.Default(), zap.NewNop())
	return New(enc, disease.Default(), models, nil, nil, zap.NewNop()), models
}

func TestScenario_Predictions(t *testing.T) {
	svc, models := scenarioService(t, trainedArtifact(t))
	if _, err := models.Load(context.Background(), model.TriggerStartup); err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name   string
		tokens []string
		want   disease.Label
	}{
		{"common cold", []string{"fever", "cough", "runny_nose"}, disease.CommonCold},
		{"flu", []string{"fever", "fatigue", "headache", "cough", "muscle_pain"}, disease.Flu},
		{"order and duplicates", []string{"runny_nose", "cough", "fever", "cough"}, disease.CommonCold},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.Predict(context.Background(), tc.tokens)
			if err != nil {
				t.Fatalf("Predict: %v", err)
			}
			if res.Disease() != tc.want {
				t.Errorf("Disease() = %q, want %q", res.Disease(), tc.want)
			}
			if res.Confidence() < 0 || res.Confidence() > 100 {
				t.Errorf("Confidence() = %v", res.Confidence())
			}
			if len(res.Recommendations()) == 0 || len(res.Precautions()) == 0 || res.WhenToSeeDoctor() == "" {
				t.Error("result must carry guidance")
			}
		})
	}

	if _, err := svc.Predict(context.Background(), []string{"xyz_unknown_symptom"}); !errors.Is(err, domain.ErrEmptyInput) {
		t.Errorf("unknown symptom: expected ErrEmptyInput, got %v", err)
	}
}

func TestScenario_Deterministic(t *testing.T) {
	svc, models := scenarioService(t, trainedArtifact(t))
	if _, err := models.Load(context.Background(), model.TriggerStartup); err != nil {
		t.Fatalf("Load: %v", err)
	}
	a, err := svc.Predict(context.Background(), []string{"nausea", "dizziness"})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	b, _ := svc.Predict(context.Background(), []string{"dizziness", "nausea", "nausea"})
	if a.Disease() != b.Disease() || a.Confidence() != b.Confidence() {
		t.Errorf("same symptom set gave %q/%v and %q/%v", a.Disease(), a.Confidence(), b.Disease(), b.Confidence())
	}
}

func TestScenario_MissingArtifact(t *testing.T) {
	svc, models := scenarioService(t, filepath.Join(t.TempDir(), "absent.json"))

	if _, err := models.Load(context.Background(), model.TriggerStartup); !errors.Is(err, domain.ErrModelUnavailable) {
		t.Fatalf("Load: expected ErrModelUnavailable, got %v", err)
	}
	if _, err := svc.Predict(context.Background(), []string{"fever"}); !errors.Is(err, domain.ErrModelUnavailable) {
		t.Errorf("Predict: expected ErrModelUnavailable, got %v", err)
	}
}
