package training

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/symptomd/internal/classifier/artifact"
	"github.com/kailas-cloud/symptomd/internal/classifier/forest"
	"github.com/kailas-cloud/symptomd/internal/domain"
	"github.com/kailas-cloud/symptomd/internal/domain/disease"
	"github.com/kailas-cloud/symptomd/internal/domain/symptom"
)

func vec(names ...string) []uint8 {
	v := symptom.Default()
	x := make([]uint8, v.Len())
	for _, n := range names {
		i, ok := v.Index(n)
		if !ok {
			panic(n)
		}
		x[i] = 1
	}
	return x
}

func TestLabeler_FirstMatchWins(t *testing.T) {
	l := DefaultLabeler()
	tests := []struct {
		name string
		x    []uint8
		want disease.Label
	}{
		{"cold", vec("fever", "cough", "runny_nose"), disease.CommonCold},
		{"cold beats flu", vec("fever", "cough", "runny_nose", "fatigue", "headache"), disease.CommonCold},
		{"flu", vec("fever", "fatigue", "headache", "cough", "muscle_pain"), disease.Flu},
		{"flu beats covid", vec("fever", "fatigue", "headache", "cough", "shortness_of_breath", "chest_pain"), disease.Flu},
		{"covid", vec("fever", "cough", "shortness_of_breath", "chest_pain"), disease.Covid19},
		{"gastro", vec("nausea", "vomiting", "diarrhea"), disease.Gastroenteritis},
		{"gastro beats anxiety", vec("nausea", "vomiting", "diarrhea", "anxiety"), disease.Gastroenteritis},
		{"anxiety beats depression", vec("anxiety", "depression"), disease.AnxietyDisorder},
		{"depression", vec("depression", "rash"), disease.Depression},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := l.Match(tc.x)
			if !ok || got != tc.want {
				t.Errorf("Match() = %q, %v; want %q", got, ok, tc.want)
			}
		})
	}
}

func TestLabeler_FallbackIsUniform(t *testing.T) {
	l := DefaultLabeler()
	x := vec("rash", "swelling")
	if _, ok := l.Match(x); ok {
		t.Fatal("expected no rule to match")
	}
	rng := rand.New(rand.NewSource(1))
	seen := make(map[disease.Label]int)
	for i := 0; i < 600; i++ {
		seen[l.Label(x, rng)]++
	}
	for _, lbl := range disease.All() {
		if seen[lbl] < 50 {
			t.Errorf("label %s drawn %d/600 times", lbl, seen[lbl])
		}
	}
}

func TestNewLabeler_Validation(t *testing.T) {
	v := symptom.Default()
	if _, err := NewLabeler(v, []Rule{{disease.Flu, []string{"sneezing"}}}, disease.All()); err == nil {
		t.Error("expected error for unknown symptom")
	}
	if _, err := NewLabeler(v, []Rule{{disease.Flu, nil}}, disease.All()); err == nil {
		t.Error("expected error for empty rule")
	}
	if _, err := NewLabeler(v, DefaultRules(), nil); err == nil {
		t.Error("expected error for empty fallback")
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate(symptom.Default(), DefaultLabeler(), 200, 42)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, _ := Generate(symptom.Default(), DefaultLabeler(), 200, 42)
	if !reflect.DeepEqual(a.X, b.X) || !reflect.DeepEqual(a.Y, b.Y) {
		t.Fatal("same seed produced different datasets")
	}
	if a.Len() != 200 || len(a.X[0]) != 21 {
		t.Errorf("shape = %d x %d", a.Len(), len(a.X[0]))
	}
	l := DefaultLabeler()
	for i, x := range a.X {
		if want, ok := l.Match(x); ok && a.Y[i] != string(want) {
			t.Fatalf("row %d labeled %q, rule says %q", i, a.Y[i], want)
		}
	}
	if _, err := Generate(symptom.Default(), l, 0, 1); err == nil {
		t.Error("expected error for zero samples")
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	ds, _ := Generate(symptom.Default(), DefaultLabeler(), 50, 3)
	var buf bytes.Buffer
	if err := WriteCSV(&buf, ds); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	header, _, _ := strings.Cut(buf.String(), "\n")
	if !strings.HasPrefix(header, "fever,fatigue,headache,") || !strings.HasSuffix(header, ",depression,disease") {
		t.Errorf("header = %q", header)
	}

	got, err := ReadCSV(&buf, symptom.Default())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if !reflect.DeepEqual(got.X, ds.X) || !reflect.DeepEqual(got.Y, ds.Y) {
		t.Error("round trip changed the dataset")
	}
}

func TestReadCSV_ColumnOrderMustMatchVocabulary(t *testing.T) {
	names := symptom.Default().Names()
	names[0], names[1] = names[1], names[0]
	csv := strings.Join(append(names, LabelColumn), ",") + "\n" +
		strings.Repeat("0,", len(names)) + "Flu\n"

	if _, err := ReadCSV(strings.NewReader(csv), symptom.Default()); !errors.Is(err, domain.ErrVocabularyMismatch) {
		t.Errorf("expected ErrVocabularyMismatch, got %v", err)
	}
}

func TestReadCSV_Invalid(t *testing.T) {
	header := strings.Join(append(symptom.Default().Names(), LabelColumn), ",") + "\n"
	zeros := strings.Repeat("0,", 21)
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"no rows", header},
		{"bad cell", header + "2," + strings.Repeat("0,", 20) + "Flu\n"},
		{"short row", header + "0,0,Flu\n"},
		{"empty label", header + zeros + "\n"},
		{"wrong label column", strings.Replace(header, LabelColumn, "label", 1) + zeros + "Flu\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tc.data), symptom.Default()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

// trainedForest fits with the shipped defaults and the given seed.
func trainedForest(t *testing.T, seed int64) *forest.Forest {
	t.Helper()
	ds, err := Generate(symptom.Default(), DefaultLabeler(), DefaultSamples, seed)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	cfg := forest.DefaultConfig()
	cfg.Seed = seed
	f, rep, err := Fit(context.Background(), ds, cfg)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if len(rep.Classes) != len(disease.All()) {
		t.Fatalf("classes = %v", rep.Classes)
	}
	return f
}

func TestFit_RuleRegionsPredicted(t *testing.T) {
	f := trainedForest(t, forest.DefaultConfig().Seed)
	tests := []struct {
		x    []uint8
		want disease.Label
	}{
		{vec("fever", "cough", "runny_nose"), disease.CommonCold},
		{vec("fever", "fatigue", "headache", "cough", "muscle_pain"), disease.Flu},
		{vec("fever", "cough", "shortness_of_breath", "chest_pain"), disease.Covid19},
		{vec("nausea", "vomiting", "diarrhea"), disease.Gastroenteritis},
	}
	for _, tc := range tests {
		got, err := f.Predict(tc.x)
		if err != nil {
			t.Fatalf("Predict: %v", err)
		}
		if got != string(tc.want) {
			t.Errorf("Predict(%v) = %q, want %q", tc.x, got, tc.want)
		}
	}
}

func TestFit_DefaultsStableAcrossSeeds(t *testing.T) {
	cold := vec("fever", "cough", "runny_nose")
	flu := vec("fever", "fatigue", "headache", "cough", "muscle_pain")
	for _, seed := range []int64{42, 1, 7} {
		f := trainedForest(t, seed)
		if got, _ := f.Predict(cold); got != string(disease.CommonCold) {
			t.Errorf("seed %d: cold scenario = %q", seed, got)
		}
		if got, _ := f.Predict(flu); got != string(disease.Flu) {
			t.Errorf("seed %d: flu scenario = %q", seed, got)
		}
	}
}

func TestFitAndSave_ArtifactCarriesVocabulary(t *testing.T) {
	ds, _ := Generate(symptom.Default(), DefaultLabeler(), DefaultSamples, 42)
	cfg := forest.Config{Trees: 5, MaxFeatures: forest.SqrtFeatures, MinSamplesLeaf: 1, Seed: 42}
	path := filepath.Join(t.TempDir(), "model.json")

	rep, err := FitAndSave(context.Background(), ds, cfg, path, zap.NewNop())
	if err != nil {
		t.Fatalf("FitAndSave: %v", err)
	}
	if rep.Accuracy <= 0.5 {
		t.Errorf("training accuracy = %v", rep.Accuracy)
	}

	a, err := artifact.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !a.Vocabulary.Equal(symptom.Default()) || a.Vocabulary.Checksum() != symptom.Default().Checksum() {
		t.Error("artifact vocabulary differs from serving vocabulary")
	}
	if a.Training.Samples != DefaultSamples || a.Training.Seed != 42 || a.Training.Trees != 5 {
		t.Errorf("Training = %+v", a.Training)
	}
}
