package forest

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

// andDataset labels rows "both" when features 0 and 1 are set, "first" when
// only feature 0 is set, and "none" otherwise. Feature 2 is noise.
func andDataset(n int, seed int64) ([][]uint8, []string) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]uint8, n)
	y := make([]string, n)
	for i := range X {
		row := []uint8{uint8(rng.Intn(2)), uint8(rng.Intn(2)), uint8(rng.Intn(2))}
		X[i] = row
		switch {
		case row[0] == 1 && row[1] == 1:
			y[i] = "both"
		case row[0] == 1:
			y[i] = "first"
		default:
			y[i] = "none"
		}
	}
	return X, y
}

func smallConfig() Config {
	return Config{Trees: 15, MaxFeatures: 0, MinSamplesLeaf: 1, Seed: 1, Workers: 4}
}

func TestFit_LearnsDeterministicRule(t *testing.T) {
	X, y := andDataset(400, 3)
	f, err := Fit(context.Background(), X, y, smallConfig())
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	if got := f.Classes(); !reflect.DeepEqual(got, []string{"both", "first", "none"}) {
		t.Fatalf("Classes() = %v", got)
	}

	tests := []struct {
		x    []uint8
		want string
	}{
		{[]uint8{1, 1, 0}, "both"},
		{[]uint8{1, 1, 1}, "both"},
		{[]uint8{1, 0, 1}, "first"},
		{[]uint8{0, 1, 0}, "none"},
		{[]uint8{0, 0, 1}, "none"},
	}
	for _, tc := range tests {
		got, err := f.Predict(tc.x)
		if err != nil {
			t.Fatalf("Predict(%v): %v", tc.x, err)
		}
		if got != tc.want {
			t.Errorf("Predict(%v) = %q, want %q", tc.x, got, tc.want)
		}
	}
}

func TestFit_SameSeedSameForest(t *testing.T) {
	X, y := andDataset(300, 5)
	cfg := smallConfig()
	cfg.MaxFeatures = SqrtFeatures

	a, err := Fit(context.Background(), X, y, cfg)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	cfg.Workers = 1
	b, err := Fit(context.Background(), X, y, cfg)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if !reflect.DeepEqual(a.Trees(), b.Trees()) {
		t.Fatal("same seed produced different forests across worker counts")
	}

	cfg.Seed = 99
	c, err := Fit(context.Background(), X, y, cfg)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if reflect.DeepEqual(a.Trees(), c.Trees()) {
		t.Error("different seeds produced identical forests")
	}
}

func TestPredictProba_SumsToOne(t *testing.T) {
	X, y := andDataset(200, 11)
	f, err := Fit(context.Background(), X, y, smallConfig())
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	for mask := 0; mask < 8; mask++ {
		x := []uint8{uint8(mask & 1), uint8(mask >> 1 & 1), uint8(mask >> 2 & 1)}
		probs, err := f.PredictProba(x)
		if err != nil {
			t.Fatalf("PredictProba(%v): %v", x, err)
		}
		sum := 0.0
		for _, p := range probs {
			if p < 0 || p > 1 {
				t.Errorf("probability %v out of range", p)
			}
			sum += p
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("PredictProba(%v) sums to %v", x, sum)
		}
	}
}

func TestPredict_FeatureCount(t *testing.T) {
	X, y := andDataset(50, 1)
	f, err := Fit(context.Background(), X, y, smallConfig())
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if _, err := f.Predict([]uint8{1, 0}); !errors.Is(err, ErrFeatureCount) {
		t.Errorf("expected ErrFeatureCount, got %v", err)
	}
	if _, err := f.PredictProba(nil); !errors.Is(err, ErrFeatureCount) {
		t.Errorf("expected ErrFeatureCount, got %v", err)
	}
}

func TestPredict_TieGoesToLowestIndex(t *testing.T) {
	tree := Tree{Nodes: []Node{{Feature: Leaf, Value: []float64{0.5, 0.5}}}}
	f, err := New([]string{"a", "b"}, 1, []Tree{tree})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := f.Predict([]uint8{0})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got != "a" {
		t.Errorf("Predict() = %q, want a", got)
	}
}

func TestNew_Validation(t *testing.T) {
	leaf := Node{Feature: Leaf, Value: []float64{1, 0}}
	tests := []struct {
		name    string
		classes []string
		trees   []Tree
	}{
		{"no classes", nil, []Tree{{Nodes: []Node{leaf}}}},
		{"duplicate classes", []string{"a", "a"}, []Tree{{Nodes: []Node{leaf}}}},
		{"no trees", []string{"a", "b"}, nil},
		{"empty tree", []string{"a", "b"}, []Tree{{}}},
		{"short leaf", []string{"a", "b"}, []Tree{{Nodes: []Node{{Feature: Leaf, Value: []float64{1}}}}}},
		{"feature out of range", []string{"a", "b"}, []Tree{{Nodes: []Node{{Feature: 5, Left: 1, Right: 2}, leaf, leaf}}}},
		{"cycle", []string{"a", "b"}, []Tree{{Nodes: []Node{{Feature: 0, Left: 0, Right: 1}, leaf}}}},
		{"dangling child", []string{"a", "b"}, []Tree{{Nodes: []Node{{Feature: 0, Left: 1, Right: 7}, leaf}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.classes, 2, tc.trees); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestFit_InputValidation(t *testing.T) {
	cfg := smallConfig()
	ctx := context.Background()

	if _, err := Fit(ctx, nil, nil, cfg); err == nil {
		t.Error("expected error for empty dataset")
	}
	if _, err := Fit(ctx, [][]uint8{{1}}, []string{"a", "b"}, cfg); err == nil {
		t.Error("expected error for label count mismatch")
	}
	if _, err := Fit(ctx, [][]uint8{{1, 0}, {1}}, []string{"a", "b"}, cfg); !errors.Is(err, ErrFeatureCount) {
		t.Errorf("expected ErrFeatureCount for ragged rows, got %v", err)
	}
	bad := cfg
	bad.Trees = 0
	if _, err := Fit(ctx, [][]uint8{{1}}, []string{"a"}, bad); err == nil {
		t.Error("expected config error")
	}
}

func TestFit_CancelledContext(t *testing.T) {
	X, y := andDataset(50, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Fit(ctx, X, y, smallConfig()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFit_MaxDepth(t *testing.T) {
	X, y := andDataset(200, 2)
	cfg := smallConfig()
	cfg.MaxDepth = 1
	f, err := Fit(context.Background(), X, y, cfg)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	for i, tr := range f.Trees() {
		if d := tr.Depth(); d > 1 {
			t.Errorf("tree %d depth = %d", i, d)
		}
	}
}

func TestConfig_FeaturesPerSplit(t *testing.T) {
	tests := []struct {
		max  int
		n    int
		want int
	}{
		{0, 21, 21},
		{SqrtFeatures, 21, 4},
		{SqrtFeatures, 1, 1},
		{5, 21, 5},
		{50, 21, 21},
	}
	for _, tc := range tests {
		c := Config{MaxFeatures: tc.max}
		if got := c.featuresPerSplit(tc.n); got != tc.want {
			t.Errorf("featuresPerSplit(max=%d, n=%d) = %d, want %d", tc.max, tc.n, got, tc.want)
		}
	}
}
