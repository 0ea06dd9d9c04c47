// Package forest implements a random-forest classifier over binary feature vectors.
//
// A Forest is immutable once built and safe for concurrent use.
package forest

import (
	"errors"
	"fmt"
)

// ErrFeatureCount is returned when an input vector has the wrong width.
var ErrFeatureCount = errors.New("feature count mismatch")

// Forest is a fitted ensemble of trees. Probabilities are the mean of the
// per-tree leaf distributions (soft voting).
type Forest struct {
	classes   []string
	nFeatures int
	trees     []Tree
}

// New assembles a forest from already-fitted trees, validating structure.
func New(classes []string, nFeatures int, trees []Tree) (*Forest, error) {
	if len(classes) == 0 {
		return nil, errors.New("forest: no classes")
	}
	seen := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("forest: duplicate class %q", c)
		}
		seen[c] = struct{}{}
	}
	if nFeatures <= 0 {
		return nil, fmt.Errorf("forest: feature count %d", nFeatures)
	}
	if len(trees) == 0 {
		return nil, errors.New("forest: no trees")
	}
	for i := range trees {
		if err := trees[i].validate(nFeatures, len(classes)); err != nil {
			return nil, fmt.Errorf("forest: tree %d: %w", i, err)
		}
	}

	cs := make([]string, len(classes))
	copy(cs, classes)
	return &Forest{classes: cs, nFeatures: nFeatures, trees: trees}, nil
}

// Classes returns the class labels in probability order.
func (f *Forest) Classes() []string {
	out := make([]string, len(f.classes))
	copy(out, f.classes)
	return out
}

// NumFeatures returns the expected input width.
func (f *Forest) NumFeatures() int { return f.nFeatures }

// Trees returns the fitted trees. Callers must not modify them.
func (f *Forest) Trees() []Tree { return f.trees }

// PredictProba returns one probability per class, summing to 1.
func (f *Forest) PredictProba(x []uint8) ([]float64, error) {
	if len(x) != f.nFeatures {
		return nil, fmt.Errorf("got %d features, want %d: %w", len(x), f.nFeatures, ErrFeatureCount)
	}
	probs := make([]float64, len(f.classes))
	for i := range f.trees {
		for c, v := range f.trees[i].leaf(x) {
			probs[c] += v
		}
	}
	n := float64(len(f.trees))
	for c := range probs {
		probs[c] /= n
	}
	return probs, nil
}

// Predict returns the most probable class. Ties resolve to the lowest index.
func (f *Forest) Predict(x []uint8) (string, error) {
	probs, err := f.PredictProba(x)
	if err != nil {
		return "", err
	}
	return f.classes[argmax(probs)], nil
}

func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
