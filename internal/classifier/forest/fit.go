package forest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// SqrtFeatures selects max(1, floor(sqrt(n))) candidate features per split.
const SqrtFeatures = -1

// Config controls forest fitting.
type Config struct {
	Trees int
	// MaxFeatures is the number of candidate features per split:
	// 0 considers all features, SqrtFeatures uses sqrt(n).
	MaxFeatures    int
	MaxDepth       int // 0 means unlimited
	MinSamplesLeaf int
	Seed           int64
	Workers        int // 0 means GOMAXPROCS
}

// DefaultConfig returns 100 trees considering every feature per split, seed 42.
// Labels depend on a handful of symptoms, and sqrt sampling lets splits on
// unrelated symptoms fragment the small rule regions.
func DefaultConfig() Config {
	return Config{
		Trees:          100,
		MaxFeatures:    0,
		MinSamplesLeaf: 1,
		Seed:           42,
	}
}

// Validate checks the configuration bounds.
func (c Config) Validate() error {
	if c.Trees <= 0 {
		return fmt.Errorf("trees must be positive, got %d", c.Trees)
	}
	if c.MaxFeatures < SqrtFeatures {
		return fmt.Errorf("invalid max features %d", c.MaxFeatures)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must be >= 0, got %d", c.MaxDepth)
	}
	if c.MinSamplesLeaf < 1 {
		return fmt.Errorf("min samples leaf must be >= 1, got %d", c.MinSamplesLeaf)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	return nil
}

func (c Config) featuresPerSplit(n int) int {
	switch {
	case c.MaxFeatures == SqrtFeatures:
		return max(1, int(math.Sqrt(float64(n))))
	case c.MaxFeatures == 0 || c.MaxFeatures > n:
		return n
	default:
		return c.MaxFeatures
	}
}

// Fit trains a forest on binary rows X with string labels y.
// Classes are the sorted distinct labels. Trees are fitted in parallel;
// the result depends only on the data and cfg.Seed.
func Fit(ctx context.Context, X [][]uint8, y []string, cfg Config) (*Forest, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("forest config: %w", err)
	}
	if len(X) == 0 {
		return nil, errors.New("forest: no samples")
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("forest: %d rows vs %d labels", len(X), len(y))
	}
	nFeatures := len(X[0])
	if nFeatures == 0 {
		return nil, errors.New("forest: zero-width rows")
	}
	for i, row := range X {
		if len(row) != nFeatures {
			return nil, fmt.Errorf("row %d has %d features, want %d: %w", i, len(row), nFeatures, ErrFeatureCount)
		}
	}

	classes, encoded := encodeLabels(y)

	// Per-tree seeds are drawn up front so scheduling order does not matter.
	master := rand.New(rand.NewSource(cfg.Seed))
	seeds := make([]int64, cfg.Trees)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	trees := make([]Tree, cfg.Trees)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b := &builder{
				X:           X,
				y:           encoded,
				nClasses:    len(classes),
				nFeatures:   nFeatures,
				maxFeatures: cfg.featuresPerSplit(nFeatures),
				maxDepth:    cfg.MaxDepth,
				minLeaf:     cfg.MinSamplesLeaf,
				rng:         rand.New(rand.NewSource(seeds[i])),
			}
			trees[i] = b.fit()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fit trees: %w", err)
	}

	return New(classes, nFeatures, trees)
}

func encodeLabels(y []string) ([]string, []int) {
	set := make(map[string]struct{})
	for _, l := range y {
		set[l] = struct{}{}
	}
	classes := make([]string, 0, len(set))
	for l := range set {
		classes = append(classes, l)
	}
	sort.Strings(classes)

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	encoded := make([]int, len(y))
	for i, l := range y {
		encoded[i] = index[l]
	}
	return classes, encoded
}

// builder grows one CART tree on a bootstrap sample using Gini impurity.
type builder struct {
	X           [][]uint8
	y           []int
	nClasses    int
	nFeatures   int
	maxFeatures int
	maxDepth    int
	minLeaf     int
	rng         *rand.Rand
	nodes       []Node
}

func (b *builder) fit() Tree {
	n := len(b.X)
	sample := make([]int, n)
	for i := range sample {
		sample[i] = b.rng.Intn(n)
	}
	b.grow(sample, 0)
	return Tree{Nodes: b.nodes}
}

func (b *builder) grow(idx []int, depth int) int {
	counts := b.counts(idx)
	pos := len(b.nodes)
	b.nodes = append(b.nodes, Node{Feature: Leaf, Value: distribution(counts, len(idx))})

	if isPure(counts) || (b.maxDepth > 0 && depth >= b.maxDepth) || len(idx) < 2*b.minLeaf {
		return pos
	}
	feature, ok := b.bestSplit(idx, counts)
	if !ok {
		return pos
	}

	var left, right []int
	for _, s := range idx {
		if b.X[s][feature] == 0 {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[pos] = Node{Feature: feature, Left: l, Right: r}
	return pos
}

// bestSplit scans a random subset of non-constant features and returns the
// one with the lowest weighted child impurity.
func (b *builder) bestSplit(idx []int, counts []int) (int, bool) {
	n := len(idx)
	best, bestScore := -1, math.Inf(1)
	visited := 0
	leftCounts := make([]int, b.nClasses)
	rightCounts := make([]int, b.nClasses)

	for _, f := range b.rng.Perm(b.nFeatures) {
		if visited >= b.maxFeatures {
			break
		}
		clear(leftCounts)
		nLeft := 0
		for _, s := range idx {
			if b.X[s][f] == 0 {
				leftCounts[b.y[s]]++
				nLeft++
			}
		}
		nRight := n - nLeft
		if nLeft == 0 || nRight == 0 {
			continue
		}
		visited++
		if nLeft < b.minLeaf || nRight < b.minLeaf {
			continue
		}
		for c := range counts {
			rightCounts[c] = counts[c] - leftCounts[c]
		}
		score := (float64(nLeft)*gini(leftCounts, nLeft) + float64(nRight)*gini(rightCounts, nRight)) / float64(n)
		if score < bestScore {
			best, bestScore = f, score
		}
	}
	return best, best >= 0
}

func (b *builder) counts(idx []int) []int {
	c := make([]int, b.nClasses)
	for _, s := range idx {
		c[b.y[s]]++
	}
	return c
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		sum += p * p
	}
	return 1 - sum
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func distribution(counts []int, n int) []float64 {
	v := make([]float64, len(counts))
	if n == 0 {
		return v
	}
	for i, c := range counts {
		v[i] = float64(c) / float64(n)
	}
	return v
}
