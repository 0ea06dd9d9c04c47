package forest

import (
	"errors"
	"fmt"
)

// Leaf marks a node without a split.
const Leaf = -1

// Node is one node of a binary-feature decision tree.
// Samples with x[Feature] == 0 go Left, the rest go Right.
// Value holds the class distribution at the node; only leaves are read at inference.
type Node struct {
	Feature int       `json:"feature"`
	Left    int       `json:"left,omitempty"`
	Right   int       `json:"right,omitempty"`
	Value   []float64 `json:"value,omitempty"`
}

// Tree is a flat, preorder node list rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

func (t *Tree) leaf(x []uint8) []float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Feature == Leaf {
			return n.Value
		}
		if x[n.Feature] == 0 {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// validate checks that the tree is well formed: children point forward
// (no cycles), features are in range and leaves carry a full distribution.
func (t *Tree) validate(nFeatures, nClasses int) error {
	if len(t.Nodes) == 0 {
		return errors.New("empty tree")
	}
	for i, n := range t.Nodes {
		if n.Feature == Leaf {
			if len(n.Value) != nClasses {
				return fmt.Errorf("node %d: leaf has %d values, want %d", i, len(n.Value), nClasses)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= nFeatures {
			return fmt.Errorf("node %d: feature %d out of range", i, n.Feature)
		}
		if n.Left <= i || n.Left >= len(t.Nodes) || n.Right <= i || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d: invalid children %d/%d", i, n.Left, n.Right)
		}
	}
	return nil
}

// Depth returns the length of the longest root-to-leaf path.
func (t *Tree) Depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		n := t.Nodes[i]
		if n.Feature == Leaf {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	return walk(0)
}
