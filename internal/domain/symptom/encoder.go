package symptom

import (
	"fmt"

	"github.com/kailas-cloud/symptomd/internal/domain"
)

// Vector is a binary feature vector in vocabulary order.
type Vector []uint8

// Count returns the number of active features.
func (v Vector) Count() int {
	n := 0
	for _, b := range v {
		if b != 0 {
			n++
		}
	}
	return n
}

// Active returns the positions set to 1.
func (v Vector) Active() []int {
	out := make([]int, 0, len(v))
	for i, b := range v {
		if b != 0 {
			out = append(out, i)
		}
	}
	return out
}

// Encoder turns symptom tokens into feature vectors over a fixed vocabulary.
// Stateless; safe for concurrent use.
type Encoder struct {
	vocab Vocabulary
}

// NewEncoder creates an encoder for the given vocabulary.
func NewEncoder(vocab Vocabulary) *Encoder {
	return &Encoder{vocab: vocab}
}

// Vocabulary returns the encoder's vocabulary.
func (e *Encoder) Vocabulary() Vocabulary { return e.vocab }

// Encode filters tokens to the vocabulary and returns the binary vector.
// Unknown tokens are dropped. Returns domain.ErrEmptyInput if nothing is left.
func (e *Encoder) Encode(tokens []string) (Vector, error) {
	vec := make(Vector, e.vocab.Len())
	hits := 0
	for _, t := range tokens {
		i, ok := e.vocab.Index(t)
		if !ok {
			continue
		}
		if vec[i] == 0 {
			vec[i] = 1
			hits++
		}
	}
	if hits == 0 {
		return nil, fmt.Errorf("encode %d tokens: %w", len(tokens), domain.ErrEmptyInput)
	}
	return vec, nil
}

// Partition splits tokens into recognized and ignored ones, de-duplicated,
// in order of first appearance.
func (e *Encoder) Partition(tokens []string) (matched, ignored []string) {
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if e.vocab.Contains(t) {
			matched = append(matched, t)
		} else {
			ignored = append(ignored, t)
		}
	}
	return matched, ignored
}

// Single returns the vector with only the named symptom set.
func (e *Encoder) Single(name string) (Vector, error) {
	i, ok := e.vocab.Index(name)
	if !ok {
		return nil, fmt.Errorf("symptom %q: %w", name, domain.ErrEmptyInput)
	}
	vec := make(Vector, e.vocab.Len())
	vec[i] = 1
	return vec, nil
}
