// Package training generates the synthetic dataset and fits the serving model offline.
package training

import (
	"fmt"
	"math/rand"

	"github.com/kailas-cloud/symptomd/internal/domain/disease"
	"github.com/kailas-cloud/symptomd/internal/domain/symptom"
)

// Rule assigns Label to vectors that have every symptom in Requires.
type Rule struct {
	Label    disease.Label
	Requires []string
}

// DefaultRules is the labeling table. The first matching rule wins.
func DefaultRules() []Rule {
	return []Rule{
		{disease.CommonCold, []string{"fever", "cough", "runny_nose"}},
		{disease.Flu, []string{"fever", "fatigue", "headache", "cough"}},
		{disease.Covid19, []string{"fever", "cough", "shortness_of_breath", "chest_pain"}},
		{disease.Gastroenteritis, []string{"nausea", "vomiting", "diarrhea"}},
		{disease.AnxietyDisorder, []string{"anxiety"}},
		{disease.Depression, []string{"depression"}},
	}
}

type compiledRule struct {
	label     disease.Label
	positions []int
}

// Labeler applies a rule table to feature vectors. Vectors matching no rule
// get a label drawn uniformly from the fallback set.
type Labeler struct {
	rules    []compiledRule
	fallback []disease.Label
}

// NewLabeler resolves rule symptoms against vocab.
func NewLabeler(vocab symptom.Vocabulary, rules []Rule, fallback []disease.Label) (*Labeler, error) {
	if len(fallback) == 0 {
		return nil, fmt.Errorf("fallback labels are required")
	}
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		if len(r.Requires) == 0 {
			return nil, fmt.Errorf("rule %s has no symptoms", r.Label)
		}
		pos := make([]int, 0, len(r.Requires))
		for _, name := range r.Requires {
			i, ok := vocab.Index(name)
			if !ok {
				return nil, fmt.Errorf("rule %s: symptom %q not in vocabulary", r.Label, name)
			}
			pos = append(pos, i)
		}
		compiled = append(compiled, compiledRule{label: r.Label, positions: pos})
	}
	return &Labeler{rules: compiled, fallback: fallback}, nil
}

// Match returns the label of the first rule x satisfies.
func (l *Labeler) Match(x []uint8) (disease.Label, bool) {
	for _, r := range l.rules {
		all := true
		for _, p := range r.positions {
			if x[p] == 0 {
				all = false
				break
			}
		}
		if all {
			return r.label, true
		}
	}
	return "", false
}

// Label returns the rule label or a uniform random fallback label.
func (l *Labeler) Label(x []uint8, rng *rand.Rand) disease.Label {
	if label, ok := l.Match(x); ok {
		return label
	}
	return l.fallback[rng.Intn(len(l.fallback))]
}
