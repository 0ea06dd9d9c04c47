package symptom

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// VocabularyVersion identifies the canonical symptom list below.
const VocabularyVersion = "v1"

// canonical is the feature layout shared by training and serving. Append-only
// changes still require a new version: positions are part of the model contract.
var canonical = []string{
	"fever", "fatigue", "headache", "cough", "sore_throat", "runny_nose", "shortness_of_breath",
	"chest_pain", "dizziness", "nausea", "vomiting", "diarrhea", "abdominal_pain",
	"loss_of_appetite", "constipation", "muscle_pain", "joint_pain", "rash", "swelling",
	"anxiety", "depression",
}

var defaultVocabulary = MustVocabulary(VocabularyVersion, canonical)

// Vocabulary is the ordered, closed set of recognized symptom names (immutable value object).
type Vocabulary struct {
	version  string
	names    []string
	index    map[string]int
	checksum string
}

// NewVocabulary validates and creates a Vocabulary.
// Names must be non-empty and unique; order is preserved.
func NewVocabulary(version string, names []string) (Vocabulary, error) {
	if version == "" {
		return Vocabulary{}, fmt.Errorf("vocabulary version is required")
	}
	if len(names) == 0 {
		return Vocabulary{}, fmt.Errorf("vocabulary must not be empty")
	}

	index := make(map[string]int, len(names))
	for i, n := range names {
		if n == "" {
			return Vocabulary{}, fmt.Errorf("vocabulary entry %d is empty", i)
		}
		if _, dup := index[n]; dup {
			return Vocabulary{}, fmt.Errorf("duplicate vocabulary entry: %s", n)
		}
		index[n] = i
	}

	cp := make([]string, len(names))
	copy(cp, names)

	return Vocabulary{
		version:  version,
		names:    cp,
		index:    index,
		checksum: Checksum(cp),
	}, nil
}

// MustVocabulary calls NewVocabulary and panics on error.
func MustVocabulary(version string, names []string) Vocabulary {
	v, err := NewVocabulary(version, names)
	if err != nil {
		panic(err)
	}
	return v
}

// Default returns the canonical 21-symptom vocabulary.
func Default() Vocabulary { return defaultVocabulary }

// Checksum returns the hex SHA-256 of the newline-joined names.
func Checksum(names []string) string {
	h := sha256.Sum256([]byte(strings.Join(names, "\n")))
	return hex.EncodeToString(h[:])
}

// Version returns the vocabulary version tag.
func (v Vocabulary) Version() string { return v.version }

// Checksum returns the checksum of the ordered names.
func (v Vocabulary) Checksum() string { return v.checksum }

// Len returns the number of feature positions.
func (v Vocabulary) Len() int { return len(v.names) }

// Names returns a copy of the ordered names.
func (v Vocabulary) Names() []string {
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}

// Name returns the symptom at position i.
func (v Vocabulary) Name(i int) string { return v.names[i] }

// Index returns the feature position of name.
func (v Vocabulary) Index(name string) (int, bool) {
	i, ok := v.index[name]
	return i, ok
}

// Contains reports whether name is a recognized symptom.
func (v Vocabulary) Contains(name string) bool {
	_, ok := v.index[name]
	return ok
}

// Equal reports whether both vocabularies have the same names in the same order.
func (v Vocabulary) Equal(o Vocabulary) bool {
	if len(v.names) != len(o.names) {
		return false
	}
	for i := range v.names {
		if v.names[i] != o.names[i] {
			return false
		}
	}
	return true
}
