// Package artifact persists a fitted classifier together with the symptom
// vocabulary it was trained on.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/kailas-cloud/symptomd/internal/classifier/forest"
	"github.com/kailas-cloud/symptomd/internal/domain"
	"github.com/kailas-cloud/symptomd/internal/domain/symptom"
)

// FormatVersion is the current document layout version.
const FormatVersion = 1

// KindRandomForest identifies a forest.Forest payload.
const KindRandomForest = "random_forest"

// Vocabulary is the persisted vocabulary section.
type Vocabulary struct {
	Version  string   `json:"version"`
	Checksum string   `json:"checksum"`
	Names    []string `json:"names"`
}

// TrainingInfo records how the model was produced.
type TrainingInfo struct {
	Samples   int       `json:"samples"`
	Trees     int       `json:"trees"`
	Seed      int64     `json:"seed"`
	Accuracy  float64   `json:"accuracy"`
	CreatedAt time.Time `json:"created_at"`
}

// Document is the on-disk JSON layout.
type Document struct {
	Kind          string          `json:"kind"`
	FormatVersion int             `json:"format_version"`
	Vocabulary    Vocabulary      `json:"vocabulary"`
	Classes       []string        `json:"classes"`
	Model         json.RawMessage `json:"model"`
	Training      TrainingInfo    `json:"training"`
}

type forestPayload struct {
	NumFeatures int           `json:"num_features"`
	Trees       []forest.Tree `json:"trees"`
}

// Artifact is a decoded document. Model holds the kind-specific classifier;
// callers probe it for the capabilities they need.
type Artifact struct {
	Kind       string
	Version    string
	Vocabulary symptom.Vocabulary
	Classes    []string
	Model      any
	Training   TrainingInfo
}

// Decoder turns a document into a classifier of one kind.
type Decoder func(doc *Document) (any, error)

var decoders = map[string]Decoder{
	KindRandomForest: decodeForest,
}

// Register adds a decoder for kind. Call from init; not safe for concurrent use with Decode.
func Register(kind string, d Decoder) {
	decoders[kind] = d
}

func decodeForest(doc *Document) (any, error) {
	var p forestPayload
	if err := json.Unmarshal(doc.Model, &p); err != nil {
		return nil, fmt.Errorf("decode forest: %w", err)
	}
	if p.NumFeatures != len(doc.Vocabulary.Names) {
		return nil, fmt.Errorf("forest expects %d features, vocabulary has %d", p.NumFeatures, len(doc.Vocabulary.Names))
	}
	return forest.New(doc.Classes, p.NumFeatures, p.Trees)
}

// Encode serializes a forest with its vocabulary.
func Encode(f *forest.Forest, vocab symptom.Vocabulary, info TrainingInfo) ([]byte, error) {
	if f.NumFeatures() != vocab.Len() {
		return nil, fmt.Errorf("forest has %d features, vocabulary %d: %w", f.NumFeatures(), vocab.Len(), domain.ErrVocabularyMismatch)
	}
	model, err := json.Marshal(forestPayload{NumFeatures: f.NumFeatures(), Trees: f.Trees()})
	if err != nil {
		return nil, fmt.Errorf("encode forest: %w", err)
	}
	doc := Document{
		Kind:          KindRandomForest,
		FormatVersion: FormatVersion,
		Vocabulary: Vocabulary{
			Version:  vocab.Version(),
			Checksum: vocab.Checksum(),
			Names:    vocab.Names(),
		},
		Classes:  f.Classes(),
		Model:    model,
		Training: info,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return data, nil
}

// Decode parses and validates an artifact document.
// Structural problems wrap domain.ErrInvalidArtifact.
func Decode(data []byte) (*Artifact, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse artifact: %w: %w", domain.ErrInvalidArtifact, err)
	}
	if doc.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("format version %d: %w", doc.FormatVersion, domain.ErrInvalidArtifact)
	}
	dec, ok := decoders[doc.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown kind %q: %w", doc.Kind, domain.ErrInvalidArtifact)
	}

	vocab, err := symptom.NewVocabulary(doc.Vocabulary.Version, doc.Vocabulary.Names)
	if err != nil {
		return nil, fmt.Errorf("vocabulary: %w: %w", domain.ErrInvalidArtifact, err)
	}
	if vocab.Checksum() != doc.Vocabulary.Checksum {
		return nil, fmt.Errorf("vocabulary checksum %s does not match names: %w", doc.Vocabulary.Checksum, domain.ErrInvalidArtifact)
	}

	model, err := dec(&doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", doc.Kind, domain.ErrInvalidArtifact, err)
	}

	sum := sha256.Sum256(data)
	return &Artifact{
		Kind:       doc.Kind,
		Version:    hex.EncodeToString(sum[:6]),
		Vocabulary: vocab,
		Classes:    doc.Classes,
		Model:      model,
		Training:   doc.Training,
	}, nil
}

// Save writes the artifact atomically (temp file + rename).
func Save(path string, f *forest.Forest, vocab symptom.Vocabulary, info TrainingInfo) error {
	data, err := Encode(f, vocab, info)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error takes precedence
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename artifact: %w", err)
	}
	return nil
}

// Load reads and decodes the artifact at path.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return Decode(data)
}
