package training

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/symptomd/internal/domain"
	"github.com/kailas-cloud/symptomd/internal/domain/disease"
	"github.com/kailas-cloud/symptomd/internal/domain/symptom"
)

// LabelColumn is the trailing CSV column holding the disease label.
const LabelColumn = "disease"

// Dataset is a labeled binary feature matrix in vocabulary column order.
type Dataset struct {
	Vocabulary symptom.Vocabulary
	X          [][]uint8
	Y          []string
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.X) }

// Counts returns the number of samples per label.
func (d *Dataset) Counts() map[string]int {
	out := make(map[string]int)
	for _, y := range d.Y {
		out[y]++
	}
	return out
}

// Generate draws n random symptom vectors and labels them with l.
// Output depends only on n and seed.
func Generate(vocab symptom.Vocabulary, l *Labeler, n int, seed int64) (*Dataset, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sample count must be positive, got %d", n)
	}
	rng := rand.New(rand.NewSource(seed))
	ds := &Dataset{
		Vocabulary: vocab,
		X:          make([][]uint8, n),
		Y:          make([]string, n),
	}
	for i := 0; i < n; i++ {
		row := make([]uint8, vocab.Len())
		for j := range row {
			row[j] = uint8(rng.Intn(2))
		}
		ds.X[i] = row
		ds.Y[i] = string(l.Label(row, rng))
	}
	return ds, nil
}

// WriteCSV writes a header of vocabulary names plus LabelColumn, then one row per sample.
func WriteCSV(w io.Writer, ds *Dataset) error {
	cw := csv.NewWriter(w)
	header := append(ds.Vocabulary.Names(), LabelColumn)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(header))
	for i, row := range ds.X {
		for j, b := range row {
			if b == 0 {
				rec[j] = "0"
			} else {
				rec[j] = "1"
			}
		}
		rec[len(rec)-1] = ds.Y[i]
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ReadCSV parses a dataset written by WriteCSV. The header must list vocab's
// names in order; anything else is domain.ErrVocabularyMismatch.
func ReadCSV(r io.Reader, vocab symptom.Vocabulary) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = vocab.Len() + 1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if header[len(header)-1] != LabelColumn {
		return nil, fmt.Errorf("last column %q, want %q", header[len(header)-1], LabelColumn)
	}
	got, err := symptom.NewVocabulary(vocab.Version(), header[:len(header)-1])
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if !got.Equal(vocab) {
		return nil, fmt.Errorf("csv columns differ from vocabulary %s: %w", vocab.Version(), domain.ErrVocabularyMismatch)
	}

	ds := &Dataset{Vocabulary: vocab}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		row := make([]uint8, vocab.Len())
		for j := range row {
			switch rec[j] {
			case "0":
			case "1":
				row[j] = 1
			default:
				return nil, fmt.Errorf("line %d column %s: value %q is not 0/1", line, vocab.Name(j), rec[j])
			}
		}
		label := rec[len(rec)-1]
		if label == "" {
			return nil, fmt.Errorf("line %d: empty label", line)
		}
		ds.X = append(ds.X, row)
		ds.Y = append(ds.Y, label)
	}
	if ds.Len() == 0 {
		return nil, errors.New("dataset has no rows")
	}
	return ds, nil
}

// SaveCSV writes the dataset to path, creating parent directories.
func SaveCSV(path string, ds *Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	f, err := os.Create(path) //nolint:gosec // path comes from CLI flags
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, ds); err != nil {
		f.Close() //nolint:errcheck,gosec // write error takes precedence
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// LoadCSV reads a dataset from path.
func LoadCSV(path string, vocab symptom.Vocabulary) (*Dataset, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from CLI flags
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only

	return ReadCSV(f, vocab)
}

// DefaultLabeler builds the labeler for the default vocabulary, rules and labels.
func DefaultLabeler() *Labeler {
	l, err := NewLabeler(symptom.Default(), DefaultRules(), disease.All())
	if err != nil {
		panic(err)
	}
	return l
}
