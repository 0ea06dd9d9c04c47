package disease

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/symptomd/internal/domain"
)

// Specializations used by the default catalog.
const (
	GeneralPhysician   = "General Physician"
	Pulmonologist      = "Pulmonologist"
	Gastroenterologist = "Gastroenterologist"
	Psychiatrist       = "Psychiatrist"
)

// Generic guidance for responses that carry no usable label.
const (
	GenericRecommendation  = "Consult a doctor."
	GenericPrecaution      = "Maintain hygiene."
	GenericWhenToSeeDoctor = "If symptoms worsen, visit a hospital."
)

// Catalog maps labels to guidance. Read-only after construction.
type Catalog struct {
	entries      map[Label]Info
	order        []Label
	defaultLabel Label
}

// NewCatalog validates and creates a Catalog. The default label must have an entry.
func NewCatalog(infos []Info, defaultLabel Label) (Catalog, error) {
	if len(infos) == 0 {
		return Catalog{}, fmt.Errorf("catalog must not be empty")
	}
	entries := make(map[Label]Info, len(infos))
	order := make([]Label, 0, len(infos))
	for _, info := range infos {
		if _, dup := entries[info.Label()]; dup {
			return Catalog{}, fmt.Errorf("duplicate catalog entry: %s", info.Label())
		}
		entries[info.Label()] = info
		order = append(order, info.Label())
	}
	if _, ok := entries[defaultLabel]; !ok {
		return Catalog{}, fmt.Errorf("default disease %q: %w", defaultLabel, domain.ErrUnknownDisease)
	}
	return Catalog{entries: entries, order: order, defaultLabel: defaultLabel}, nil
}

// Lookup returns the entry for l.
func (c Catalog) Lookup(l Label) (Info, bool) {
	info, ok := c.entries[l]
	return info, ok
}

// Get returns the entry for l or domain.ErrUnknownDisease.
func (c Catalog) Get(l Label) (Info, error) {
	info, ok := c.entries[l]
	if !ok {
		return Info{}, fmt.Errorf("%q: %w", l, domain.ErrUnknownDisease)
	}
	return info, nil
}

// Resolve returns the entry for l, or the default label's entry with
// fallback=true when l has none.
func (c Catalog) Resolve(l Label) (info Info, fallback bool) {
	if info, ok := c.entries[l]; ok {
		return info, false
	}
	return c.entries[c.defaultLabel], true
}

// DefaultLabel returns the configured fallback label.
func (c Catalog) DefaultLabel() Label { return c.defaultLabel }

// WithDefault returns a copy of the catalog using l as the fallback label.
func (c Catalog) WithDefault(l Label) (Catalog, error) {
	if _, ok := c.entries[l]; !ok {
		return Catalog{}, fmt.Errorf("default disease %q: %w", l, domain.ErrUnknownDisease)
	}
	c.defaultLabel = l
	return c, nil
}

// Labels returns the catalog labels in insertion order.
func (c Catalog) Labels() []Label {
	out := make([]Label, len(c.order))
	copy(out, c.order)
	return out
}

// Infos returns all entries in insertion order.
func (c Catalog) Infos() []Info {
	out := make([]Info, 0, len(c.order))
	for _, l := range c.order {
		out = append(out, c.entries[l])
	}
	return out
}

// Missing returns the labels from ls that have no catalog entry.
func (c Catalog) Missing(ls []Label) []Label {
	var out []Label
	for _, l := range ls {
		if _, ok := c.entries[l]; !ok {
			out = append(out, l)
		}
	}
	return out
}

type catalogFile struct {
	Diseases []struct {
		Label           string   `yaml:"label"`
		Recommendations []string `yaml:"recommendations"`
		Precautions     []string `yaml:"precautions"`
		WhenToSeeDoctor string   `yaml:"when_to_see_doctor"`
		Specialization  string   `yaml:"specialization"`
	} `yaml:"diseases"`
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(data []byte, defaultLabel Label) (Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	infos := make([]Info, 0, len(f.Diseases))
	for _, d := range f.Diseases {
		info, err := NewInfo(Label(d.Label), d.Recommendations, d.Precautions, d.WhenToSeeDoctor, d.Specialization)
		if err != nil {
			return Catalog{}, fmt.Errorf("catalog entry: %w", err)
		}
		infos = append(infos, info)
	}
	return NewCatalog(infos, defaultLabel)
}
