package disease

import "fmt"

// Label is a disease name from the closed catalog.
type Label string

// Labels known to the default catalog and the training rule table.
const (
	CommonCold      Label = "Common Cold"
	Flu             Label = "Flu"
	Covid19         Label = "COVID-19"
	Gastroenteritis Label = "Gastroenteritis"
	AnxietyDisorder Label = "Anxiety Disorder"
	Depression      Label = "Depression"
)

// All returns the default labels in training order.
func All() []Label {
	return []Label{CommonCold, Flu, Covid19, Gastroenteritis, AnxietyDisorder, Depression}
}

// Info is the guidance attached to a label (immutable value object).
type Info struct {
	label           Label
	recommendations []string
	precautions     []string
	whenToSeeDoctor string
	specialization  string
}

// NewInfo validates and creates an Info.
// Label and doctor-visit guidance are required; lists must be non-empty.
func NewInfo(label Label, recommendations, precautions []string, whenToSeeDoctor, specialization string) (Info, error) {
	if label == "" {
		return Info{}, fmt.Errorf("disease label is required")
	}
	if len(recommendations) == 0 {
		return Info{}, fmt.Errorf("%s: recommendations are required", label)
	}
	if len(precautions) == 0 {
		return Info{}, fmt.Errorf("%s: precautions are required", label)
	}
	if whenToSeeDoctor == "" {
		return Info{}, fmt.Errorf("%s: doctor-visit guidance is required", label)
	}
	if specialization == "" {
		specialization = GeneralPhysician
	}
	return Info{
		label:           label,
		recommendations: cloneStrings(recommendations),
		precautions:     cloneStrings(precautions),
		whenToSeeDoctor: whenToSeeDoctor,
		specialization:  specialization,
	}, nil
}

// Label returns the disease label.
func (i Info) Label() Label { return i.label }

// Recommendations returns a copy of the ordered recommendations.
func (i Info) Recommendations() []string { return cloneStrings(i.recommendations) }

// Precautions returns a copy of the ordered precautions.
func (i Info) Precautions() []string { return cloneStrings(i.precautions) }

// WhenToSeeDoctor returns the doctor-visit guidance.
func (i Info) WhenToSeeDoctor() string { return i.whenToSeeDoctor }

// Specialization returns the doctor specialization to consult.
func (i Info) Specialization() string { return i.specialization }

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
