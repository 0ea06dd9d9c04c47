package symptomd

import "github.com/kailas-cloud/symptomd/internal/domain/disease"

// Disease is the care guidance for one disease.
type Disease struct {
	Name            string
	Recommendations []string
	Precautions     []string
	WhenToSeeDoctor string
	Specialization  string
}

// Vocabulary returns the symptom names the model understands, in feature order.
func (c *Client) Vocabulary() []string {
	return c.predictSvc.Vocabulary().Names()
}

// Diseases returns the catalog in its configured order.
func (c *Client) Diseases() []Disease {
	infos := c.predictSvc.Catalog().Infos()
	out := make([]Disease, len(infos))
	for i, info := range infos {
		out[i] = toDisease(info)
	}
	return out
}

// Disease returns the guidance for one disease or ErrUnknownDisease.
func (c *Client) Disease(name string) (Disease, error) {
	info, err := c.predictSvc.Catalog().Get(disease.Label(name))
	if err != nil {
		return Disease{}, err //nolint:wrapcheck // wraps ErrUnknownDisease
	}
	return toDisease(info), nil
}

func toDisease(info disease.Info) Disease {
	return Disease{
		Name:            string(info.Label()),
		Recommendations: info.Recommendations(),
		Precautions:     info.Precautions(),
		WhenToSeeDoctor: info.WhenToSeeDoctor(),
		Specialization:  info.Specialization(),
	}
}
