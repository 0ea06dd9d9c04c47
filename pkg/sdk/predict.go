package symptomd

import (
	"context"
	"time"

	domprediction "github.com/kailas-cloud/symptomd/internal/domain/prediction"
)

// ClassProbability is the model's probability for one disease.
type ClassProbability struct {
	Disease     string
	Probability float64
}

// Prediction is the classifier outcome with care guidance.
type Prediction struct {
	ID              string
	Disease         string
	Confidence      float64 // percent, 0..100
	Recommendations []string
	Precautions     []string
	WhenToSeeDoctor string
	Specialization  string
	Distribution    []ClassProbability // highest first
	Matched         []string
	Ignored         []string
	// Fallback is true when the model predicted a disease without guidance
	// and the default disease was reported instead.
	Fallback     bool
	ModelVersion string
}

// Predict classifies a list of symptoms. Symptoms are normalized
// ("Runny Nose" becomes "runny_nose"); unknown ones are ignored and
// reported in Prediction.Ignored.
func (c *Client) Predict(ctx context.Context, symptoms []string) (Prediction, error) {
	return c.predict(ctx, "predict", symptoms, "")
}

// PredictText classifies selected symptoms plus a free-text description.
// With WithOpenAIExtractor the text is mapped to known symptoms by the
// model; otherwise it is split on commas.
func (c *Client) PredictText(ctx context.Context, symptoms []string, text string) (Prediction, error) {
	return c.predict(ctx, "predict_text", symptoms, text)
}

func (c *Client) predict(ctx context.Context, op string, symptoms []string, text string) (p Prediction, err error) {
	start := time.Now()
	defer func() { c.obs.observe(op, start, err) }()

	res, err := c.predictSvc.PredictText(ctx, symptoms, text)
	if err != nil {
		return Prediction{}, err //nolint:wrapcheck // sentinels are part of the SDK contract
	}
	p = toPrediction(res)
	c.obs.observePrediction(&p)
	return p, nil
}

func toPrediction(r domprediction.Result) Prediction {
	dist := r.Distribution()
	out := make([]ClassProbability, len(dist))
	for i, d := range dist {
		out[i] = ClassProbability{Disease: string(d.Label), Probability: d.Probability}
	}
	return Prediction{
		ID:              r.ID(),
		Disease:         string(r.Disease()),
		Confidence:      r.Confidence(),
		Recommendations: r.Recommendations(),
		Precautions:     r.Precautions(),
		WhenToSeeDoctor: r.WhenToSeeDoctor(),
		Specialization:  r.Specialization(),
		Distribution:    out,
		Matched:         r.Matched(),
		Ignored:         r.Ignored(),
		Fallback:        r.Fallback(),
		ModelVersion:    r.ModelVersion(),
	}
}
