package main

import (
	"fmt"

	"github.com/kailas-cloud/symptomd/internal/domain/symptom"
	"github.com/kailas-cloud/symptomd/internal/training"
)

func symptomVocabulary() symptom.Vocabulary { return symptom.Default() }

func generate(samples int, seed int64) (*training.Dataset, error) {
	ds, err := training.Generate(symptomVocabulary(), training.DefaultLabeler(), samples, seed)
	if err != nil {
		return nil, fmt.Errorf("generate dataset: %w", err)
	}
	return ds, nil
}
