package symptomd

import "github.com/kailas-cloud/symptomd/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyInput           = domain.ErrEmptyInput
	ErrModelUnavailable     = domain.ErrModelUnavailable
	ErrPredictionFailure    = domain.ErrPredictionFailure
	ErrUnknownDisease       = domain.ErrUnknownDisease
	ErrVocabularyMismatch   = domain.ErrVocabularyMismatch
	ErrInvalidArtifact      = domain.ErrInvalidArtifact
	ErrReloadInProgress     = domain.ErrReloadInProgress
	ErrExtractorUnavailable = domain.ErrExtractorUnavailable
)
