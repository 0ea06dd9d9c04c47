package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput signals that no recognized symptom remained after filtering.
	ErrEmptyInput = errors.New("no recognized symptoms")
	// ErrModelUnavailable signals that no valid model artifact is loaded.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrLabelNotMapped signals a predicted label without catalog metadata.
	ErrLabelNotMapped = errors.New("label not mapped")
	// ErrPredictionFailure signals a fault during inference.
	ErrPredictionFailure = errors.New("prediction failure")

	// ErrVocabularyMismatch signals train/serve vocabulary skew.
	ErrVocabularyMismatch = errors.New("vocabulary mismatch")
	// ErrInvalidArtifact signals a malformed or incomplete model artifact.
	ErrInvalidArtifact = errors.New("invalid model artifact")
	// ErrUnknownDisease signals a catalog lookup for an unknown label.
	ErrUnknownDisease = errors.New("unknown disease")
	// ErrExtractorUnavailable signals that free-text extraction is disabled or failing.
	ErrExtractorUnavailable = errors.New("symptom extractor unavailable")
	// ErrReloadInProgress signals that another model reload is running.
	ErrReloadInProgress = errors.New("model reload in progress")
)

// ModelUnavailableError wraps ErrModelUnavailable with the reason the last load failed.
type ModelUnavailableError struct {
	Path   string
	Reason error
}

func (e *ModelUnavailableError) Error() string {
	if e.Reason == nil {
		return fmt.Sprintf("%s: %s", ErrModelUnavailable.Error(), e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", ErrModelUnavailable.Error(), e.Path, e.Reason)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is.
func (e *ModelUnavailableError) Unwrap() []error {
	if e.Reason == nil {
		return []error{ErrModelUnavailable}
	}
	return []error{ErrModelUnavailable, e.Reason}
}

// NewModelUnavailable creates a model-unavailable error for the given artifact path.
func NewModelUnavailable(path string, reason error) error {
	return &ModelUnavailableError{Path: path, Reason: reason}
}
