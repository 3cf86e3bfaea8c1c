// internal/classifier/classifier.go

// Package classifier implements the ticket classification cascade: a remote
// LLM stage, a local statistical stage, and a pure-heuristic last resort.
package classifier

import (
	"context"
	"errors"

	"support-copilot/internal/models"
)

var (
	ErrUnsupportedProvider = errors.New("UNSUPPORTED_PROVIDER")
	ErrExternalService     = errors.New("EXTERNAL_SERVICE_ERROR")
	ErrSchemaValidation    = errors.New("SCHEMA_VALIDATION_FAILED")
)

// Classifier is the contract every cascade stage satisfies.
type Classifier interface {
	Classify(ctx context.Context, req models.ClassificationRequest) (models.ClassificationResult, error)
}

// SentimentClassifier is the local sentiment model capability used by the
// statistical stage.
type SentimentClassifier interface {
	ClassifySentiment(text string) (models.Sentiment, error)
}
