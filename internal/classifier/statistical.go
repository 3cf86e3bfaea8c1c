// internal/classifier/statistical.go
package classifier

import (
	"context"

	"support-copilot/internal/common/logger"
	"support-copilot/internal/models"
)

// Statistical combines the lexical category heuristic with the local
// sentiment model. It fails iff the sentiment model fails; it never returns
// a partial result.
type Statistical struct {
	analyzer SentimentClassifier
	logger   logger.Logger
}

func NewStatistical(analyzer SentimentClassifier, log logger.Logger) *Statistical {
	return &Statistical{
		analyzer: analyzer,
		logger:   log.WithFields(map[string]interface{}{"component": "statistical-classifier"}),
	}
}

func (s *Statistical) Classify(ctx context.Context, req models.ClassificationRequest) (models.ClassificationResult, error) {
	category := ClassifyCategory(req.Description)

	sentiment, err := s.analyzer.ClassifySentiment(req.Description)
	if err != nil {
		s.logger.Warn("statistical classification failed", map[string]interface{}{
			"ticketId": req.TicketID.String(),
			"error":    err.Error(),
		})
		return models.ClassificationResult{}, err
	}

	return models.ClassificationResult{Category: category, Sentiment: sentiment}, nil
}
