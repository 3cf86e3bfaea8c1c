// internal/classifier/statistical_test.go
package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"support-copilot/internal/common/logger"
	"support-copilot/internal/models"
	"support-copilot/internal/sentiment"
)

// ==========================================
// TEST HELPERS
// ==========================================

type stubAnalyzer struct {
	sentiment models.Sentiment
	err       error
	calls     int
	lastText  string
}

func (s *stubAnalyzer) ClassifySentiment(text string) (models.Sentiment, error) {
	s.calls++
	s.lastText = text
	return s.sentiment, s.err
}

// ==========================================
// STATISTICAL CLASSIFIER TESTS
// ==========================================

func TestStatistical_Classify_CombinesHeuristicCategoryWithModelSentiment(t *testing.T) {
	tests := []struct {
		name          string
		description   string
		modelSent     models.Sentiment
		wantCategory  models.Category
		wantSentiment models.Sentiment
	}{
		{
			name:          "billing ticket with negative sentiment",
			description:   "Me llego una factura duplicada este mes",
			modelSent:     models.SentimentNegative,
			wantCategory:  models.CategoryBilling,
			wantSentiment: models.SentimentNegative,
		},
		{
			name:          "technical ticket with neutral sentiment",
			description:   "La aplicacion da un error al iniciar",
			modelSent:     models.SentimentNeutral,
			wantCategory:  models.CategoryTechnical,
			wantSentiment: models.SentimentNeutral,
		},
		{
			name:          "commercial ticket with positive sentiment",
			description:   "Quisiera informacion sobre el plan empresarial",
			modelSent:     models.SentimentPositive,
			wantCategory:  models.CategoryCommercial,
			wantSentiment: models.SentimentPositive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &stubAnalyzer{sentiment: tt.modelSent}
			stat := NewStatistical(analyzer, logger.NewTestLogger(t))

			result, err := stat.Classify(context.Background(), createRequest(tt.description))

			require.NoError(t, err)
			assert.Equal(t, tt.wantCategory, result.Category)
			assert.Equal(t, tt.wantSentiment, result.Sentiment)
			assert.Equal(t, 1, analyzer.calls)
			assert.Equal(t, tt.description, analyzer.lastText)
		})
	}
}

func TestStatistical_Classify_PropagatesModelErrors(t *testing.T) {
	tests := []struct {
		name     string
		modelErr error
	}{
		{name: "model unavailable", modelErr: sentiment.ErrModelUnavailable},
		{name: "model output invalid", modelErr: sentiment.ErrModelOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &stubAnalyzer{err: tt.modelErr}
			stat := NewStatistical(analyzer, logger.NewTestLogger(t))

			result, err := stat.Classify(context.Background(), createRequest("no funciona nada"))

			assert.ErrorIs(t, err, tt.modelErr)
			assert.Empty(t, result.Category)
			assert.Empty(t, result.Sentiment)
		})
	}
}

func TestStatistical_Classify_WrappedModelErrorStillMatches(t *testing.T) {
	wrapped := errors.Join(sentiment.ErrModelUnavailable, errors.New("weights file missing"))
	analyzer := &stubAnalyzer{err: wrapped}
	stat := NewStatistical(analyzer, logger.NewTestLogger(t))

	_, err := stat.Classify(context.Background(), createRequest("hola"))
	assert.ErrorIs(t, err, sentiment.ErrModelUnavailable)
}
