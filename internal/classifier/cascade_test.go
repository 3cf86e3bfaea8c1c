// internal/classifier/cascade_test.go
package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"support-copilot/internal/common/logger"
	"support-copilot/internal/models"
	"support-copilot/internal/sentiment"
)

// ==========================================
// TEST HELPERS
// ==========================================

type stubClassifier struct {
	result models.ClassificationResult
	err    error
	calls  int
}

func (s *stubClassifier) Classify(ctx context.Context, req models.ClassificationRequest) (models.ClassificationResult, error) {
	s.calls++
	return s.result, s.err
}

func okResult(c models.Category, s models.Sentiment) models.ClassificationResult {
	return models.ClassificationResult{Category: c, Sentiment: s}
}

// ==========================================
// CASCADE TESTS
// ==========================================

func TestCascade_FirstSuccessWins(t *testing.T) {
	llm := &stubClassifier{result: okResult(models.CategoryTechnical, models.SentimentNegative)}
	stat := &stubClassifier{result: okResult(models.CategoryBilling, models.SentimentNeutral)}
	cascade := NewCascade(llm, stat, logger.NewTestLogger(t))

	result := cascade.Classify(context.Background(), createRequest("no funciona el login"))

	assert.Equal(t, models.CategoryTechnical, result.Category)
	assert.Equal(t, models.SentimentNegative, result.Sentiment)
	assert.Equal(t, 1, llm.calls)
	assert.Zero(t, stat.calls, "statistical stage must not run when the llm succeeds")
}

func TestCascade_FallsThroughToStatistical(t *testing.T) {
	tests := []struct {
		name   string
		llmErr error
	}{
		{name: "external service error", llmErr: ErrExternalService},
		{name: "schema validation failure", llmErr: ErrSchemaValidation},
		{name: "unsupported provider", llmErr: ErrUnsupportedProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &stubClassifier{err: tt.llmErr}
			stat := &stubClassifier{result: okResult(models.CategoryBilling, models.SentimentNegative)}
			cascade := NewCascade(llm, stat, logger.NewTestLogger(t))

			result := cascade.Classify(context.Background(), createRequest("me cobraron dos veces"))

			assert.Equal(t, models.CategoryBilling, result.Category)
			assert.Equal(t, models.SentimentNegative, result.Sentiment)
			assert.Equal(t, 1, llm.calls)
			assert.Equal(t, 1, stat.calls)
		})
	}
}

func TestCascade_LastResortWhenBothStagesFail(t *testing.T) {
	tests := []struct {
		name         string
		description  string
		statErr      error
		wantCategory models.Category
	}{
		{
			name:         "model unavailable on billing ticket",
			description:  "Necesito el reembolso de mi pago",
			statErr:      sentiment.ErrModelUnavailable,
			wantCategory: models.CategoryBilling,
		},
		{
			name:         "model output invalid on technical ticket",
			description:  "El sistema se cae cada hora",
			statErr:      sentiment.ErrModelOutput,
			wantCategory: models.CategoryTechnical,
		},
		{
			name:         "commercial ticket defaults",
			description:  "Quiero ampliar mi contrato",
			statErr:      sentiment.ErrModelUnavailable,
			wantCategory: models.CategoryCommercial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &stubClassifier{err: ErrExternalService}
			stat := &stubClassifier{err: tt.statErr}
			cascade := NewCascade(llm, stat, logger.NewTestLogger(t))

			result := cascade.Classify(context.Background(), createRequest(tt.description))

			assert.Equal(t, tt.wantCategory, result.Category)
			assert.Equal(t, models.SentimentNeutral, result.Sentiment, "last resort always reports neutral sentiment")
			assert.Equal(t, 1, llm.calls)
			assert.Equal(t, 1, stat.calls)
		})
	}
}

func TestCascade_ResultAlwaysWithinEnums(t *testing.T) {
	llm := &stubClassifier{err: ErrExternalService}
	stat := &stubClassifier{err: sentiment.ErrModelUnavailable}
	cascade := NewCascade(llm, stat, logger.NewTestLogger(t))

	for _, description := range []string{"", "???", "factura", "error login", "buen servicio"} {
		result := cascade.Classify(context.Background(), createRequest(description))
		assert.Contains(t, models.Categories(), result.Category)
		assert.Contains(t, models.Sentiments(), result.Sentiment)
	}
}

func TestCascade_ClassifyWithStage_ReportsWinningStage(t *testing.T) {
	tests := []struct {
		name      string
		llmErr    error
		statErr   error
		wantStage string
	}{
		{name: "llm wins", wantStage: StageLLM},
		{name: "statistical wins", llmErr: ErrExternalService, wantStage: StageStatistical},
		{name: "last resort", llmErr: ErrExternalService, statErr: sentiment.ErrModelUnavailable, wantStage: StageLastResort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &stubClassifier{result: okResult(models.CategoryTechnical, models.SentimentNeutral), err: tt.llmErr}
			stat := &stubClassifier{result: okResult(models.CategoryTechnical, models.SentimentNeutral), err: tt.statErr}
			cascade := NewCascade(llm, stat, logger.NewTestLogger(t))

			_, stage := cascade.ClassifyWithStage(context.Background(), createRequest("algo paso"))
			assert.Equal(t, tt.wantStage, stage)
		})
	}
}

func TestCascade_DeterministicForSameInput(t *testing.T) {
	llm := &stubClassifier{result: okResult(models.CategoryCommercial, models.SentimentPositive)}
	stat := &stubClassifier{}
	cascade := NewCascade(llm, stat, logger.NewTestLogger(t))

	req := createRequest("Quisiera contratar mas licencias")
	first := cascade.Classify(context.Background(), req)
	second := cascade.Classify(context.Background(), req)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, llm.calls)
	assert.Zero(t, stat.calls)
}
