// internal/sentiment/analyzer.go
package sentiment

import (
	"fmt"
	"strings"
	"sync"

	"support-copilot/internal/common/logger"
	"support-copilot/internal/models"
)

// labelMap converts the model's native label space to the Sentiment enum.
// It must cover every label a supported weights file can declare.
var labelMap = map[string]models.Sentiment{
	"negative": models.SentimentNegative,
	"neutral":  models.SentimentNeutral,
	"positive": models.SentimentPositive,
	"label_0":  models.SentimentNegative,
	"label_1":  models.SentimentNeutral,
	"label_2":  models.SentimentPositive,
}

// Analyzer owns the lazily loaded model. The first call loads the weights;
// every later call reuses the same read-only model, so concurrent requests
// share a single load.
type Analyzer struct {
	path   string
	logger logger.Logger

	once    sync.Once
	model   *Model
	loadErr error
}

func NewAnalyzer(modelPath string, log logger.Logger) *Analyzer {
	return &Analyzer{
		path:   modelPath,
		logger: log.WithFields(map[string]interface{}{"component": "sentiment-analyzer"}),
	}
}

// ClassifySentiment runs inference and maps the model's label to the
// Sentiment enum.
func (a *Analyzer) ClassifySentiment(text string) (models.Sentiment, error) {
	a.once.Do(func() {
		a.model, a.loadErr = LoadModel(a.path)
		if a.loadErr != nil {
			a.logger.Error("sentiment model load failed", map[string]interface{}{
				"modelPath": a.path,
				"error":     a.loadErr.Error(),
			})
			return
		}
		a.logger.Info("sentiment model loaded", map[string]interface{}{
			"modelPath": a.path,
			"model":     a.model.Name(),
		})
	})

	if a.loadErr != nil {
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, a.loadErr)
	}

	pred := a.model.Predict(text)
	sentiment, ok := labelMap[strings.ToLower(strings.TrimSpace(pred.Label))]
	if !ok {
		return "", fmt.Errorf("%w: unknown label %q", ErrModelOutput, pred.Label)
	}

	return sentiment, nil
}
