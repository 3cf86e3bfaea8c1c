// internal/classifier/cascade.go
package classifier

import (
	"context"
	"errors"
	"time"

	commonerrors "support-copilot/internal/common/errors"
	"support-copilot/internal/common/logger"
	"support-copilot/internal/common/metrics"
	"support-copilot/internal/models"
	"support-copilot/internal/sentiment"
)

// Stage labels, used for logging and metrics.
const (
	StageLLM         = "llm"
	StageStatistical = "statistical"
	StageLastResort  = "last_resort"
)

// cascadeState drives the ordered attempt sequence. Transitions only move
// forward; Done is reached from any state on success or from lastResort
// unconditionally.
type cascadeState int

const (
	attemptingLLM cascadeState = iota
	attemptingStatistical
	lastResort
	done
)

// Cascade tries the LLM classifier, then the statistical classifier, then a
// pure-heuristic last resort. First success wins. Classify is total: it
// always returns a valid result and never an error.
type Cascade struct {
	llm         Classifier
	statistical Classifier
	logger      logger.Logger
}

func NewCascade(llm, statistical Classifier, log logger.Logger) *Cascade {
	return &Cascade{
		llm:         llm,
		statistical: statistical,
		logger:      log.WithFields(map[string]interface{}{"component": "classification-cascade"}),
	}
}

func (c *Cascade) Classify(ctx context.Context, req models.ClassificationRequest) models.ClassificationResult {
	result, _ := c.ClassifyWithStage(ctx, req)
	return result
}

// ClassifyWithStage reports which stage produced the result alongside it.
func (c *Cascade) ClassifyWithStage(ctx context.Context, req models.ClassificationRequest) (models.ClassificationResult, string) {
	start := time.Now()

	var result models.ClassificationResult
	var resultStage string

	state := attemptingLLM
	for state != done {
		switch state {
		case attemptingLLM:
			res, err := c.llm.Classify(ctx, req)
			if err == nil {
				result, resultStage = res, StageLLM
				state = done
				break
			}
			c.logFallthrough(StageLLM, req, err)
			state = attemptingStatistical

		case attemptingStatistical:
			res, err := c.statistical.Classify(ctx, req)
			if err == nil {
				result, resultStage = res, StageStatistical
				state = done
				break
			}
			c.logFallthrough(StageStatistical, req, err)
			state = lastResort

		case lastResort:
			// Heuristic category cannot fail; sentiment defaults to Neutral
			// with no inference attempted.
			result = models.ClassificationResult{
				Category:  ClassifyCategory(req.Description),
				Sentiment: models.SentimentNeutral,
			}
			resultStage = StageLastResort
			state = done
		}
	}

	metrics.ClassificationsTotal.WithLabelValues(resultStage).Inc()
	metrics.ClassificationDuration.WithLabelValues(resultStage).Observe(time.Since(start).Seconds())

	return result, resultStage
}

func (c *Cascade) logFallthrough(stage string, req models.ClassificationRequest, err error) {
	code := errorCode(err)
	c.logger.Warn("classifier stage failed, falling through", map[string]interface{}{
		"stage":     stage,
		"ticketId":  req.TicketID.String(),
		"errorCode": code,
		"error":     err.Error(),
	})
	metrics.ClassificationFallthroughs.WithLabelValues(stage, code).Inc()
}

// errorCode maps stage errors to stable codes for logs and metrics. Anything
// unrecognized still falls through, under UNKNOWN_ERROR.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedProvider):
		return string(commonerrors.ErrCodeUnsupportedProvider)
	case errors.Is(err, ErrExternalService):
		return string(commonerrors.ErrCodeExternalService)
	case errors.Is(err, ErrSchemaValidation):
		return string(commonerrors.ErrCodeSchemaValidation)
	case errors.Is(err, sentiment.ErrModelUnavailable):
		return string(commonerrors.ErrCodeModelUnavailable)
	case errors.Is(err, sentiment.ErrModelOutput):
		return string(commonerrors.ErrCodeModelOutput)
	default:
		return "UNKNOWN_ERROR"
	}
}
