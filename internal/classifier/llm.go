// internal/classifier/llm.go
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"support-copilot/internal/common/config"
	"support-copilot/internal/common/logger"
	"support-copilot/internal/models"
)

// classificationSchema is the structured output contract the remote model
// must conform to. Both fields are pinned to the closed enumerations.
var classificationSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"category", "sentiment"},
	"properties": map[string]interface{}{
		"category": map[string]interface{}{
			"type": "string",
			"enum": []string{
				string(models.CategoryTechnical),
				string(models.CategoryBilling),
				string(models.CategoryCommercial),
			},
		},
		"sentiment": map[string]interface{}{
			"type": "string",
			"enum": []string{
				string(models.SentimentPositive),
				string(models.SentimentNeutral),
				string(models.SentimentNegative),
			},
		},
	},
}

// Models wrap the answer in prose or code fences often enough that we pull
// out the first JSON object instead of decoding the raw text.
var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// LLM classifies tickets through a remote language-model provider. One
// provider call per classification, no internal retry.
type LLM struct {
	provider    Provider
	providerErr error
	timeout     time.Duration
	logger      logger.Logger
}

// NewLLM resolves the configured provider. Resolution failure is kept and
// surfaced on the first Classify call as a fast local error, so the cascade
// owns the fallthrough policy.
func NewLLM(cfg config.LLMConfig, log logger.Logger) *LLM {
	provider, err := NewProvider(cfg)
	return &LLM{
		provider:    provider,
		providerErr: err,
		timeout:     config.GetDuration(cfg.Timeout),
		logger:      log.WithFields(map[string]interface{}{"component": "llm-classifier"}),
	}
}

// NewLLMWithProvider wires an explicit provider, used by tests and by any
// caller that already holds one.
func NewLLMWithProvider(provider Provider, timeout time.Duration, log logger.Logger) *LLM {
	return &LLM{
		provider: provider,
		timeout:  timeout,
		logger:   log.WithFields(map[string]interface{}{"component": "llm-classifier"}),
	}
}

func (l *LLM) Classify(ctx context.Context, req models.ClassificationRequest) (models.ClassificationResult, error) {
	if l.providerErr != nil {
		l.logger.Warn("llm classification failed", map[string]interface{}{
			"ticketId":  req.TicketID.String(),
			"errorKind": "UNSUPPORTED_PROVIDER",
			"error":     l.providerErr.Error(),
		})
		return models.ClassificationResult{}, l.providerErr
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	raw, err := l.provider.SendStructuredRequest(ctx, systemPrompt(), userPrompt(req.Description))
	if err != nil {
		l.logger.Warn("llm classification failed", map[string]interface{}{
			"ticketId":  req.TicketID.String(),
			"provider":  l.provider.Name(),
			"errorKind": "EXTERNAL_SERVICE_ERROR",
			"error":     err.Error(),
		})
		return models.ClassificationResult{}, fmt.Errorf("%w: %v", ErrExternalService, err)
	}

	result, err := l.parseResponse(raw)
	if err != nil {
		l.logger.Warn("llm classification failed", map[string]interface{}{
			"ticketId":  req.TicketID.String(),
			"provider":  l.provider.Name(),
			"errorKind": "SCHEMA_VALIDATION_FAILED",
			"error":     err.Error(),
		})
		return models.ClassificationResult{}, err
	}

	return result, nil
}

// parseResponse extracts the JSON object from the model text and validates
// it against the classification schema before decoding.
func (l *LLM) parseResponse(raw string) (models.ClassificationResult, error) {
	match := jsonObjectRe.FindString(raw)
	if match == "" {
		return models.ClassificationResult{}, fmt.Errorf("%w: no JSON object in response", ErrSchemaValidation)
	}

	schemaLoader := gojsonschema.NewGoLoader(classificationSchema)
	documentLoader := gojsonschema.NewStringLoader(match)

	validation, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return models.ClassificationResult{}, fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	if !validation.Valid() {
		details := make([]string, 0, len(validation.Errors()))
		for _, desc := range validation.Errors() {
			details = append(details, desc.String())
		}
		return models.ClassificationResult{}, fmt.Errorf("%w: %s", ErrSchemaValidation, strings.Join(details, "; "))
	}

	var result models.ClassificationResult
	if err := json.Unmarshal([]byte(match), &result); err != nil {
		return models.ClassificationResult{}, fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}

	return result, nil
}

func systemPrompt() string {
	categories := make([]string, 0, 3)
	for _, c := range models.Categories() {
		categories = append(categories, string(c))
	}
	sentiments := make([]string, 0, 3)
	for _, s := range models.Sentiments() {
		sentiments = append(sentiments, string(s))
	}

	return "Eres un asistente de soporte. Debes clasificar tickets con precision.\n" +
		"Reglas:\n" +
		"- category SOLO puede ser: " + strings.Join(categories, ", ") + "\n" +
		"- sentiment SOLO puede ser: " + strings.Join(sentiments, ", ") + "\n" +
		"- Responde unicamente con un objeto JSON con las claves \"category\" y \"sentiment\", sin texto adicional."
}

func userPrompt(description string) string {
	return "Ticket:\n" + description
}
