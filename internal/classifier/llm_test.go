// internal/classifier/llm_test.go
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"support-copilot/internal/common/config"
	"support-copilot/internal/common/logger"
	"support-copilot/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createRequest(description string) models.ClassificationRequest {
	return models.ClassificationRequest{
		TicketID:    uuid.New(),
		Description: description,
	}
}

// openAIServer fakes the chat-completions endpoint, answering every request
// with the given assistant message content.
func openAIServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Zero(t, body.Temperature)

		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"error":{"message":"upstream unhappy"}}`)
			return
		}

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func llmAgainst(t *testing.T, server *httptest.Server) *LLM {
	t.Helper()
	cfg := config.LLMConfig{
		Provider: "openai",
		Model:    "gpt-4o-mini",
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Timeout:  5000,
	}
	return NewLLM(cfg, logger.NewTestLogger(t))
}

// spyProvider counts calls so tests can assert no network attempt happened.
type spyProvider struct {
	calls    int
	response string
	err      error
}

func (s *spyProvider) Name() string { return "spy" }

func (s *spyProvider) SendStructuredRequest(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.calls++
	return s.response, s.err
}

// ==========================
// Core Functionality Tests
// ==========================

func TestLLM_Classify_Success(t *testing.T) {
	server := openAIServer(t, `{"category":"Facturacion","sentiment":"Negativo"}`, http.StatusOK)
	defer server.Close()

	llm := llmAgainst(t, server)
	result, err := llm.Classify(context.Background(), createRequest("me cobraron dos veces"))

	require.NoError(t, err)
	assert.Equal(t, models.CategoryBilling, result.Category)
	assert.Equal(t, models.SentimentNegative, result.Sentiment)
}

func TestLLM_Classify_ExtractsJSONFromProse(t *testing.T) {
	content := "Aqui esta la clasificacion:\n```json\n{\"category\":\"Tecnico\",\"sentiment\":\"Neutral\"}\n```"
	server := openAIServer(t, content, http.StatusOK)
	defer server.Close()

	llm := llmAgainst(t, server)
	result, err := llm.Classify(context.Background(), createRequest("la app se cae"))

	require.NoError(t, err)
	assert.Equal(t, models.CategoryTechnical, result.Category)
	assert.Equal(t, models.SentimentNeutral, result.Sentiment)
}

// ==========================
// Failure Mode Tests
// ==========================

func TestLLM_Classify_SchemaValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json at all", content: "lo siento, no puedo clasificar esto"},
		{name: "missing sentiment", content: `{"category":"Tecnico"}`},
		{name: "out-of-enum category", content: `{"category":"Spam","sentiment":"Neutral"}`},
		{name: "out-of-enum sentiment", content: `{"category":"Tecnico","sentiment":"Furious"}`},
		{name: "english labels rejected", content: `{"category":"Technical","sentiment":"Negative"}`},
		{name: "wrong types", content: `{"category":1,"sentiment":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := openAIServer(t, tt.content, http.StatusOK)
			defer server.Close()

			llm := llmAgainst(t, server)
			_, err := llm.Classify(context.Background(), createRequest("cualquier cosa"))
			assert.ErrorIs(t, err, ErrSchemaValidation)
		})
	}
}

func TestLLM_Classify_ExternalServiceError(t *testing.T) {
	t.Run("http 500", func(t *testing.T) {
		server := openAIServer(t, "", http.StatusInternalServerError)
		defer server.Close()

		llm := llmAgainst(t, server)
		_, err := llm.Classify(context.Background(), createRequest("hola"))
		assert.ErrorIs(t, err, ErrExternalService)
	})

	t.Run("http 401", func(t *testing.T) {
		server := openAIServer(t, "", http.StatusUnauthorized)
		defer server.Close()

		llm := llmAgainst(t, server)
		_, err := llm.Classify(context.Background(), createRequest("hola"))
		assert.ErrorIs(t, err, ErrExternalService)
	})

	t.Run("unreachable provider", func(t *testing.T) {
		server := openAIServer(t, "", http.StatusOK)
		server.Close() // connection refused from here on

		llm := llmAgainst(t, server)
		_, err := llm.Classify(context.Background(), createRequest("hola"))
		assert.ErrorIs(t, err, ErrExternalService)
	})

	t.Run("timeout", func(t *testing.T) {
		slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer slow.Close()

		cfg := config.LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
			APIKey:   "test-key",
			BaseURL:  slow.URL,
			Timeout:  50,
		}
		llm := NewLLM(cfg, logger.NewTestLogger(t))

		start := time.Now()
		_, err := llm.Classify(context.Background(), createRequest("hola"))
		assert.ErrorIs(t, err, ErrExternalService)
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestLLM_Classify_UnsupportedProvider(t *testing.T) {
	var networkCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		networkCalls++
	}))
	defer server.Close()

	cfg := config.LLMConfig{
		Provider: "groq",
		Model:    "whatever",
		APIKey:   "k",
		BaseURL:  server.URL,
		Timeout:  5000,
	}
	llm := NewLLM(cfg, logger.NewTestLogger(t))

	_, err := llm.Classify(context.Background(), createRequest("hola"))
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
	assert.Zero(t, networkCalls, "unsupported provider must fail before any network call")
}

func TestLLM_Classify_SpyProviderCallCount(t *testing.T) {
	t.Run("single call per classification", func(t *testing.T) {
		spy := &spyProvider{response: `{"category":"Comercial","sentiment":"Positivo"}`}
		llm := NewLLMWithProvider(spy, time.Second, logger.NewTestLogger(t))

		_, err := llm.Classify(context.Background(), createRequest("quiero ampliar mi plan"))
		require.NoError(t, err)
		assert.Equal(t, 1, spy.calls)
	})

	t.Run("no retry on provider failure", func(t *testing.T) {
		spy := &spyProvider{err: fmt.Errorf("connection reset")}
		llm := NewLLMWithProvider(spy, time.Second, logger.NewTestLogger(t))

		_, err := llm.Classify(context.Background(), createRequest("hola"))
		assert.ErrorIs(t, err, ErrExternalService)
		assert.Equal(t, 1, spy.calls)
	})
}

func TestNewProvider_UnknownIdentifier(t *testing.T) {
	_, err := NewProvider(config.LLMConfig{Provider: "hf"})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)

	_, err = NewProvider(config.LLMConfig{Provider: ""})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}
