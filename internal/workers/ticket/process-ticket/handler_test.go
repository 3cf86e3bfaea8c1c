// internal/workers/ticket/process-ticket/handler_test.go
package processticket

import (
	"context"
	"testing"
	"time"

	commonerrors "support-copilot/internal/common/errors"
	"support-copilot/internal/common/logger"
	"support-copilot/internal/models"
	"support-copilot/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type stubProcessor struct {
	err     error
	calls   int
	lastReq models.ClassificationRequest
}

func (s *stubProcessor) Process(ctx context.Context, req models.ClassificationRequest) (models.ProcessedTicket, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return models.ProcessedTicket{}, s.err
	}
	return models.ProcessedTicket{
		TicketID:  req.TicketID,
		Category:  models.CategoryBilling,
		Sentiment: models.SentimentNegative,
		Processed: true,
	}, nil
}

func createTestConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}

func createTestHandler(t *testing.T, processor TicketProcessor) *Handler {
	return NewHandler(createTestConfig(), processor, logger.NewTestLogger(t))
}

func createInput(ticketID, description string) *Input {
	return &Input{
		TicketID:    ticketID,
		Description: description,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	processor := &stubProcessor{}
	handler := createTestHandler(t, processor)
	ticketID := uuid.New()

	output, err := handler.Execute(context.Background(), createInput(ticketID.String(), "me cobraron dos veces"))

	require.NoError(t, err)
	assert.Equal(t, ticketID.String(), output.TicketID)
	assert.Equal(t, "Facturacion", output.Category)
	assert.Equal(t, "Negativo", output.Sentiment)
	assert.True(t, output.Processed)

	assert.Equal(t, 1, processor.calls)
	assert.Equal(t, ticketID, processor.lastReq.TicketID)
	assert.Equal(t, "me cobraron dos veces", processor.lastReq.Description)
}

func TestHandler_Execute_InvalidTicketID(t *testing.T) {
	processor := &stubProcessor{}
	handler := createTestHandler(t, processor)

	_, err := handler.Execute(context.Background(), createInput("not-a-uuid", "algo"))

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeInvalidRequest, stdErr.Code)
	assert.Zero(t, processor.calls)
}

func TestHandler_MapsSinkErrorsToWorkflowCodes(t *testing.T) {
	handler := createTestHandler(t, &stubProcessor{})
	ticketID := uuid.NewString()

	tests := []struct {
		name     string
		err      error
		wantCode commonerrors.ErrorCode
	}{
		{name: "ticket not found", err: repository.ErrTicketNotFound, wantCode: commonerrors.ErrCodeTicketNotFound},
		{name: "repository failure", err: repository.ErrRepository, wantCode: commonerrors.ErrCodeRepository},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := handler.asStandardError(tt.err, ticketID)

			var stdErr *commonerrors.StandardError
			require.ErrorAs(t, mapped, &stdErr)
			assert.Equal(t, tt.wantCode, stdErr.Code)
		})
	}
}

func TestHandler_Execute_ProcessorErrors(t *testing.T) {
	tests := []struct {
		name    string
		procErr error
	}{
		{name: "ticket not found", procErr: repository.ErrTicketNotFound},
		{name: "repository failure", procErr: repository.ErrRepository},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t, &stubProcessor{err: tt.procErr})

			_, err := handler.Execute(context.Background(), createInput(uuid.NewString(), "algo"))
			assert.ErrorIs(t, err, tt.procErr)
		})
	}
}
