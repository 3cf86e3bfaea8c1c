// internal/workers/ticket/process-ticket/handler.go
package processticket

import (
	"context"
	"encoding/json"
	"errors"

	commonerrors "support-copilot/internal/common/errors"
	"support-copilot/internal/common/logger"
	"support-copilot/internal/models"
	"support-copilot/internal/repository"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "process-ticket"
)

// TicketProcessor runs the classification pipeline for one ticket.
type TicketProcessor interface {
	Process(ctx context.Context, req models.ClassificationRequest) (models.ProcessedTicket, error)
}

type Handler struct {
	config    *Config
	processor TicketProcessor
	errors    *commonerrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, processor TicketProcessor, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		processor: processor,
		errors:    commonerrors.NewErrorHandler(log),
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errors.HandleJobError(ctx, client, job, commonerrors.NewInvalidRequestError(err.Error()))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, h.asStandardError(err, input.TicketID))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	ticketID, err := uuid.Parse(input.TicketID)
	if err != nil {
		return nil, commonerrors.NewInvalidRequestError("ticketId must be a valid UUID: " + input.TicketID)
	}

	ticket, err := h.processor.Process(ctx, models.ClassificationRequest{
		TicketID:    ticketID,
		Description: input.Description,
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		TicketID:  ticket.TicketID.String(),
		Category:  string(ticket.Category),
		Sentiment: string(ticket.Sentiment),
		Processed: ticket.Processed,
	}, nil
}

// asStandardError maps pipeline errors onto workflow error codes.
func (h *Handler) asStandardError(err error, ticketID string) error {
	if errors.Is(err, repository.ErrTicketNotFound) {
		return commonerrors.NewTicketNotFoundError(ticketID)
	}
	if errors.Is(err, repository.ErrRepository) {
		return commonerrors.NewRepositoryError(err)
	}
	return err
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
