// internal/api/handlers.go
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"support-copilot/internal/common/logger"
	"support-copilot/internal/models"
	"support-copilot/internal/repository"
)

// TicketProcessor runs the classification pipeline for one ticket.
type TicketProcessor interface {
	Process(ctx context.Context, req models.ClassificationRequest) (models.ProcessedTicket, error)
}

// ReadinessChecker reports whether a backing dependency is reachable.
type ReadinessChecker func(ctx context.Context) error

type Handler struct {
	processor TicketProcessor
	checks    map[string]ReadinessChecker
	logger    logger.Logger
}

func NewHandler(processor TicketProcessor, checks map[string]ReadinessChecker, log logger.Logger) *Handler {
	return &Handler{
		processor: processor,
		checks:    checks,
		logger:    log,
	}
}

// ProcessTicketRequest is the POST /process-ticket payload.
type ProcessTicketRequest struct {
	TicketID    string `json:"ticket_id" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// ProcessTicket handles POST /process-ticket.
func (h *Handler) ProcessTicket(c *gin.Context) {
	var req ProcessTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid ticket request", map[string]interface{}{"error": err.Error()})
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	ticketID, err := uuid.Parse(req.TicketID)
	if err != nil {
		h.logger.Warn("Invalid ticket id", map[string]interface{}{"ticket_id": req.TicketID})
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "ticket_id must be a valid UUID"})
		return
	}

	ticket, err := h.processor.Process(c.Request.Context(), models.ClassificationRequest{
		TicketID:    ticketID,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found", "ticket_id": req.TicketID})
		case errors.Is(err, repository.ErrRepository):
			c.JSON(http.StatusBadGateway, gin.H{"error": "ticket update failed"})
		default:
			h.logger.WithError(err).Error("Unexpected processing error", map[string]interface{}{
				"ticket_id": req.TicketID,
			})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "support-copilot",
	})
}

// ReadyCheck handles GET /ready. It pings every registered dependency and
// reports 503 when any is down.
func (h *Handler) ReadyCheck(c *gin.Context) {
	results := gin.H{}
	ready := true
	for name, check := range h.checks {
		if err := check(c.Request.Context()); err != nil {
			results[name] = err.Error()
			ready = false
			continue
		}
		results[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "checks": results})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": results})
}
