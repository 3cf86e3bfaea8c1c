// internal/repository/tickets.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"support-copilot/internal/common/logger"
	"support-copilot/internal/common/metrics"
	"support-copilot/internal/models"
)

var (
	ErrTicketNotFound = errors.New("TICKET_NOT_FOUND")
	ErrRepository     = errors.New("REPOSITORY_ERROR")
)

// TicketRepository persists classification outcomes on the tickets table.
type TicketRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewTicketRepository(db *sql.DB, log logger.Logger) *TicketRepository {
	return &TicketRepository{
		db:     db,
		logger: log,
	}
}

// UpdateClassification stores the category and sentiment for a ticket and marks
// it processed. A ticket id that matches no row yields ErrTicketNotFound.
func (r *TicketRepository) UpdateClassification(ctx context.Context, ticketID uuid.UUID, result models.ClassificationResult) (models.ProcessedTicket, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tickets
		SET category = $1, sentiment = $2, processed = true
		WHERE id = $3`,
		string(result.Category), string(result.Sentiment), ticketID.String())
	if err != nil {
		metrics.TicketUpdatesFailed.WithLabelValues("REPOSITORY_ERROR").Inc()
		r.logger.WithError(err).Error("Ticket update failed", map[string]interface{}{
			"ticket_id": ticketID.String(),
		})
		return models.ProcessedTicket{}, fmt.Errorf("%w: %v", ErrRepository, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		metrics.TicketUpdatesFailed.WithLabelValues("REPOSITORY_ERROR").Inc()
		return models.ProcessedTicket{}, fmt.Errorf("%w: %v", ErrRepository, err)
	}
	if rows == 0 {
		metrics.TicketUpdatesFailed.WithLabelValues("TICKET_NOT_FOUND").Inc()
		r.logger.Warn("Ticket not found", map[string]interface{}{
			"ticket_id": ticketID.String(),
		})
		return models.ProcessedTicket{}, fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID.String())
	}

	return models.ProcessedTicket{
		TicketID:  ticketID,
		Category:  result.Category,
		Sentiment: result.Sentiment,
		Processed: true,
	}, nil
}
