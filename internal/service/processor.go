// internal/service/processor.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"support-copilot/internal/common/logger"
	"support-copilot/internal/common/observability"
	"support-copilot/internal/models"
)

// Cascade yields a classification for every request. It never fails.
type Cascade interface {
	ClassifyWithStage(ctx context.Context, req models.ClassificationRequest) (models.ClassificationResult, string)
}

// TicketStore persists the classification outcome.
type TicketStore interface {
	UpdateClassification(ctx context.Context, ticketID uuid.UUID, result models.ClassificationResult) (models.ProcessedTicket, error)
}

// ResultCache memoizes results by description. Implementations must treat
// failures as misses.
type ResultCache interface {
	Get(ctx context.Context, description string) (models.ClassificationResult, bool)
	Set(ctx context.Context, description string, result models.ClassificationResult)
}

// HistoryIndexer archives outcomes for search. Best effort.
type HistoryIndexer interface {
	IndexClassification(ctx context.Context, ticket models.ProcessedTicket, stage string) error
}

// Notifier alerts on negative tickets. Best effort.
type Notifier interface {
	NotifyNegativeTicket(ctx context.Context, ticket models.ProcessedTicket) error
}

// Processor runs the full ticket pipeline: cached or cascaded classification,
// persistence, then archival and alerting. Only persistence errors escape;
// the classification itself cannot fail.
type Processor struct {
	cascade  Cascade
	store    TicketStore
	cache    ResultCache
	history  HistoryIndexer
	notifier Notifier
	obs      *observability.Observability
	logger   logger.Logger
}

func NewProcessor(cascade Cascade, store TicketStore, cache ResultCache, history HistoryIndexer, notifier Notifier, log logger.Logger) *Processor {
	return &Processor{
		cascade:  cascade,
		store:    store,
		cache:    cache,
		history:  history,
		notifier: notifier,
		logger:   log.WithFields(map[string]interface{}{"component": "ticket-processor"}),
	}
}

// WithObservability attaches a metrics recorder for processed tickets.
func (p *Processor) WithObservability(obs *observability.Observability) *Processor {
	p.obs = obs
	return p
}

const stageCached = "cached"

func (p *Processor) Process(ctx context.Context, req models.ClassificationRequest) (models.ProcessedTicket, error) {
	start := time.Now()
	result, stage, hit := p.classify(ctx, req)

	ticket, err := p.store.UpdateClassification(ctx, req.TicketID, result)
	if err != nil {
		if p.obs != nil {
			p.obs.RecordTicketProcessed(ctx, "failed")
			p.obs.RecordProcessDuration(ctx, time.Since(start), "failed")
		}
		return models.ProcessedTicket{}, err
	}

	if !hit && p.cache != nil {
		p.cache.Set(ctx, req.Description, result)
	}

	if p.history != nil {
		if err := p.history.IndexClassification(ctx, ticket, stage); err != nil {
			p.logger.WithError(err).Warn("History archival skipped", map[string]interface{}{
				"ticket_id": ticket.TicketID.String(),
			})
		}
	}

	if p.notifier != nil {
		if err := p.notifier.NotifyNegativeTicket(ctx, ticket); err != nil {
			p.logger.WithError(err).Warn("Negative ticket alert skipped", map[string]interface{}{
				"ticket_id": ticket.TicketID.String(),
			})
		}
	}

	if p.obs != nil {
		p.obs.RecordTicketProcessed(ctx, "success")
		p.obs.RecordProcessDuration(ctx, time.Since(start), "success")
	}

	p.logger.Info("Ticket processed", map[string]interface{}{
		"ticket_id": ticket.TicketID.String(),
		"category":  string(ticket.Category),
		"sentiment": string(ticket.Sentiment),
		"stage":     stage,
	})
	return ticket, nil
}

func (p *Processor) classify(ctx context.Context, req models.ClassificationRequest) (models.ClassificationResult, string, bool) {
	if p.cache != nil {
		if cached, found := p.cache.Get(ctx, req.Description); found {
			p.logger.Debug("Classification served from cache", map[string]interface{}{
				"ticket_id": req.TicketID.String(),
			})
			return cached, stageCached, true
		}
	}

	result, stage := p.cascade.ClassifyWithStage(ctx, req)
	return result, stage, false
}
