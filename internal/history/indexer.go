// internal/history/indexer.go
package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"support-copilot/internal/common/logger"
	"support-copilot/internal/models"
)

// Indexer records classification outcomes in Elasticsearch so past decisions
// stay searchable after the ticket row is overwritten.
type Indexer struct {
	esClient *elasticsearch.Client
	index    string
	logger   logger.Logger
}

type classificationDocument struct {
	TicketID    string `json:"ticket_id"`
	Category    string `json:"category"`
	Sentiment   string `json:"sentiment"`
	Stage       string `json:"stage"`
	ProcessedAt string `json:"processed_at"`
}

func NewIndexer(esClient *elasticsearch.Client, index string, log logger.Logger) *Indexer {
	return &Indexer{
		esClient: esClient,
		index:    index,
		logger:   log,
	}
}

// IndexClassification writes one document per processed ticket. Failures are
// returned to the caller but never block ticket processing.
func (i *Indexer) IndexClassification(ctx context.Context, ticket models.ProcessedTicket, stage string) error {
	doc := classificationDocument{
		TicketID:    ticket.TicketID.String(),
		Category:    string(ticket.Category),
		Sentiment:   string(ticket.Sentiment),
		Stage:       stage,
		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index: i.index,
		Body:  bytes.NewReader(body),
	}

	res, err := req.Do(ctx, i.esClient)
	if err != nil {
		i.logger.WithError(err).Warn("History index request failed", map[string]interface{}{
			"ticket_id": doc.TicketID,
			"index":     i.index,
		})
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		err := fmt.Errorf("history index failed: %s", res.String())
		i.logger.WithError(err).Warn("History index rejected document", map[string]interface{}{
			"ticket_id": doc.TicketID,
			"index":     i.index,
		})
		return err
	}

	i.logger.Debug("Classification indexed", map[string]interface{}{
		"ticket_id": doc.TicketID,
		"index":     i.index,
	})
	return nil
}
