// internal/models/ticket.go
package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Category is the closed set of ticket categories. The serialized values are
// the literal strings the tickets table and every external boundary use.
type Category string

const (
	CategoryTechnical  Category = "Tecnico"
	CategoryBilling    Category = "Facturacion"
	CategoryCommercial Category = "Comercial"
)

// Sentiment is the closed set of ticket sentiments.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positivo"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negativo"
)

// Categories lists every valid category in declaration order.
func Categories() []Category {
	return []Category{CategoryTechnical, CategoryBilling, CategoryCommercial}
}

// Sentiments lists every valid sentiment in declaration order.
func Sentiments() []Sentiment {
	return []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}
}

// ParseCategory converts a serialized category to the enum value. Anything
// outside the closed set is an error.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryTechnical, CategoryBilling, CategoryCommercial:
		return Category(s), nil
	}
	return "", fmt.Errorf("invalid category: %q", s)
}

// ParseSentiment converts a serialized sentiment to the enum value.
func ParseSentiment(s string) (Sentiment, error) {
	switch Sentiment(s) {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return Sentiment(s), nil
	}
	return "", fmt.Errorf("invalid sentiment: %q", s)
}

// UnmarshalJSON rejects out-of-enum categories at the boundary.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalJSON rejects out-of-enum sentiments at the boundary.
func (s *Sentiment) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ParseSentiment(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ClassificationRequest is the immutable input to the classification cascade.
// The surrounding request layer guarantees the description is non-empty.
type ClassificationRequest struct {
	TicketID    uuid.UUID `json:"ticket_id"`
	Description string    `json:"description"`
}

// ClassificationResult is produced exactly once per request by the first
// classifier in the cascade that succeeds. Both fields are always populated
// from the closed enumerations.
type ClassificationResult struct {
	Category  Category  `json:"category"`
	Sentiment Sentiment `json:"sentiment"`
}

// ProcessedTicket is the only entity written to external storage.
type ProcessedTicket struct {
	TicketID  uuid.UUID `json:"ticket_id"`
	Category  Category  `json:"category"`
	Sentiment Sentiment `json:"sentiment"`
	Processed bool      `json:"processed"`
}
