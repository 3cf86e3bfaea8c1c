// internal/workers/ticket/process-ticket/models.go
package processticket

type Input struct {
	TicketID    string `json:"ticketId"`
	Description string `json:"description"`
}

// Output carries the classification back into the process instance.
type Output struct {
	TicketID  string `json:"ticketId"`
	Category  string `json:"category"`
	Sentiment string `json:"sentiment"`
	Processed bool   `json:"processed"`
}
