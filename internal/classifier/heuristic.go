// internal/classifier/heuristic.go
package classifier

import (
	"strings"

	"support-copilot/internal/models"
)

// Keyword lists for the lexical category heuristic. Billing is checked
// before technical; a ticket mentioning both an invoice and an error is a
// billing ticket.
var billingKeywords = []string{
	"factura",
	"facturacion",
	"cobro",
	"pago",
	"invoice",
	"billing",
	"refund",
	"reembolso",
}

var technicalKeywords = []string{
	"error",
	"fallo",
	"falla",
	"bug",
	"crash",
	"no funciona",
	"no responde",
	"cae",
	"lento",
	"lentitud",
	"instal",
	"login",
	"acceso",
}

// ClassifyCategory guesses a category from keyword matches. Deterministic,
// case-insensitive, always returns a valid Category.
func ClassifyCategory(text string) models.Category {
	lower := strings.ToLower(text)

	for _, keyword := range billingKeywords {
		if strings.Contains(lower, keyword) {
			return models.CategoryBilling
		}
	}
	for _, keyword := range technicalKeywords {
		if strings.Contains(lower, keyword) {
			return models.CategoryTechnical
		}
	}
	return models.CategoryCommercial
}
