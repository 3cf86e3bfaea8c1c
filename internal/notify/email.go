// internal/notify/email.go
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"support-copilot/internal/common/config"
	"support-copilot/internal/common/logger"
	"support-copilot/internal/models"
)

// SESService allows mocking the SES client in tests.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// EmailNotifier alerts the support team when a processed ticket carries
// negative sentiment. Delivery is best effort.
type EmailNotifier struct {
	sesClient SESService
	fromEmail string
	toEmail   string
	logger    logger.Logger
}

func NewEmailNotifier(cfg config.NotificationConfig, log logger.Logger) (*EmailNotifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &EmailNotifier{
		sesClient: ses.NewFromConfig(awsCfg),
		fromEmail: cfg.Email.FromEmail,
		toEmail:   cfg.Email.ToEmail,
		logger:    log,
	}, nil
}

func NewEmailNotifierWithClient(client SESService, fromEmail, toEmail string, log logger.Logger) *EmailNotifier {
	return &EmailNotifier{
		sesClient: client,
		fromEmail: fromEmail,
		toEmail:   toEmail,
		logger:    log,
	}
}

// NotifyNegativeTicket sends an alert email for tickets classified with
// negative sentiment. Any other sentiment is a no-op.
func (n *EmailNotifier) NotifyNegativeTicket(ctx context.Context, ticket models.ProcessedTicket) error {
	if ticket.Sentiment != models.SentimentNegative {
		return nil
	}

	subject := fmt.Sprintf("Ticket negativo: %s", ticket.TicketID.String())
	body := fmt.Sprintf(
		"El ticket %s fue clasificado como %s con sentimiento %s. Requiere atencion prioritaria.",
		ticket.TicketID.String(), ticket.Category, ticket.Sentiment,
	)

	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{n.toEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.fromEmail),
	})
	if err != nil {
		n.logger.WithError(err).Warn("Negative ticket alert failed", map[string]interface{}{
			"ticket_id": ticket.TicketID.String(),
		})
		return err
	}

	n.logger.Info("Negative ticket alert sent", map[string]interface{}{
		"ticket_id": ticket.TicketID.String(),
		"category":  string(ticket.Category),
	})
	return nil
}
