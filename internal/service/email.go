package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"video-rental-store/internal/logger"
)

// OverdueReport is the digest of open rentals past their return-by date.
type OverdueReport struct {
	GeneratedAt time.Time
	Rentals     []OverdueRental
}

type OverdueRental struct {
	RentalID     uuid.UUID
	CustomerID   uuid.UUID
	MovieID      uuid.UUID
	ReturnByDate time.Time
	DaysOverdue  int
}

// mailSender is satisfied by *sendgrid.Client.
type mailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridEmailService struct {
	client    mailSender
	fromEmail string
	fromName  string
}

func NewSendGridEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendGridEmailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) SendOverdueReport(ctx context.Context, to string, report OverdueReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject, body := renderOverdueReport(report)
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("Store Manager", to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	logger.ExternalServiceCall("sendgrid", "Send", "to", to, "rentals", len(report.Rentals))
	response, err := s.client.Send(message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "Send", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "Send", err)
		return err
	}

	logger.ExternalServiceResult("sendgrid", "Send", nil, "status", response.StatusCode)
	return nil
}

type logEmailService struct{}

// NewLogEmailService returns an EmailService that only logs the report. It
// is used when no SendGrid key is configured.
func NewLogEmailService() EmailService {
	return logEmailService{}
}

func (logEmailService) SendOverdueReport(ctx context.Context, to string, report OverdueReport) error {
	subject, body := renderOverdueReport(report)
	logger.Info("Overdue report (email disabled)", "to", to, "subject", subject, "body", body)
	return nil
}

func renderOverdueReport(report OverdueReport) (string, string) {
	subject := fmt.Sprintf("Overdue rentals: %d as of %s", len(report.Rentals), report.GeneratedAt.Format("2006-01-02"))

	var b strings.Builder
	if len(report.Rentals) == 0 {
		b.WriteString("No rentals are overdue.\n")
		return subject, b.String()
	}
	b.WriteString("The following rentals are past their return-by date:\n\n")
	for _, r := range report.Rentals {
		fmt.Fprintf(&b, "- rental %s: customer %s, movie %s, due %s (%d days overdue)\n",
			r.RentalID, r.CustomerID, r.MovieID, r.ReturnByDate.Format(time.RFC3339), r.DaysOverdue)
	}
	return subject, b.String()
}
