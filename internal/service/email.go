package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

// DocumentEmail is a generated document addressed to a client.
type DocumentEmail struct {
	To         string
	ClientName string
	CaseStyle  string
	DocumentID string
	Filename   string
	HTML       []byte
}

// SendDocument mails the document with its HTML as the message body and a
// plain-text fallback linking back to the document page.
func (s *EmailService) SendDocument(ctx context.Context, msg DocumentEmail) error {
	documentURL := fmt.Sprintf("%s/documents/%s", s.appURL, msg.DocumentID)
	subject, text := documentEmailTemplate(msg.ClientName, msg.CaseStyle, msg.Filename, documentURL, s.appName)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "document", "to", msg.To, "subject", subject, "url", documentURL, "bytes", len(msg.HTML))
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{msg.To},
		Subject: subject,
		Html:    string(msg.HTML),
		Text:    text,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", "document", "to", msg.To, "document_id", msg.DocumentID)
	}
	return err
}
