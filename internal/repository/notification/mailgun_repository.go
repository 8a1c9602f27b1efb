package notification

import (
	"context"
	"fmt"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

type MailgunConfig struct {
	Domain      string
	APIKey      string
	SenderEmail string
	SenderName  string
}

type MailgunRepository struct {
	client mg.Mailgun
	sender string
}

func NewMailgunRepository(cfg MailgunConfig) *MailgunRepository {
	return &MailgunRepository{
		client: mg.NewMailgun(cfg.Domain, cfg.APIKey),
		sender: fmt.Sprintf("%s <%s>", cfg.SenderName, cfg.SenderEmail),
	}
}

func (r *MailgunRepository) SendEmail(ctx context.Context, toName, toEmail, subject, message string) error {
	msg := r.client.NewMessage(r.sender, subject, message, fmt.Sprintf("%s <%s>", toName, toEmail))
	msg.SetHtml(message)

	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, _, err := r.client.Send(c, msg); err != nil {
		return fmt.Errorf("mailgun send failed: %w", err)
	}

	return nil
}
