package notification

import (
	"context"

	"ecomStore/pkg/logger"
)

// LogRepository writes outgoing mail to the application log instead of
// delivering it. Used in development.
type LogRepository struct{}

func NewLogRepository() *LogRepository {
	return &LogRepository{}
}

func (LogRepository) SendEmail(ctx context.Context, toName, toEmail, subject, message string) error {
	logger.Info("Email not delivered, mail provider is log",
		"to", toEmail,
		"name", toName,
		"subject", subject,
		"body", message,
	)
	return nil
}
