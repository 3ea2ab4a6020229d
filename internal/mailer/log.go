package mailer

import (
	"context"

	"leasehub-backend/internal/logger"
)

type logSender struct{}

// NewLogSender returns a Sender that only logs, for local development.
func NewLogSender() Sender {
	return logSender{}
}

func (logSender) Send(ctx context.Context, msg Message) error {
	logger.InfoContext(ctx, "Email (not sent)", "to", msg.To, "subject", msg.Subject, "body", msg.Text)
	return nil
}
