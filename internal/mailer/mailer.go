package mailer

import (
	"context"
	"fmt"

	"leasehub-backend/internal/config"
)

// Message is a single outbound email. HTML is optional.
type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New builds the sender selected by cfg.Provider.
func New(ctx context.Context, cfg config.EmailConfig) (Sender, error) {
	switch cfg.Provider {
	case "smtp":
		return NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.From), nil
	case "sendgrid":
		return NewSendGridSender(cfg.SendGrid.APIKey, cfg.From, cfg.FromName), nil
	case "ses":
		return NewSESSender(ctx, cfg.SES.Region, cfg.From)
	case "log", "":
		return NewLogSender(), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}
