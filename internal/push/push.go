package push

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"leasehub-backend/internal/logger"
)

// Sender delivers a push notification to a single device.
type Sender interface {
	Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error
}

// fcmClient is the subset of *messaging.Client used here.
type fcmClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type fcmSender struct {
	client fcmClient
}

// NewFCMSender initializes a Firebase app from a service account file.
func NewFCMSender(ctx context.Context, credentialsFile string) (Sender, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	return &fcmSender{client: client}, nil
}

func (s *fcmSender) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	logger.ExternalServiceCall("fcm", "send", "title", title)
	id, err := s.client.Send(ctx, &messaging.Message{
		Token:        deviceToken,
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         data,
	})
	logger.ExternalServiceResult("fcm", "send", err, "messageID", id)
	return err
}

type noopSender struct{}

// NewNoopSender is used when push delivery is disabled.
func NewNoopSender() Sender {
	return noopSender{}
}

func (noopSender) Send(context.Context, string, string, string, map[string]string) error {
	return nil
}
