package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"leasehub-backend/internal/logger"
)

// sesAPI is the subset of *ses.Client used here.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type sesSender struct {
	client sesAPI
	from   string
}

func NewSESSender(ctx context.Context, region, from string) (Sender, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &sesSender{client: ses.NewFromConfig(cfg), from: from}, nil
}

func (s *sesSender) Send(ctx context.Context, msg Message) error {
	body := &types.Body{
		Text: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(msg.Text)},
	}
	if msg.HTML != "" {
		body.Html = &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(msg.HTML)}
	}
	input := &ses.SendEmailInput{
		Destination: &types.Destination{ToAddresses: []string{msg.To}},
		Source:      aws.String(s.from),
		Message: &types.Message{
			Subject: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(msg.Subject)},
			Body:    body,
		},
	}

	logger.ExternalServiceCall("ses", "SendEmail", "to", msg.To, "subject", msg.Subject)
	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		logger.ExternalServiceResult("ses", "SendEmail", err, "to", msg.To)
		return fmt.Errorf("error sending email: %w", err)
	}
	logger.ExternalServiceResult("ses", "SendEmail", nil, "to", msg.To, "messageID", aws.ToString(out.MessageId))
	return nil
}
