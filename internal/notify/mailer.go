// Package notify delivers outbound email for notification digests.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/straye-as/portfolio-api/internal/config"
	"go.uber.org/zap"
)

// Message is a plain-text email
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends email
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer returns an SES mailer when email is enabled, and a NopMailer otherwise
func NewMailer(ctx context.Context, cfg *config.EmailConfig, logger *zap.Logger) (Mailer, error) {
	if !cfg.Enabled {
		logger.Info("Email delivery disabled, digests will only be logged")
		return NewNopMailer(logger), nil
	}
	if cfg.FromAddress == "" {
		return nil, fmt.Errorf("email from address is required when email is enabled")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	logger.Info("SES mailer initialized",
		zap.String("region", awsCfg.Region),
		zap.String("from", cfg.FromAddress),
	)
	return NewSESMailer(sesv2.NewFromConfig(awsCfg), cfg.FromAddress, logger), nil
}

// SESMailer sends email through the SESv2 API
type SESMailer struct {
	client *sesv2.Client
	from   string
	logger *zap.Logger
}

func NewSESMailer(client *sesv2.Client, from string, logger *zap.Logger) *SESMailer {
	return &SESMailer{
		client: client,
		from:   from,
		logger: logger,
	}
}

func (m *SESMailer) Send(ctx context.Context, msg Message) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination:      &sestypes.Destination{ToAddresses: []string{msg.To}},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body:    &sestypes.Body{Text: &sestypes.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")}},
			},
		},
	}

	out, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Debug("email sent", zap.String("to", msg.To), zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}

// NopMailer logs messages instead of sending them
type NopMailer struct {
	logger *zap.Logger
}

func NewNopMailer(logger *zap.Logger) *NopMailer {
	return &NopMailer{logger: logger}
}

func (m *NopMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Info("email not sent, delivery disabled",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
