package mailer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is a single plain-text email.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Body    string
}

// Mailer delivers messages through an external email provider. Delivery is
// best-effort per recipient; a non-nil error means the provider did not confirm
// delivery.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Config contains the SendGrid credentials and sender identity.
type Config struct {
	APIKey    string
	FromName  string
	FromEmail string
}

// SendGridMailer implements Mailer using the SendGrid v3 API.
type SendGridMailer struct {
	client *sendgrid.Client
	cfg    Config
	logger zerolog.Logger
}

// New constructs a SendGrid-backed mailer.
func New(cfg Config, logger zerolog.Logger) (*SendGridMailer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}

	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("sender email is required")
	}

	return &SendGridMailer{
		client: sendgrid.NewSendClient(cfg.APIKey),
		cfg:    cfg,
		logger: logger.With().Str("component", "mailer").Logger(),
	}, nil
}

// Send dispatches one message and confirms provider acceptance.
func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail(m.cfg.FromName, m.cfg.FromEmail)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	email := mail.NewSingleEmailPlainText(from, msg.Subject, to, msg.Body)

	response, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}

	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected message: status %d", response.StatusCode)
	}

	m.logger.Info().Str("to", msg.ToEmail).Str("subject", msg.Subject).Msg("email delivered")

	return nil
}
