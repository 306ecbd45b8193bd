package notify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/parentchild/account-service/internal/config"
)

// Message is a single HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dialer is the SMTP transport. *gomail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// ErrNoRecipient is returned for messages without a To address.
var ErrNoRecipient = errors.New("notify: message has no recipient")

// Mailer sends HTML mail over SMTP with a bounded number of attempts.
type Mailer struct {
	dialer   Dialer
	from     string
	attempts int
	logger   *zap.Logger
}

// MailerOption customizes a Mailer.
type MailerOption func(*Mailer)

// WithDialer replaces the SMTP transport.
func WithDialer(d Dialer) MailerOption {
	return func(m *Mailer) {
		m.dialer = d
	}
}

// NewMailer builds a mailer from config. Without EMAIL_HOST delivery is skipped.
func NewMailer(cfg config.EmailConfig, attempts int, logger *zap.Logger, opts ...MailerOption) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if attempts < 1 {
		attempts = 1
	}
	m := &Mailer{
		from:     cfg.From,
		attempts: attempts,
		logger:   logger.Named("mailer"),
	}
	if cfg.Host != "" {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send delivers msg, retrying up to the configured attempts.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	if m.dialer == nil {
		m.logger.Info("smtp not configured; skipping email",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject))
		return nil
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	var err error
	for attempt := 1; attempt <= m.attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err = m.dialer.DialAndSend(gm); err == nil {
			m.logger.Debug("email sent", zap.String("to", msg.To), zap.Int("attempt", attempt))
			return nil
		}
		m.logger.Warn("email attempt failed",
			zap.String("to", msg.To),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}
	return fmt.Errorf("send to %s after %d attempts: %w", msg.To, m.attempts, err)
}
