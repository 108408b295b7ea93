package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/may-baker/helpdesk-service/internal/config"
)

// Sender submits one notification mail to one recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Mailer is an SMTP Sender built on gomail.
type Mailer struct {
	cfg config.SMTPConfig
}

// NewMailer creates the mailer from SMTP configuration.
func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send dials and submits the message, bounded by the SMTP timeout and the
// caller's context, whichever expires first.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.cfg.Host == "" {
		return errors.New("smtp host not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	d.SSL = m.cfg.Secure
	if m.cfg.Secure {
		d.TLSConfig = &tls.Config{ServerName: m.cfg.Host}
	}

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(msg)
	}()

	wait := m.cfg.Timeout()
	if dl, ok := ctx.Deadline(); ok {
		if until := time.Until(dl); until > 0 && until < wait {
			wait = until
		}
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return context.DeadlineExceeded
	}
}
