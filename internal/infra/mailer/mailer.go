package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"time"

	"boxcric-api/internal/pkg/config"
	"boxcric-api/internal/pkg/errs"
	"boxcric-api/internal/usecase/commands"
)

// NewMailer returns an SMTP mailer when credentials are configured and a
// log-only mailer otherwise, so local development works without a relay.
func NewMailer(cfg config.SMTPConfig) commands.Mailer {
	if cfg.Configured() {
		return &SMTPMailer{cfg: cfg}
	}
	return &ConsoleMailer{}
}

type SMTPMailer struct {
	cfg config.SMTPConfig
}

func (m *SMTPMailer) SendOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	subject := "Your BoxCric verification code"
	body := fmt.Sprintf(
		"Your verification code is %s. It expires in %d minutes.\r\n",
		code, int(ttl.Minutes()),
	)
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.cfg.From, email, subject, body,
	)

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, m.cfg.From, []string{email}, []byte(msg))
	}()

	select {
	case err := <-done:
		if err != nil {
			return errs.Wrap(err, "failed to send otp mail")
		}
		return nil
	case <-ctx.Done():
		return errs.Wrap(ctx.Err(), "otp mail cancelled")
	}
}

// ConsoleMailer logs the code instead of delivering it.
type ConsoleMailer struct{}

func (m *ConsoleMailer) SendOTP(_ context.Context, email, code string, ttl time.Duration) error {
	slog.Info("otp issued (smtp not configured)",
		"email", email,
		"code", code,
		"expires_in", ttl.String(),
	)
	return nil
}
