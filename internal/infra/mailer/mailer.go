package mailer

import (
	"fmt"

	"github.com/julienvb/portfolio-api/config"
	"gopkg.in/gomail.v2"
)

// Mailer sends notification mail over SMTP. A Mailer built from an empty
// config is disabled and drops messages silently.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

// New builds a Mailer from SMTP config. Returns a disabled mailer when no
// host is configured.
func New(cfg config.SMTPConfig) *Mailer {
	if cfg.Host == "" || cfg.From == "" {
		return &Mailer{}
	}

	port := cfg.Port
	if port == 0 {
		port = 587
	}

	to := cfg.To
	if to == "" {
		to = cfg.From
	}

	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, port, cfg.User, cfg.Password),
		from:   cfg.From,
		to:     to,
	}
}

// Enabled reports whether the mailer has a working SMTP configuration.
func (m *Mailer) Enabled() bool {
	return m != nil && m.dialer != nil
}

// Send delivers a plain-text message to the configured admin address.
func (m *Mailer) Send(subject, body string) error {
	if !m.Enabled() {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	return nil
}
