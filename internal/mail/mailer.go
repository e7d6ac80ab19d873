package mail

import (
	"bookclub/internal/config"
	apperrors "bookclub/internal/errors"

	gomail "gopkg.in/gomail.v2"
)

// Message is an outbound email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends email. Abstracted so notification and password-reset flows
// can be tested without an SMTP server.
type Mailer interface {
	Configured() bool
	Send(msg Message) error
}

// SMTPMailer sends mail through the configured SMTP relay.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer builds a mailer from transport config.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Configured reports whether the transport settings are complete.
func (m *SMTPMailer) Configured() bool {
	return m.cfg.Complete()
}

// Send delivers one message, dialing per call. Sends are sequential within a
// request; a slow relay delays the batch but not other requests.
func (m *SMTPMailer) Send(msg Message) error {
	if !m.Configured() {
		return apperrors.ErrMailNotConfigured
	}

	mm := gomail.NewMessage()
	mm.SetAddressHeader("From", m.cfg.Username, m.cfg.FromName)
	mm.SetHeader("To", msg.To)
	mm.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		mm.SetBody("text/plain", msg.Text)
		if msg.HTML != "" {
			mm.AddAlternative("text/html", msg.HTML)
		}
	} else {
		mm.SetBody("text/html", msg.HTML)
	}

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return dialer.DialAndSend(mm)
}
