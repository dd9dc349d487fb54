// Package mail sends outgoing email over SMTP.
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/anonto42/microblog/pkg/config"
)

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Message struct {
	Subject     string
	Sender      string
	Recipients  []string
	TextBody    string
	HTMLBody    string
	Attachments []Attachment
}

// Mailer delivers a message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP mailer when MAIL_SERVER is configured and a NopMailer otherwise.
func New(cfg *config.Config) Mailer {
	if cfg.MailServer == "" || cfg.Testing {
		return NopMailer{}
	}
	return NewSMTPMailer(cfg)
}

// SMTPMailer sends mail through a gomail dialer.
type SMTPMailer struct {
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	d := gomail.NewDialer(cfg.MailServer, cfg.MailPort, cfg.MailUsername, cfg.MailPassword)
	if cfg.MailUseTLS {
		d.TLSConfig = &tls.Config{ServerName: cfg.MailServer}
	} else {
		// gomail still upgrades with STARTTLS when offered; local debug servers need it skipped.
		d.TLSConfig = &tls.Config{ServerName: cfg.MailServer, InsecureSkipVerify: true}
	}
	return &SMTPMailer{dialer: d}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gm, err := Build(msg)
	if err != nil {
		return err
	}
	return m.dialer.DialAndSend(gm)
}

// Build turns a Message into a gomail message.
func Build(msg Message) (*gomail.Message, error) {
	if len(msg.Recipients) == 0 {
		return nil, errors.New("mail: no recipients")
	}
	m := gomail.NewMessage()
	m.SetHeader("From", msg.Sender)
	m.SetHeader("To", msg.Recipients...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.TextBody)
	if msg.HTMLBody != "" {
		m.AddAlternative("text/html", msg.HTMLBody)
	}
	for _, a := range msg.Attachments {
		data := a.Data
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}))
		}
		m.Attach(a.Filename, settings...)
	}
	return m, nil
}

// SendAsync delivers msg in the background and logs failures.
func SendAsync(m Mailer, msg Message) {
	go func() {
		if err := m.Send(context.Background(), msg); err != nil {
			logrus.WithError(err).WithField("subject", msg.Subject).Warn("failed to send email")
		}
	}()
}

// NopMailer drops every message.
type NopMailer struct{}

func (NopMailer) Send(_ context.Context, msg Message) error {
	logrus.WithFields(logrus.Fields{
		"subject":    msg.Subject,
		"recipients": msg.Recipients,
	}).Debug("mail disabled, dropping message")
	return nil
}
