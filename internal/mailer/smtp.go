package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/mariakevin/hairtryon-backend/internal/config"
)

// SMTPMailer sends HTML mail over SMTPS.
type SMTPMailer struct {
	cfg       config.MailConfig
	templates *template.Template
}

// NewSMTPMailer creates an SMTP-backed mailer from mail configuration.
func NewSMTPMailer(cfg config.MailConfig) (*SMTPMailer, error) {
	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail templates: %w", err)
	}

	return &SMTPMailer{cfg: cfg, templates: templates}, nil
}

// Send renders the template for the mail kind and delivers it.
func (s *SMTPMailer) Send(ctx context.Context, m Mail) error {
	body, err := s.render(m)
	if err != nil {
		return err
	}

	msg := s.compose(m, body)

	conn, err := tls.Dial("tcp", s.cfg.Address(), &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return fmt.Errorf("failed to dial smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}

	if err := client.Mail(s.cfg.Username); err != nil {
		return fmt.Errorf("smtp MAIL failed: %w", err)
	}
	if err := client.Rcpt(m.To); err != nil {
		return fmt.Errorf("smtp RCPT failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}

	return client.Quit()
}

func (s *SMTPMailer) render(m Mail) ([]byte, error) {
	var buf bytes.Buffer
	err := s.templates.ExecuteTemplate(&buf, m.Kind.templateName(), map[string]string{
		"Name":      m.Name,
		"Code":      m.Code,
		"ResetLink": m.ResetLink,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render mail template: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *SMTPMailer) compose(m Mail, body []byte) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", m.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", m.Kind.subject())
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	buf.WriteString("\r\n")
	buf.Write(body)
	return buf.Bytes()
}
