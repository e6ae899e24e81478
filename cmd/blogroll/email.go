package main

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/feedmesh/blogroll/pkg/config"
)

// SMTPSender delivers notification emails over SMTP as multipart/alternative
// messages with a text and an html part
type SMTPSender struct {
	cfg config.EmailConfig
}

// NewSMTPSender creates a sender for the given email configuration
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send delivers one message, the context is accepted for interface symmetry
// as net/smtp has no context support
func (s *SMTPSender) Send(_ context.Context, to, subject, html, text string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	msg := s.build(to, subject, html, text)
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

func (s *SMTPSender) build(to, subject, html, text string) string {
	const boundary = "blogroll-alt-boundary"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(text)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(html)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return b.String()
}

// LogSender is the fallback when no SMTP host is configured, it only logs
// that a notification would have been sent
type LogSender struct{}

// Send logs the notification instead of delivering it
func (LogSender) Send(_ context.Context, to, subject, _, _ string) error {
	lgr.Printf("[INFO] email disabled, skipping notification to %s: %s", to, subject)
	return nil
}
