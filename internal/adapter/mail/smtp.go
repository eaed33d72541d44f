// Package mail delivers outbound email over SMTP.
package mail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"equitrack-backend/config"

	"github.com/rs/zerolog"
)

// SMTPSender implements ports.EmailSender over plain SMTP with optional
// AUTH. Messages are assembled by hand: plain text for Send, a
// multipart/mixed envelope for SendWithAttachment.
type SMTPSender struct {
	cfg config.SMTPConfig
	log zerolog.Logger

	// send is swapped out in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates a new SMTPSender.
func NewSMTPSender(cfg config.SMTPConfig, log zerolog.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, log: log, send: smtp.SendMail}
}

// Send delivers a plain-text message.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	s.writeHeaders(&b, to, subject)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	return s.deliver(to, []byte(b.String()))
}

// SendWithAttachment delivers a plain-text message with one attachment.
func (s *SMTPSender) SendWithAttachment(ctx context.Context, to, subject, body, filename string, attachment []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	const boundary = "equitrack-mixed-boundary"

	var b strings.Builder
	s.writeHeaders(&b, to, subject)
	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: application/octet-stream\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n", filename)
	b.WriteString("\r\n")

	encoded := base64.StdEncoding.EncodeToString(attachment)
	// RFC 2045 limits encoded lines to 76 characters.
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return s.deliver(to, []byte(b.String()))
}

func (s *SMTPSender) writeHeaders(b *strings.Builder, to, subject string) {
	fmt.Fprintf(b, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(b, "To: %s\r\n", to)
	fmt.Fprintf(b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
}

func (s *SMTPSender) deliver(to string, msg []byte) error {
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := s.send(s.cfg.Addr(), auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	s.log.Debug().Str("to", to).Msg("email delivered")
	return nil
}
