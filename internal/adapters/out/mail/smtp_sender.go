// Package mail implements the mail sender port over plain SMTP.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPSender sends email through an SMTP relay. Authentication is optional:
// with an empty username the sender connects unauthenticated, which covers
// local relays and mailcatchers in development.
type SMTPSender struct {
	addr     string
	from     string
	username string
	password string
	host     string
}

// NewSMTPSender creates an SMTP mail sender.
// addr is the relay in host:port form, from is the envelope sender address.
func NewSMTPSender(addr, from, username, password string) *SMTPSender {
	host := addr
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		host = addr[:i]
	}

	return &SMTPSender{
		addr:     addr,
		from:     from,
		username: username,
		password: password,
		host:     host,
	}
}

// Send delivers one plain-text message. The context is checked before
// dialing; net/smtp itself does not support cancellation mid-session.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	message := buildMessage(s.from, to, subject, body)

	if err := smtp.SendMail(s.addr, auth, s.from, []string{to}, message); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	return nil
}

// buildMessage assembles the RFC 5322 message bytes.
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
