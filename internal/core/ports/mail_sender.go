package ports

import "context"

// MailSender delivers a single email message. Implementations are expected
// to be best-effort: callers treat failures as log-and-continue.
type MailSender interface {
	Send(ctx context.Context, to string, subject string, body string) error
}
