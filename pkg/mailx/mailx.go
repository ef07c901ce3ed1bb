// Package mailx sends transactional email. The only contract callers rely on
// is that Send either delivers the message or returns an error.
package mailx

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNoRecipients = errors.New("mailx: message has no recipients")
	ErrNoSubject    = errors.New("mailx: message has no subject")
)

// Message is a two part (plain text and HTML) email.
type Message struct {
	Subject  string
	To       []string
	TextBody string
	HTMLBody string
}

// Validate checks the fields every driver needs.
func (m Message) Validate() error {
	if strings.TrimSpace(m.Subject) == "" {
		return ErrNoSubject
	}
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	for _, to := range m.To {
		if strings.TrimSpace(to) == "" {
			return ErrNoRecipients
		}
	}
	return nil
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// MailerFunc adapts a function to the Mailer interface.
type MailerFunc func(ctx context.Context, msg Message) error

func (f MailerFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }
