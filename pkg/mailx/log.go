package mailx

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/peertutor/pkg/slogx"
)

// LogMailer writes messages to the request logger instead of sending them.
// Used in development and the end-to-end suite, where the plain text body
// is the only way to read a reset password back.
type LogMailer struct{}

var _ Mailer = LogMailer{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("mail_sent",
		slog.String("driver", "log"),
		slog.Any("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("text_body", msg.TextBody),
	)
	return nil
}
