// Package email delivers one-time codes to users. Production uses SendGrid;
// development prints the mail to the log instead.
package email

import (
	"context"

	"dropwatch/internal/logging"
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ConsoleSender writes outgoing mail to the logger. Used when no SendGrid
// API key is configured, so the OTP flow works on a laptop.
type ConsoleSender struct {
	log logging.Logger
}

func NewConsoleSender(log logging.Logger) *ConsoleSender {
	return &ConsoleSender{log: log}
}

func (s *ConsoleSender) Send(ctx context.Context, to, subject, body string) error {
	s.log.Info(ctx, "outgoing email", "to", to, "subject", subject, "body", body)
	return nil
}
