// Package mail renders and delivers account emails.
package mail

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
)

// Message is one outgoing plain-text email.
type Message struct {
	To      string
	Subject string
	Text    string
}

// Sender delivers emails.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg Message) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// LogSender writes emails to the log instead of delivering them. It is the
// delivery used in development.
type LogSender struct {
	Logger logrus.FieldLogger
	From   string
}

// Send logs msg at info level.
func (s LogSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("mail recipient is required")
	}
	logger := s.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger.WithFields(logrus.Fields{
		"from":    s.From,
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info(msg.Text)
	return nil
}
