package mail

import (
	"fmt"

	"golang.org/x/text/message"
)

const (
	defaultResetSubject = "[Murmur] Reset Your Password"
	defaultResetBody    = "Dear %s,\n\nTo reset your password open the following link:\n\n%s\n"
)

// Localizer is the minimal message-printer contract required by the renderer.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// ResetInput carries the values rendered into a password reset email.
type ResetInput struct {
	To       string
	Username string
	Link     string
}

// RenderReset builds the password reset email in the localizer's language.
func RenderReset(loc Localizer, input ResetInput) Message {
	subject := localizeWithFallback(loc, "mail.reset_password.subject", defaultResetSubject)
	body := fmt.Sprintf(defaultResetBody, input.Username, input.Link)
	if loc != nil {
		if localized := loc.Sprintf("mail.reset_password.body", input.Username, input.Link); localized != "mail.reset_password.body" {
			body = localized
		}
	}
	return Message{
		To:      input.To,
		Subject: subject,
		Text:    body,
	}
}

func localizeWithFallback(loc Localizer, key string, fallback string) string {
	if loc == nil {
		return fallback
	}
	value := loc.Sprintf(key)
	if value == "" || value == key {
		return fallback
	}
	return value
}
