package mail

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, "mail.reset_password.subject", "[Murmur] Reset Your Password")
	message.SetString(lang, "mail.reset_password.body", "Dear %s,\n\nTo reset your password open the following link:\n\n%s\n\nIf you have not requested a password reset simply ignore this message.\n\nSincerely,\n\nThe Murmur Team\n")
}
