package mail

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.Russian

	message.SetString(lang, "mail.reset_password.subject", "[Murmur] Сброс пароля")
	message.SetString(lang, "mail.reset_password.body", "Уважаемый(ая) %s,\n\nЧтобы сбросить пароль, откройте ссылку:\n\n%s\n\nЕсли вы не запрашивали сброс пароля, просто проигнорируйте это письмо.\n\nС уважением,\n\nКоманда Murmur\n")
}
