package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.Russian

	message.SetString(lang, "app.name", "Murmur")
	message.SetString(lang, "lang.en", "English")
	message.SetString(lang, "lang.ru", "Русский")

	// Navigation
	message.SetString(lang, "nav.index", "База")
	message.SetString(lang, "nav.about", "О Нас")
	message.SetString(lang, "nav.news", "Новости")
	message.SetString(lang, "nav.profile", "Профиль")
	message.SetString(lang, "nav.register", "Регистрация")
	message.SetString(lang, "nav.logout", "Выйти")

	// Page titles
	message.SetString(lang, "title.about", "О Нас")
	message.SetString(lang, "title.login", "Вход")
	message.SetString(lang, "title.register", "Регистрация")
	message.SetString(lang, "title.edit_profile", "Редактирование профиля")
	message.SetString(lang, "title.reset_request", "Сброс пароля")
	message.SetString(lang, "title.reset_password", "Новый пароль")
	message.SetString(lang, "title.index", "База")
	message.SetString(lang, "title.news", "Новости")
	message.SetString(lang, "title.profile", "Пользователь: %s")
	message.SetString(lang, "title.not_found", "Не найдено")
	message.SetString(lang, "title.server_error", "Ошибка")

	// About
	message.SetString(lang, "about.heading", "О Murmur")
	message.SetString(lang, "about.body", "Murmur: небольшое место, где можно делиться короткими записями с теми, на кого вы подписаны.")

	// Forms
	message.SetString(lang, "form.username", "Имя пользователя")
	message.SetString(lang, "form.email", "Email")
	message.SetString(lang, "form.password", "Пароль")
	message.SetString(lang, "form.password_repeat", "Повторите пароль")
	message.SetString(lang, "form.remember_me", "Запомнить меня")
	message.SetString(lang, "form.about_me", "Обо мне")
	message.SetString(lang, "form.post", "Скажите что-нибудь")
	message.SetString(lang, "form.submit", "Отправить")
	message.SetString(lang, "form.sign_in", "Войти")
	message.SetString(lang, "form.register", "Зарегистрироваться")
	message.SetString(lang, "form.request_reset", "Сбросить пароль")
	message.SetString(lang, "form.reset_password", "Сохранить пароль")

	// Login page
	message.SetString(lang, "login.new_user", "Новый пользователь?")
	message.SetString(lang, "login.register_link", "Зарегистрируйтесь!")
	message.SetString(lang, "login.forgot", "Забыли пароль?")
	message.SetString(lang, "login.reset_link", "Сбросить его")

	// Directory and profiles
	message.SetString(lang, "index.heading", "Пользователи")
	message.SetString(lang, "index.empty", "Пока никто не зарегистрировался.")
	message.SetString(lang, "profile.heading", "Пользователь: %s")
	message.SetString(lang, "profile.last_seen", "Был(а) в сети: %s")
	message.SetString(lang, "profile.counts", "Подписчиков: %d, подписок: %d.")
	message.SetString(lang, "profile.edit", "Редактировать профиль")
	message.SetString(lang, "profile.follow", "Подписаться")
	message.SetString(lang, "profile.unfollow", "Отписаться")

	// Feed
	message.SetString(lang, "news.heading", "Привет, %s!")
	message.SetString(lang, "posts.empty", "Записей пока нет.")
	message.SetString(lang, "posts.says", "%s пишет:")
	message.SetString(lang, "page.newer", "Новее")
	message.SetString(lang, "page.older", "Старее")

	// Flash notices
	message.SetString(lang, "flash.login_required", "Пожалуйста, войдите, чтобы открыть эту страницу.")
	message.SetString(lang, "flash.invalid_credentials", "Неверное имя пользователя или пароль")
	message.SetString(lang, "flash.registered", "Поздравляем, вы зарегистрированы!")
	message.SetString(lang, "flash.profile_saved", "Изменения сохранены.")
	message.SetString(lang, "flash.post_live", "Ваша запись опубликована!")
	message.SetString(lang, "flash.user_not_found", "Пользователь %s не найден.")
	message.SetString(lang, "flash.follow_self", "Нельзя подписаться на самого себя!")
	message.SetString(lang, "flash.unfollow_self", "Нельзя отписаться от самого себя!")
	message.SetString(lang, "flash.following", "Вы подписались на %s!")
	message.SetString(lang, "flash.not_following", "Вы отписались от %s.")
	message.SetString(lang, "flash.reset_sent", "Проверьте почту: мы отправили инструкции по сбросу пароля")
	message.SetString(lang, "flash.password_reset", "Пароль изменён.")

	// Errors
	message.SetString(lang, "error.unknown", "Что-то пошло не так. Попробуйте ещё раз.")
	message.SetString(lang, "error.auth_required", "Пожалуйста, войдите, чтобы открыть эту страницу.")
	message.SetString(lang, "error.invalid_credentials", "Неверное имя пользователя или пароль")
	message.SetString(lang, "error.reset_token_invalid", "Ссылка для сброса пароля недействительна или устарела.")
	message.SetString(lang, "error.field_required", "Обязательное поле.")
	message.SetString(lang, "error.user_not_found", "Пользователь %s не найден.")
	message.SetString(lang, "error.username_invalid", "Имя пользователя: от 3 до 32 символов, латинские буквы, цифры, точки, подчёркивания или дефисы, начинается с буквы.")
	message.SetString(lang, "error.username_taken", "Это имя пользователя уже занято.")
	message.SetString(lang, "error.email_invalid", "Введите корректный email.")
	message.SetString(lang, "error.email_taken", "Этот email уже используется.")
	message.SetString(lang, "error.password_required", "Обязательное поле.")
	message.SetString(lang, "error.password_mismatch", "Пароли должны совпадать.")
	message.SetString(lang, "error.password_too_long", "Пароль должен быть не длиннее %s байт.")
	message.SetString(lang, "error.about_me_too_long", "Не более %s символов.")
	message.SetString(lang, "error.follow_self", "Нельзя подписаться на самого себя!")
	message.SetString(lang, "error.unfollow_self", "Нельзя отписаться от самого себя!")
	message.SetString(lang, "error.post_body_required", "Обязательное поле.")
	message.SetString(lang, "error.post_body_too_long", "Не более %s символов.")
	message.SetString(lang, "error.page.not_found", "Страница не найдена")
	message.SetString(lang, "error.page.server", "Произошла непредвиденная ошибка")
	message.SetString(lang, "error.page.server_detail", "Администратор уже уведомлён. Приносим извинения!")
	message.SetString(lang, "error.page.back", "Назад")
}
