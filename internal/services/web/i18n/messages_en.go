package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, "app.name", "Murmur")
	message.SetString(lang, "lang.en", "English")
	message.SetString(lang, "lang.ru", "Русский")

	// Navigation
	message.SetString(lang, "nav.index", "Home")
	message.SetString(lang, "nav.about", "About Us")
	message.SetString(lang, "nav.news", "News")
	message.SetString(lang, "nav.profile", "Profile")
	message.SetString(lang, "nav.register", "Register")
	message.SetString(lang, "nav.logout", "Logout")

	// Page titles
	message.SetString(lang, "title.about", "About Us")
	message.SetString(lang, "title.login", "Sign In")
	message.SetString(lang, "title.register", "Register")
	message.SetString(lang, "title.edit_profile", "Edit Profile")
	message.SetString(lang, "title.reset_request", "Reset Password")
	message.SetString(lang, "title.reset_password", "Reset Your Password")
	message.SetString(lang, "title.index", "Home")
	message.SetString(lang, "title.news", "News")
	message.SetString(lang, "title.profile", "User: %s")
	message.SetString(lang, "title.not_found", "Not Found")
	message.SetString(lang, "title.server_error", "Error")

	// About
	message.SetString(lang, "about.heading", "About Murmur")
	message.SetString(lang, "about.body", "Murmur is a small place to share short posts with the people you follow.")

	// Forms
	message.SetString(lang, "form.username", "Username")
	message.SetString(lang, "form.email", "Email")
	message.SetString(lang, "form.password", "Password")
	message.SetString(lang, "form.password_repeat", "Repeat Password")
	message.SetString(lang, "form.remember_me", "Remember Me")
	message.SetString(lang, "form.about_me", "About me")
	message.SetString(lang, "form.post", "Say something")
	message.SetString(lang, "form.submit", "Submit")
	message.SetString(lang, "form.sign_in", "Sign In")
	message.SetString(lang, "form.register", "Register")
	message.SetString(lang, "form.request_reset", "Request Password Reset")
	message.SetString(lang, "form.reset_password", "Reset Password")

	// Login page
	message.SetString(lang, "login.new_user", "New User?")
	message.SetString(lang, "login.register_link", "Click to Register!")
	message.SetString(lang, "login.forgot", "Forgot Your Password?")
	message.SetString(lang, "login.reset_link", "Click to Reset It")

	// Directory and profiles
	message.SetString(lang, "index.heading", "Users")
	message.SetString(lang, "index.empty", "Nobody has joined yet.")
	message.SetString(lang, "profile.heading", "User: %s")
	message.SetString(lang, "profile.last_seen", "Last seen on: %s")
	message.SetString(lang, "profile.counts", "%d followers, %d following.")
	message.SetString(lang, "profile.edit", "Edit your profile")
	message.SetString(lang, "profile.follow", "Follow")
	message.SetString(lang, "profile.unfollow", "Unfollow")

	// Feed
	message.SetString(lang, "news.heading", "Hi, %s!")
	message.SetString(lang, "posts.empty", "No posts yet.")
	message.SetString(lang, "posts.says", "%s says:")
	message.SetString(lang, "page.newer", "Newer posts")
	message.SetString(lang, "page.older", "Older posts")

	// Flash notices
	message.SetString(lang, "flash.login_required", "Please log in to access this page.")
	message.SetString(lang, "flash.invalid_credentials", "Invalid username or password")
	message.SetString(lang, "flash.registered", "Congratulations, you are now a registered user!")
	message.SetString(lang, "flash.profile_saved", "Your changes have been saved.")
	message.SetString(lang, "flash.post_live", "Your post is now live!")
	message.SetString(lang, "flash.user_not_found", "User %s not found.")
	message.SetString(lang, "flash.follow_self", "You cannot follow yourself!")
	message.SetString(lang, "flash.unfollow_self", "You cannot unfollow yourself!")
	message.SetString(lang, "flash.following", "You are following %s!")
	message.SetString(lang, "flash.not_following", "You are not following %s.")
	message.SetString(lang, "flash.reset_sent", "Check your email for the instructions to reset your password")
	message.SetString(lang, "flash.password_reset", "Your password has been reset.")

	// Errors
	message.SetString(lang, "error.unknown", "Something went wrong. Please try again.")
	message.SetString(lang, "error.auth_required", "Please log in to access this page.")
	message.SetString(lang, "error.invalid_credentials", "Invalid username or password")
	message.SetString(lang, "error.reset_token_invalid", "This password reset link is invalid or has expired.")
	message.SetString(lang, "error.field_required", "This field is required.")
	message.SetString(lang, "error.user_not_found", "User %s not found.")
	message.SetString(lang, "error.username_invalid", "Usernames are 3 to 32 characters: letters, digits, dots, underscores or hyphens, starting with a letter.")
	message.SetString(lang, "error.username_taken", "Please use a different username.")
	message.SetString(lang, "error.email_invalid", "Please enter a valid email address.")
	message.SetString(lang, "error.email_taken", "Please use a different email address.")
	message.SetString(lang, "error.password_required", "This field is required.")
	message.SetString(lang, "error.password_mismatch", "Passwords must match.")
	message.SetString(lang, "error.password_too_long", "Password must be at most %s bytes.")
	message.SetString(lang, "error.about_me_too_long", "Field must be at most %s characters long.")
	message.SetString(lang, "error.follow_self", "You cannot follow yourself!")
	message.SetString(lang, "error.unfollow_self", "You cannot unfollow yourself!")
	message.SetString(lang, "error.post_body_required", "This field is required.")
	message.SetString(lang, "error.post_body_too_long", "Field must be at most %s characters long.")
	message.SetString(lang, "error.page.not_found", "File Not Found")
	message.SetString(lang, "error.page.server", "An unexpected error has occurred")
	message.SetString(lang, "error.page.server_detail", "The administrator has been notified. Sorry for the inconvenience!")
	message.SetString(lang, "error.page.back", "Back")
}
