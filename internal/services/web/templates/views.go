package templates

// LoginView is the sign-in form state.
type LoginView struct {
	Username string
	Remember bool
	Next     string
	Errors   FieldErrors
}

// RegisterView is the sign-up form state.
type RegisterView struct {
	Username string
	Email    string
	Errors   FieldErrors
}

// EditProfileView is the profile editing form state.
type EditProfileView struct {
	Username string
	AboutMe  string
	Errors   FieldErrors
}

// ResetRequestView is the reset request form state.
type ResetRequestView struct {
	Email  string
	Errors FieldErrors
}

// ResetPasswordView is the new password form state.
type ResetPasswordView struct {
	Token  string
	Errors FieldErrors
}

// IndexView is one page of the user directory.
type IndexView struct {
	Users []UserItem
	Pager Pager
}

// NewsView is the followed feed with the post form.
type NewsView struct {
	Username string
	Body     string
	Errors   FieldErrors
	Posts    []PostItem
	Pager    Pager
}

// ProfileView is a user's profile with their post history.
type ProfileView struct {
	Username    string
	AboutMe     string
	LastSeen    string
	Followers   int
	Following   int
	IsSelf      bool
	IsFollowing bool
	Posts       []PostItem
	Pager       Pager
}

type inputField struct {
	name  string
	kind  string
	label string
	value string
}

func documentLang(page PageContext) string {
	if page.Lang == "" {
		return "en"
	}
	return page.Lang
}

// documentTitle suffixes the page title with the app name.
func documentTitle(page PageContext) string {
	appName := T(page.Loc, "app.name")
	if page.Title == "" {
		return appName
	}
	return page.Title + " - " + appName
}
