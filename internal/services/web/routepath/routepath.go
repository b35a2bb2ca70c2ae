// Package routepath stores canonical HTTP paths for the web service.
package routepath

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	Root                 = "/"
	AboutUs              = "/about-us"
	Login                = "/profile"
	Logout               = "/logout"
	Register             = "/register"
	EditProfile          = "/edit_profile"
	ResetPasswordRequest = "/reset_password_request"
	ResetPasswordPrefix  = "/reset_password/"
	ResetPasswordPattern = ResetPasswordPrefix + "{token}"
	Index                = "/index"
	News                 = "/news"
	UserProfilePrefix    = "/profile/"
	UserProfilePattern   = UserProfilePrefix + "{username}"
	FollowPrefix         = "/follow/"
	FollowPattern        = FollowPrefix + "{username}"
	UnfollowPrefix       = "/unfollow/"
	UnfollowPattern      = UnfollowPrefix + "{username}"
	StaticPrefix         = "/static/"
	Health               = "/healthz"
	Metrics              = "/metrics"

	// NextQueryKey carries the path to return to after signing in.
	NextQueryKey = "next"
	// PageQueryKey selects a 1-based page of a paginated list.
	PageQueryKey = "page"
)

// UserProfile returns the public profile route of username.
func UserProfile(username string) string {
	return UserProfilePrefix + escapeSegment(username)
}

// UserProfilePage returns a page of username's post history.
func UserProfilePage(username string, page int) string {
	return withPage(UserProfile(username), page)
}

// IndexPage returns a page of the user directory.
func IndexPage(page int) string {
	return withPage(Index, page)
}

// NewsPage returns a page of the followed-posts feed.
func NewsPage(page int) string {
	return withPage(News, page)
}

// Follow returns the follow action route for username.
func Follow(username string) string {
	return FollowPrefix + escapeSegment(username)
}

// Unfollow returns the unfollow action route for username.
func Unfollow(username string) string {
	return UnfollowPrefix + escapeSegment(username)
}

// ResetPassword returns the password reset route for token.
func ResetPassword(token string) string {
	return ResetPasswordPrefix + escapeSegment(token)
}

// LoginWithNext returns the login route that returns to next after signing in.
func LoginWithNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" {
		return Login
	}
	return Login + "?" + url.Values{NextQueryKey: {next}}.Encode()
}

// SafeNext returns next when it is a local absolute path, otherwise fallback.
// Values with a scheme or host are rejected to avoid open redirects.
func SafeNext(next string, fallback string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	parsed, err := url.Parse(next)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return fallback
	}
	return next
}

func withPage(path string, page int) string {
	if page <= 1 {
		return path
	}
	return path + "?" + PageQueryKey + "=" + strconv.Itoa(page)
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
