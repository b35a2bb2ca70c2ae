package templates

import (
	webi18n "github.com/louisbranch/murmur/internal/services/web/i18n"
	"github.com/louisbranch/murmur/internal/services/web/nav"
)

// PageContext provides shared layout context for pages.
type PageContext struct {
	Lang      string
	Loc       Localizer
	Title     string
	Nav       []nav.Link
	Viewer    Viewer
	Notices   []Notice
	Languages []webi18n.LanguageOption
}

// Viewer describes the signed-in user, if any.
type Viewer struct {
	Username string
	SignedIn bool
}

// Notice is a localized flash message.
type Notice struct {
	Kind string
	Text string
}

// Pager carries the newer/older links of a paginated list. Empty URLs
// hide the link.
type Pager struct {
	NewerURL string
	OlderURL string
}

// PostItem is one rendered post.
type PostItem struct {
	Author    string
	AuthorURL string
	Body      string
	Language  string
	CreatedAt string
}

// UserItem is one row of the user directory.
type UserItem struct {
	Username   string
	ProfileURL string
	AboutMe    string
	LastSeen   string
}

// FieldErrors maps form field names to localized messages.
type FieldErrors map[string]string
