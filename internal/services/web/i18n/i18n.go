// Package i18n resolves the request language and localizes web copy.
package i18n

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	apperrors "github.com/louisbranch/murmur/internal/platform/errors"
	platformi18n "github.com/louisbranch/murmur/internal/platform/i18n"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "murmur_lang"
)

// Localizer provides translated strings.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// LanguageOption represents a supported language option in the UI.
type LanguageOption struct {
	Tag    string
	Label  string
	URL    string
	Active bool
}

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	return platformi18n.SupportedTags()
}

// Default returns the default language tag.
func Default() language.Tag {
	return platformi18n.DefaultTag()
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ResolveTag determines the best language tag for the request: the lang
// query parameter, then the language cookie, then Accept-Language.
// The bool indicates whether the lang query param should be persisted as a cookie.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return Default(), false
	}
	if langValue := strings.TrimSpace(r.URL.Query().Get(LangParam)); langValue != "" {
		if tag, ok := platformi18n.ParseTag(langValue); ok {
			return tag, true
		}
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := platformi18n.ParseTag(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return platformi18n.MatchTags(tags), false
		}
	}
	return Default(), false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// LanguageOptions returns the language switcher entries for a page.
func LanguageOptions(loc Localizer, active language.Tag, path string, rawQuery string) []LanguageOption {
	supported := Supported()
	options := make([]LanguageOption, 0, len(supported))
	for _, tag := range supported {
		label := tag.String()
		if loc != nil {
			if resolved := strings.TrimSpace(loc.Sprintf(languageKey(tag))); resolved != "" {
				label = resolved
			}
		}
		options = append(options, LanguageOption{
			Tag:    tag.String(),
			Label:  label,
			URL:    LanguageURL(path, rawQuery, tag.String()),
			Active: tag == active,
		})
	}
	return options
}

// LanguageURL returns the current URL with the language param updated.
func LanguageURL(path string, rawQuery string, tag string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set(LangParam, tag)
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}

func languageKey(tag language.Tag) string {
	base, _ := tag.Base()
	return "lang." + base.String()
}

// metadataArg names the error metadata value formatted into each message.
var metadataArg = map[string]string{
	"error.user_not_found":     "Username",
	"error.about_me_too_long":  "Max",
	"error.post_body_too_long": "Max",
	"error.password_too_long":  "Max",
}

// ErrorMessage localizes a domain error. Errors without a domain code
// render as the generic failure message.
func ErrorMessage(loc Localizer, err error) string {
	if err == nil {
		return ""
	}
	key := apperrors.LocalizationKey(err)
	if key == "" {
		key = "error.unknown"
	}
	var args []any
	if field, ok := metadataArg[key]; ok {
		args = append(args, apperrors.Metadata(err)[field])
	}
	if loc == nil {
		return key
	}
	return loc.Sprintf(key, args...)
}
