// Package i18n defines the languages the application can render.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

var supported = []language.Tag{
	language.English,
	language.Russian,
}

var matcher = language.NewMatcher(supported)

// SupportedTags returns the supported language tags, default first.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// DefaultTag returns the fallback language.
func DefaultTag() language.Tag {
	return supported[0]
}

// ParseTag parses value and reports whether it names a supported language.
// Regional variants resolve to their supported base ("ru-RU" -> "ru").
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTag(), false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return DefaultTag(), false
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return DefaultTag(), false
	}
	for _, candidate := range supported {
		candidateBase, _ := candidate.Base()
		if candidateBase == base {
			return candidate, true
		}
	}
	return DefaultTag(), false
}

// MatchTags picks the best supported language for the preferred list.
func MatchTags(preferred []language.Tag) language.Tag {
	if len(preferred) == 0 {
		return DefaultTag()
	}
	_, index, confidence := matcher.Match(preferred...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supported[index]
}
