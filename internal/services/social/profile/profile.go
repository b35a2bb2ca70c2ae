// Package profile validates and normalizes user profile inputs.
package profile

import (
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "github.com/louisbranch/murmur/internal/platform/errors"
	"github.com/louisbranch/murmur/internal/services/social/username"
)

// MaxAboutMeLength is the longest accepted about-me text, in runes.
const MaxAboutMeLength = 140

// Normalized stores validated profile field values.
type Normalized struct {
	Username string
	AboutMe  string
}

// Normalize validates and trims user-supplied profile values.
func Normalize(rawUsername string, aboutMe string) (Normalized, error) {
	canonical, err := username.Canonicalize(rawUsername)
	if err != nil {
		return Normalized{}, err
	}

	aboutMe = strings.TrimSpace(aboutMe)
	if utf8.RuneCountInString(aboutMe) > MaxAboutMeLength {
		return Normalized{}, apperrors.WithMetadata(
			apperrors.CodeAboutMeTooLong,
			fmt.Sprintf("about me must be at most %d characters", MaxAboutMeLength),
			map[string]string{"Max": fmt.Sprint(MaxAboutMeLength)},
		)
	}

	return Normalized{
		Username: canonical,
		AboutMe:  aboutMe,
	}, nil
}
