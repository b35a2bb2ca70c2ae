// Package username canonicalizes and validates usernames.
package username

import (
	"regexp"
	"strings"

	apperrors "github.com/louisbranch/murmur/internal/platform/errors"
)

// MaxLength is the longest accepted username.
const MaxLength = 32

var canonicalPattern = regexp.MustCompile(`^[a-z][a-z0-9._-]{2,31}$`)

// Canonicalize lowercases ASCII input and checks it against the username
// policy: 3 to 32 characters, starting with a letter, then letters, digits,
// dots, underscores or hyphens.
func Canonicalize(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", apperrors.New(apperrors.CodeUsernameInvalid, "username is required")
	}

	var builder strings.Builder
	builder.Grow(len(input))
	for i := 0; i < len(input); i++ {
		ch := input[i]
		if ch > 0x7f {
			return "", apperrors.New(apperrors.CodeUsernameInvalid, "username must be ASCII")
		}
		if ch >= 'A' && ch <= 'Z' {
			ch = ch - 'A' + 'a'
		}
		builder.WriteByte(ch)
	}

	canonical := builder.String()
	if !canonicalPattern.MatchString(canonical) {
		return "", apperrors.New(apperrors.CodeUsernameInvalid, "username does not match required format")
	}
	return canonical, nil
}
