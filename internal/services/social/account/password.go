package account

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/louisbranch/murmur/internal/platform/errors"
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// HashPassword hashes a non-empty password with bcrypt at cost.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", apperrors.New(apperrors.CodePasswordRequired, "password is required")
	}
	if len(password) > maxPasswordBytes {
		return "", apperrors.WithMetadata(
			apperrors.CodePasswordTooLong,
			"password is too long",
			map[string]string{"Max": fmt.Sprint(maxPasswordBytes)},
		)
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash string, password string) bool {
	if hash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
