package account

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/murmur/internal/platform/errors"
	"github.com/louisbranch/murmur/internal/services/social/storage"
)

const resetTokenIssuer = "murmur"

// resetClaims is the internal claims type used for reset tokens.
type resetClaims struct {
	jwt.RegisteredClaims
	ResetPassword string `json:"reset_password"`
	// Fingerprint ties the token to the password hash it was issued against,
	// so a token stops verifying once the password changes.
	Fingerprint string `json:"fp"`
}

// IssueResetToken signs a password reset token for userID.
func (s *Service) IssueResetToken(ctx context.Context, userID string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	user, err := s.users.GetUser(ctx, strings.TrimSpace(userID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", apperrors.New(apperrors.CodeUserNotFound, "user not found")
		}
		return "", fmt.Errorf("get user: %w", err)
	}
	return s.signResetToken(user)
}

func (s *Service) signResetToken(user storage.User) (string, error) {
	now := s.clock().UTC()
	claims := resetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    resetTokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.ResetTokenTTL)),
		},
		ResetPassword: user.ID,
		Fingerprint:   s.fingerprint(user.PasswordHash),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.SecretKey)
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	return token, nil
}

// VerifyResetToken returns the user a reset token was issued for. Any
// malformed, foreign, expired or already used token yields
// RESET_TOKEN_INVALID.
func (s *Service) VerifyResetToken(ctx context.Context, token string) (storage.User, error) {
	if err := s.ready(); err != nil {
		return storage.User{}, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return storage.User{}, apperrors.New(apperrors.CodeResetTokenInvalid, "reset token is required")
	}

	var claims resetClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.cfg.SecretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(resetTokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock),
	)
	if err != nil {
		return storage.User{}, apperrors.Wrap(apperrors.CodeResetTokenInvalid, "reset token is invalid", err)
	}
	if claims.ResetPassword == "" {
		return storage.User{}, apperrors.New(apperrors.CodeResetTokenInvalid, "reset token has no user")
	}

	user, err := s.users.GetUser(ctx, claims.ResetPassword)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, apperrors.Wrap(apperrors.CodeResetTokenInvalid, "reset token user not found", err)
		}
		return storage.User{}, fmt.Errorf("get user: %w", err)
	}
	if !hmac.Equal([]byte(claims.Fingerprint), []byte(s.fingerprint(user.PasswordHash))) {
		return storage.User{}, apperrors.New(apperrors.CodeResetTokenInvalid, "reset token was already used")
	}
	return user, nil
}

func (s *Service) fingerprint(passwordHash string) string {
	mac := hmac.New(sha256.New, s.cfg.SecretKey)
	mac.Write([]byte(passwordHash))
	return hex.EncodeToString(mac.Sum(nil)[:12])
}
