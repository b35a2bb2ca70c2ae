// Package errors provides structured domain errors with HTTP and i18n mapping.
package errors

import (
	"net/http"
	"strings"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Auth errors
	CodeAuthRequired       Code = "AUTH_REQUIRED"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeResetTokenInvalid  Code = "RESET_TOKEN_INVALID"

	// Form errors
	CodeFieldRequired Code = "FIELD_REQUIRED"

	// User errors
	CodeUserNotFound     Code = "USER_NOT_FOUND"
	CodeUsernameInvalid  Code = "USERNAME_INVALID"
	CodeUsernameTaken    Code = "USERNAME_TAKEN"
	CodeEmailInvalid     Code = "EMAIL_INVALID"
	CodeEmailTaken       Code = "EMAIL_TAKEN"
	CodePasswordRequired Code = "PASSWORD_REQUIRED"
	CodePasswordMismatch Code = "PASSWORD_MISMATCH"
	CodePasswordTooLong  Code = "PASSWORD_TOO_LONG"
	CodeAboutMeTooLong   Code = "ABOUT_ME_TOO_LONG"

	// Social graph errors
	CodeFollowSelf   Code = "FOLLOW_SELF"
	CodeUnfollowSelf Code = "UNFOLLOW_SELF"

	// Post errors
	CodePostBodyRequired Code = "POST_BODY_REQUIRED"
	CodePostBodyTooLong  Code = "POST_BODY_TOO_LONG"
)

// Kind groups codes into the failure classes handlers react to.
type Kind string

const (
	KindInternal         Kind = "internal"
	KindValidation       Kind = "validation"
	KindNotFound         Kind = "not_found"
	KindInvalidOperation Kind = "invalid_operation"
	KindAuthRequired     Kind = "auth_required"
	KindUnauthorized     Kind = "unauthorized"
)

// Kind maps domain codes to failure classes.
func (c Code) Kind() Kind {
	switch c {
	case CodeFieldRequired,
		CodeUsernameInvalid,
		CodeUsernameTaken,
		CodeEmailInvalid,
		CodeEmailTaken,
		CodePasswordRequired,
		CodePasswordMismatch,
		CodePasswordTooLong,
		CodeAboutMeTooLong,
		CodePostBodyRequired,
		CodePostBodyTooLong:
		return KindValidation

	case CodeUserNotFound:
		return KindNotFound

	case CodeFollowSelf,
		CodeUnfollowSelf:
		return KindInvalidOperation

	case CodeAuthRequired:
		return KindAuthRequired

	case CodeInvalidCredentials,
		CodeResetTokenInvalid:
		return KindUnauthorized

	default:
		return KindInternal
	}
}

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c.Kind() {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidOperation:
		return http.StatusConflict
	case KindAuthRequired:
		return http.StatusFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// LocalizationKey returns the message catalog key for the code.
func (c Code) LocalizationKey() string {
	return "error." + strings.ToLower(string(c))
}
