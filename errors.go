package whisperwall

import (
	"errors"
	"fmt"
)

// Error codes attached to AuthError values.  These are stable strings that
// handlers can switch on; the messages are free to change.
const (
	ErrCodeMissingField    = "missing_field"
	ErrCodeInvalidUsername = "invalid_username"
	ErrCodeWeakPassword    = "weak_password"
	ErrCodeUsernameTaken   = "username_taken"
	ErrCodeInvalidCreds    = "invalid_credentials"
)

// AuthError describes an authentication failure in a form the route layer
// can log and translate into a redirect.  The Field names the offending
// form field when there is one.
type AuthError struct {
	Code    string
	Message string
	Field   string
}

func NewAuthError(code, message, field string) *AuthError {
	return &AuthError{Code: code, Message: message, Field: field}
}

func (e *AuthError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Sentinel errors shared by the stores and authenticators.  Store
// implementations translate their backend errors into these so callers
// never depend on driver error types.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrOAuthExchangeFailed = errors.New("oauth code exchange failed")
	ErrOAuthProfileInvalid = errors.New("oauth profile has no stable id")

	ErrStoreUnavailable = errors.New("user store unavailable")
)
