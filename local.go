package whisperwall

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt rejects passwords longer than 72 bytes
const maxPasswordLength = 72

const maxUsernameLength = 255

// LocalAuth authenticates username/password accounts against a UserStore.
// It is stateless: it owns no HTTP concerns and no session state.
type LocalAuth struct {
	Users UserStore
}

func NewLocalAuth(users UserStore) *LocalAuth {
	return &LocalAuth{Users: users}
}

// Register creates a new local account.  The password is stored only as a
// bcrypt hash.  Returns ErrDuplicateUsername if the username is taken and
// an *AuthError for malformed input.
func (a *LocalAuth) Register(ctx context.Context, username, password string) (*User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	// The store enforces uniqueness too; this check just produces the
	// friendlier error for the common case.
	if _, err := a.Users.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Id:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := a.Users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("Created local user %s (%s)", user.Id, username)
	return user, nil
}

// Authenticate verifies a username/password pair and returns the matching
// user.  Every failure mode collapses into ErrInvalidCredentials so callers
// cannot distinguish a missing account from a wrong password.
func (a *LocalAuth) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := a.Users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Burn a compare so a lookup miss takes as long as a mismatch.
			bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// OAuth-only accounts have no hash and can never log in locally.
	if !user.IsLocal() {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func validateCredentials(username, password string) error {
	if username == "" {
		return NewAuthError(ErrCodeMissingField, "Username is required", "username")
	}
	if len(username) > maxUsernameLength {
		return NewAuthError(ErrCodeInvalidUsername, "Username is too long", "username")
	}
	if password == "" {
		return NewAuthError(ErrCodeMissingField, "Password is required", "password")
	}
	if len(password) > maxPasswordLength {
		return NewAuthError(ErrCodeWeakPassword, fmt.Sprintf("Password must be at most %d bytes", maxPasswordLength), "password")
	}
	return nil
}

// dummyHash is a valid bcrypt hash of an unguessable throwaway value, used
// only to equalize timing on failed lookups.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()
