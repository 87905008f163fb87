package whisperwall

import (
	"context"
	"time"
)

// User is the sole persisted entity.  A user either carries local
// credentials (Username + PasswordHash) or was created by an OAuth login
// (ExternalId set, no hash) - never neither.  Id is assigned at creation
// and immutable.
type User struct {
	Id           string
	Username     string
	PasswordHash string
	ExternalId   string
	Secret       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLocal reports whether the user can log in with a password.
func (u *User) IsLocal() bool { return u.PasswordHash != "" }

// HasSecret reports whether the user has submitted a secret.
func (u *User) HasSecret() bool { return u.Secret != "" }

// UserStore persists user records.  Implementations translate backend
// failures into the package sentinel errors: lookups that find nothing
// return ErrUserNotFound, uniqueness violations on CreateUser return
// ErrDuplicateUsername, and anything that indicates the backend itself is
// unreachable wraps ErrStoreUnavailable.
type UserStore interface {
	// CreateUser persists a new user.  The caller assigns the Id.
	CreateUser(ctx context.Context, user *User) error

	// GetUserById retrieves a user by their Id
	GetUserById(ctx context.Context, userId string) (*User, error)

	// GetUserByUsername retrieves a local account by username
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// GetUserByExternalId retrieves an OAuth account by provider subject id
	GetUserByExternalId(ctx context.Context, externalId string) (*User, error)

	// SaveSecret overwrites the secret of the user identified by userId.
	// No other field is touched.
	SaveSecret(ctx context.Context, userId string, secret string) error

	// ListSecrets returns the secret texts of every user whose secret is
	// set.  Only the texts: the listing page is anonymous, so usernames
	// and credentials never cross this boundary.
	ListSecrets(ctx context.Context) ([]string, error)
}
