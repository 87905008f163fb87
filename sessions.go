package whisperwall

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
)

const (
	// DefaultSessionCookie is the cookie carrying the opaque session token.
	DefaultSessionCookie = "wwsession"

	// DefaultSessionLifetime is how long a session stays valid.
	DefaultSessionLifetime = 24 * time.Hour
)

// session variable names
const (
	sessionUserIdVar   = "loggedInUserId"
	sessionUsernameVar = "loggedInUsername"
)

// Identity is the minimal user projection kept in the session: enough to
// re-identify the user on later requests without a store lookup.
type Identity struct {
	Id       string
	Username string
}

// SessionManager maps opaque cookie tokens to logged-in identities.  It is
// independent of which authenticator produced the login.
type SessionManager struct {
	scs *scs.SessionManager
}

func NewSessionManager(cookieName string, lifetime time.Duration) *SessionManager {
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}
	if lifetime <= 0 {
		lifetime = DefaultSessionLifetime
	}

	sm := scs.New()
	sm.Lifetime = lifetime
	sm.Cookie.Name = cookieName
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	return &SessionManager{scs: sm}
}

// LoadAndSave is the middleware that loads the session for each request and
// writes the cookie back.  Every handler touching sessions must be wrapped
// by it.
func (s *SessionManager) LoadAndSave(next http.Handler) http.Handler {
	return s.scs.LoadAndSave(next)
}

// Establish records user as the logged-in identity for the current session.
// The token is rotated so a pre-login token never survives authentication.
func (s *SessionManager) Establish(ctx context.Context, user *User) error {
	if err := s.scs.RenewToken(ctx); err != nil {
		return err
	}
	s.scs.Put(ctx, sessionUserIdVar, user.Id)
	s.scs.Put(ctx, sessionUsernameVar, user.Username)
	return nil
}

// Resolve returns the identity established for the current session, if any.
// It is a pure lookup against the session data; the user store is never
// consulted.
func (s *SessionManager) Resolve(ctx context.Context) (Identity, bool) {
	userId := s.scs.GetString(ctx, sessionUserIdVar)
	if userId == "" {
		return Identity{}, false
	}
	return Identity{
		Id:       userId,
		Username: s.scs.GetString(ctx, sessionUsernameVar),
	}, true
}

// Destroy invalidates the current session and clears the cookie.  Destroying
// an already-dead session is a no-op: logout always succeeds from the
// user's point of view, so failures are logged rather than surfaced.
func (s *SessionManager) Destroy(ctx context.Context) {
	if err := s.scs.Destroy(ctx); err != nil {
		log.Println("error destroying session: ", err)
	}
}
