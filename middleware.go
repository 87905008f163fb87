package whisperwall

import (
	"context"
	"log"
	"net/http"
)

type identityContextKey struct{}

// Middleware gates protected routes on an established session.
type Middleware struct {
	Sessions *SessionManager

	// Where anonymous requests to protected routes are sent.
	LoginURL string
}

func (m *Middleware) loginURL() string {
	if m.LoginURL != "" {
		return m.LoginURL
	}
	return "/login"
}

// ExtractUser resolves the session identity, if any, and makes it available
// to downstream handlers via the request context.  It never redirects; use
// RequireUser to enforce a login.
func (m *Middleware) ExtractUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, ok := m.Sessions.Resolve(r.Context()); ok {
			r = withIdentity(r, identity)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser enforces the "must be authenticated" gate: anonymous requests
// are redirected to the login page, authenticated ones proceed with their
// identity in the request context.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := m.Sessions.Resolve(r.Context())
		if !ok {
			log.Println("anonymous request to protected route: ", r.URL.Path)
			http.Redirect(w, r, m.loginURL(), http.StatusFound)
			return
		}
		next.ServeHTTP(w, withIdentity(r, identity))
	})
}

// IdentityFromRequest returns the identity placed on the request by
// ExtractUser or RequireUser.
func IdentityFromRequest(r *http.Request) (Identity, bool) {
	identity, ok := r.Context().Value(identityContextKey{}).(Identity)
	return identity, ok
}

func withIdentity(r *http.Request, identity Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityContextKey{}, identity))
}
