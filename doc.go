// Package whisperwall implements a small anonymous-secrets web application.
//
// Users register with a username and password or sign in with Google, then
// submit a short free-text secret.  Secrets are shown, anonymized, on a
// shared listing page.
//
// # Architecture
//
// The package separates the request plumbing from the authentication
// lifecycle:
//
// UserStore: persistence for user records (credential hash, optional
// Google subject id, optional secret).  Implemented by stores (in-memory)
// and stores/gorm (Postgres).
//
// LocalAuth: username/password registration and login.  Passwords are
// hashed with bcrypt and never stored or logged in plaintext.
//
// GoogleAuth: the OAuth2 authorization-code flow, resolving Google subject
// ids to local users with find-or-create semantics.
//
// SessionManager: cookie-token sessions via alexedwards/scs.  The cookie
// carries only an opaque token; the logged-in identity lives server side.
//
// Server: the gorilla/mux route controller tying the above together.  All
// errors are logged and translated into redirects; none are shown to the
// end user.
//
// # Basic Usage
//
//	cfg, err := whisperwall.LoadConfig()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	users := stores.NewMemoryUserStore()
//	srv := whisperwall.NewServer(
//	    whisperwall.NewLocalAuth(users),
//	    whisperwall.NewGoogleAuth(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.CallbackURL, users),
//	    whisperwall.NewSessionManager(cfg.SessionCookie, cfg.SessionLifetime),
//	    users,
//	)
//	http.ListenAndServe(cfg.HTTP.Addr, srv.Handler())
//
// # Testing
//
// Handlers can be tested without a running server using httptest; the OAuth
// flow is testable against a mock provider by overriding GoogleAuth.Config's
// endpoint and GoogleAuth.UserInfoURL.
package whisperwall
