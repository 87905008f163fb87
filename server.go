package whisperwall

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// Server is the route controller.  It translates HTTP requests into calls
// against the authenticators, the session manager and the user store, and
// translates every failure into a redirect to a safe prior page.  No error
// text ever reaches the end user.
type Server struct {
	Local    *LocalAuth
	Google   *GoogleAuth
	Sessions *SessionManager
	Users    UserStore

	router *mux.Router
	tmpl   *template.Template
}

func NewServer(local *LocalAuth, google *GoogleAuth, sessions *SessionManager, users UserStore) *Server {
	s := &Server{
		Local:    local,
		Google:   google,
		Sessions: sessions,
		Users:    users,
		tmpl:     parsePageTemplates(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	mw := &Middleware{Sessions: s.Sessions, LoginURL: "/login"}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLoginForm).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/register", s.handleRegisterForm).Methods(http.MethodGet)
	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/google", s.Google.Begin).Methods(http.MethodGet)
	r.HandleFunc("/auth/google/secrets", s.handleGoogleCallback).Methods(http.MethodGet)
	r.HandleFunc("/secrets", s.handleSecrets).Methods(http.MethodGet)
	r.Handle("/submit", mw.RequireUser(http.HandlerFunc(s.handleSubmitForm))).Methods(http.MethodGet)
	r.Handle("/submit", mw.RequireUser(http.HandlerFunc(s.handleSubmit))).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodGet)
	s.router = r
}

// Handler returns the full request pipeline: session loading wrapped around
// the router.
func (s *Server) Handler() http.Handler {
	return s.Sessions.LoadAndSave(s.router)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, "home", nil)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "login", nil)
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "register", nil)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	username, password, err := parseCredentialsForm(r)
	if err != nil {
		log.Println("error parsing login form: ", err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	user, err := s.Local.Authenticate(r.Context(), username, password)
	if err != nil {
		log.Printf("login failed for %q: %v", username, err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	s.establishAndRedirect(w, r, user, "/login")
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	username, password, err := parseCredentialsForm(r)
	if err != nil {
		log.Println("error parsing registration form: ", err)
		http.Redirect(w, r, "/register", http.StatusFound)
		return
	}

	user, err := s.Local.Register(r.Context(), username, password)
	if err != nil {
		log.Printf("registration failed for %q: %v", username, err)
		http.Redirect(w, r, "/register", http.StatusFound)
		return
	}

	s.establishAndRedirect(w, r, user, "/register")
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	user, err := s.Google.HandleCallback(w, r)
	if err != nil {
		log.Println("google callback failed: ", err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	s.establishAndRedirect(w, r, user, "/login")
}

// establishAndRedirect starts a session for user and sends them to the
// secrets listing; failOver is where they land if the session cannot be
// established.
func (s *Server) establishAndRedirect(w http.ResponseWriter, r *http.Request, user *User, failOver string) {
	if err := s.Sessions.Establish(r.Context(), user); err != nil {
		log.Println("error establishing session: ", err)
		http.Redirect(w, r, failOver, http.StatusFound)
		return
	}
	http.Redirect(w, r, "/secrets", http.StatusFound)
}

func (s *Server) handleSecrets(w http.ResponseWriter, r *http.Request) {
	secrets, err := s.Users.ListSecrets(r.Context())
	if err != nil {
		// A dead store renders an empty wall rather than failing the page.
		log.Println("error listing secrets: ", err)
		secrets = nil
	}
	s.render(w, "secrets", map[string]any{"Secrets": secrets})
}

func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "submit", nil)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromRequest(r)
	if !ok {
		// RequireUser guarantees an identity; this is belt-and-braces.
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Println("error parsing submit form: ", err)
		http.Redirect(w, r, "/submit", http.StatusFound)
		return
	}
	secret := r.FormValue("secret")
	if secret == "" {
		http.Redirect(w, r, "/submit", http.StatusFound)
		return
	}

	if err := s.Users.SaveSecret(r.Context(), identity.Id, secret); err != nil {
		// A failed save must not land on the success page.
		log.Printf("error saving secret for user %s: %v", identity.Id, err)
		http.Redirect(w, r, "/submit", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/secrets", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.Sessions.Destroy(r.Context())
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) render(w http.ResponseWriter, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, page, data); err != nil {
		log.Printf("error rendering %s: %v", page, err)
	}
}

func parseCredentialsForm(r *http.Request) (username, password string, err error) {
	if err := r.ParseForm(); err != nil {
		return "", "", err
	}
	username = r.FormValue("username")
	password = r.FormValue("password")
	if username == "" || password == "" {
		return "", "", errors.New("username and password required")
	}
	return username, password, nil
}
