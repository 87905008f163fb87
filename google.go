package whisperwall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// DefaultOAuthTimeout bounds the token exchange plus the profile fetch so a
// hung provider call fails instead of blocking the request forever.
const DefaultOAuthTimeout = 10 * time.Second

// GoogleAuth drives the three-legged authorization-code flow against Google
// and resolves callbacks to local users with find-or-create semantics keyed
// by the Google subject id.
type GoogleAuth struct {
	Users UserStore

	// Config holds the oauth2 client settings.  Tests point the Endpoint
	// at a mock provider.
	Config oauth2.Config

	// UserInfoURL is where the profile document is fetched from.  Defaults
	// to Google's v2 userinfo endpoint.
	UserInfoURL string

	// Timeout bounds the provider network calls.  Defaults to
	// DefaultOAuthTimeout.
	Timeout time.Duration
}

func NewGoogleAuth(clientId, clientSecret, callbackUrl string, users UserStore) *GoogleAuth {
	if clientId == "" {
		clientId = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if callbackUrl == "" {
		callbackUrl = os.Getenv("GOOGLE_CALLBACK_URL")
	}
	return &GoogleAuth{
		Users: users,
		Config: oauth2.Config{
			ClientID:     clientId,
			ClientSecret: clientSecret,
			RedirectURL:  callbackUrl,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		UserInfoURL: googleUserInfoURL,
	}
}

// Begin redirects the user agent to the provider's authorization endpoint.
// No local state is created beyond the anti-forgery cookie.
func (g *GoogleAuth) Begin(w http.ResponseWriter, r *http.Request) {
	state := generateStateOauthCookie(w)
	http.Redirect(w, r, g.Config.AuthCodeURL(state), http.StatusFound)
}

// HandleCallback completes the flow: verifies the state round trip,
// exchanges the authorization code, fetches the profile and resolves it to
// a local user.  Any provider failure returns ErrOAuthExchangeFailed; a
// profile without a stable id returns ErrOAuthProfileInvalid.
func (g *GoogleAuth) HandleCallback(w http.ResponseWriter, r *http.Request) (*User, error) {
	if !verifyStateOauthCookie(w, r) {
		return nil, fmt.Errorf("%w: state mismatch", ErrOAuthExchangeFailed)
	}

	ctx, cancel := context.WithTimeout(r.Context(), g.timeout())
	defer cancel()

	code := r.FormValue("code")
	token, err := g.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthExchangeFailed, err)
	}

	profile, err := g.fetchUserInfo(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthExchangeFailed, err)
	}
	if profile.Id == "" {
		return nil, ErrOAuthProfileInvalid
	}

	return g.findOrCreateUser(r.Context(), profile.Id)
}

// findOrCreateUser resolves an external id to a local user, creating the
// record on first sight.  The same external id always maps to the same
// User.Id.
func (g *GoogleAuth) findOrCreateUser(ctx context.Context, externalId string) (*User, error) {
	user, err := g.Users.GetUserByExternalId(ctx, externalId)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user = &User{
		Id:         uuid.NewString(),
		ExternalId: externalId,
	}
	if err := g.Users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("Created google user %s for subject %s", user.Id, externalId)
	return user, nil
}

type googleUserInfo struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (g *GoogleAuth) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("create userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &info, nil
}

func (g *GoogleAuth) userInfoURL() string {
	if g.UserInfoURL != "" {
		return g.UserInfoURL
	}
	return googleUserInfoURL
}

func (g *GoogleAuth) timeout() time.Duration {
	if g.Timeout > 0 {
		return g.Timeout
	}
	return DefaultOAuthTimeout
}
