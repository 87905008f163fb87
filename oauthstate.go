package whisperwall

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"net/http"
	"time"
)

const oauthStateCookie = "oauthstate"

// generateStateOauthCookie creates the anti-forgery state value for a
// redirect flow and sets it as a short-lived cookie so the callback can
// verify the round trip.
func generateStateOauthCookie(w http.ResponseWriter) string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		log.Println("Error generating rand: ", err)
	}
	state := base64.URLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return state
}

// verifyStateOauthCookie checks the state echoed by the provider against
// the cookie set at the start of the flow, and clears the cookie either way.
func verifyStateOauthCookie(w http.ResponseWriter, r *http.Request) bool {
	defer clearStateOauthCookie(w)

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" {
		log.Println("oauth state cookie missing")
		return false
	}
	if r.FormValue("state") != cookie.Value {
		log.Println("oauth state mismatch")
		return false
	}
	return true
}

func clearStateOauthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:    oauthStateCookie,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Now(),
	})
}
