package auth

import (
	"net/http"
	"time"

	"github.com/EstateHub/marketplace-backend/internal/session"
)

const SessionCookieName = "session_token"

// CookieCodec moves session tokens across the HTTP boundary.
// Secure is switched off only for plain-HTTP local development.
type CookieCodec struct {
	Secure bool
}

func (c CookieCodec) Write(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read returns false when the cookie is missing, empty or not a well-formed token.
func (c CookieCodec) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	if !session.WellFormed(cookie.Value) {
		return "", false
	}
	return cookie.Value, true
}

func (c CookieCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
