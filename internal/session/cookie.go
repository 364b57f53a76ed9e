package session

import (
	"net/http"
)

const CookieName = "__Host-hiring-session"

// CookieOptions controls how the session cookie is issued after login.
type CookieOptions struct {
	Secure   bool
	SameSite http.SameSite
}

// SetCookie hands the session token to the browser. The __Host- prefix
// requires Path=/ and no Domain.
func SetCookie(w http.ResponseWriter, s Session, opts CookieOptions) {
	sameSite := opts.SameSite
	if sameSite == 0 {
		sameSite = http.SameSiteLaxMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: sameSite,
	})
}
