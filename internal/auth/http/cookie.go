package http

import (
	"net/http"
	"time"
)

// CookieConfig controls how the access token cookie is written.
type CookieConfig struct {
	// Name of the access token cookie.
	Name string
	// Secure marks the cookie HTTPS-only. Off in dev so local HTTP works.
	Secure bool
	// MaxAge should cover the refresh TTL, not the access TTL: the browser
	// must keep presenting the expired access token so the gate can renew
	// it transparently.
	MaxAge time.Duration
}

// writeAccessCookie attaches the access token as an HTTP-only cookie.
func writeAccessCookie(w http.ResponseWriter, cfg CookieConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearAccessCookie expires the access token cookie (logout).
func clearAccessCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// readAccessToken extracts the access token from the cookie, falling back to
// an Authorization bearer header for non-browser clients.
func readAccessToken(r *http.Request, cfg CookieConfig) string {
	if c, err := r.Cookie(cfg.Name); err == nil && c.Value != "" {
		return c.Value
	}
	const prefix = "Bearer "
	if authz := r.Header.Get("Authorization"); len(authz) > len(prefix) && authz[:len(prefix)] == prefix {
		return authz[len(prefix):]
	}
	return ""
}
