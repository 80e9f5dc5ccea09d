package security

import (
	"net/http"
	"time"
)

// Cookie names shared between the API and the web front end.
const (
	AccessTokenCookie  = "JwtToken"
	RefreshTokenCookie = "RefreshToken"
	SessionCookie      = ".esports.session"
	CSRFCookie         = "csrf_token"
)

func GetCookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// NewAuthCookie builds an http-only, same-site-lax cookie. secure follows the
// inbound request's transport, matching the original same-as-request policy.
func NewAuthCookie(name, value string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpireCookie returns a deletion cookie for name.
func ExpireCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// IsRequestSecure reports whether the request arrived over TLS, directly or
// via a forwarding proxy.
func IsRequestSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return r.Header.Get("X-Forwarded-Proto") == "https"
}
