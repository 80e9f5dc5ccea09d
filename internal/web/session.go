package web

import (
	"context"
	"net/http"
	"time"

	"github.com/ivan1013/esports-management-system/internal/http/middleware"
	"github.com/ivan1013/esports-management-system/internal/security"
)

type sessionContextKey string

const sessionKey sessionContextKey = "web.session"

// SessionManager owns the signed browser session: one cookie holding the
// username plus the current token pair, re-signed past its half-life so an
// active user never hits a hard expiry.
type SessionManager struct {
	jwtMgr *security.JWTManager
	ttl    time.Duration
}

func NewSessionManager(jwtMgr *security.JWTManager, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionManager{jwtMgr: jwtMgr, ttl: ttl}
}

// Issue writes the session cookie for username with the given token pair.
func (m *SessionManager) Issue(w http.ResponseWriter, r *http.Request, username, accessToken, refreshToken string) error {
	token, err := m.jwtMgr.SignSessionToken(username, accessToken, refreshToken, m.ttl)
	if err != nil {
		return err
	}
	http.SetCookie(w, security.NewAuthCookie(security.SessionCookie, token, m.ttl, security.IsRequestSecure(r)))
	return nil
}

func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, security.ExpireCookie(security.SessionCookie))
	http.SetCookie(w, security.ExpireCookie(security.AccessTokenCookie))
	http.SetCookie(w, security.ExpireCookie(security.RefreshTokenCookie))
}

// Current parses the session cookie, or nil when absent or invalid.
func (m *SessionManager) Current(r *http.Request) *security.SessionClaims {
	raw := security.GetCookie(r, security.SessionCookie)
	if raw == "" {
		return nil
	}
	claims, err := m.jwtMgr.ParseSessionToken(raw)
	if err != nil {
		return nil
	}
	return claims
}

// Require guards a page through the session cookie strategy, redirecting
// anonymous visitors to the login form. Valid sessions past their half-life
// are transparently re-issued, giving the 24h window sliding semantics.
func (m *SessionManager) Require(next http.Handler) http.Handler {
	strategy := middleware.NewCookieStrategy(m.jwtMgr)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := strategy.Authenticate(r)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		claims := m.Current(r)
		if claims == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		if claims.ExpiresAt != nil && time.Until(claims.ExpiresAt.Time) < m.ttl/2 {
			_ = m.Issue(w, r, claims.Subject, claims.AccessToken, claims.RefreshToken)
		}
		ctx := context.WithValue(r.Context(), sessionKey, claims)
		ctx = context.WithValue(ctx, middleware.PrincipalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFromContext returns the claims stored by Require.
func SessionFromContext(ctx context.Context) (*security.SessionClaims, bool) {
	claims, ok := ctx.Value(sessionKey).(*security.SessionClaims)
	return claims, ok
}
