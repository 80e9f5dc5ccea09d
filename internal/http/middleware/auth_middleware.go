package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ivan1013/esports-management-system/internal/http/response"
	"github.com/ivan1013/esports-management-system/internal/observability"
	"github.com/ivan1013/esports-management-system/internal/security"
)

type contextKey string

const PrincipalContextKey contextKey = "principal"

// Principal is the authenticated identity attached to the request context.
// Source records which strategy admitted the request.
type Principal struct {
	Username string
	Email    string
	UserID   uint
	Source   string
}

var ErrNoCredentials = errors.New("no credentials presented")

// Strategy extracts and verifies credentials from a request.
type Strategy interface {
	Name() string
	Authenticate(r *http.Request) (*Principal, error)
}

// BearerStrategy validates the access token from the Authorization header,
// falling back to the JwtToken cookie so browser tabs can call the API
// without extra plumbing.
type BearerStrategy struct {
	jwtMgr *security.JWTManager
}

func NewBearerStrategy(jwtMgr *security.JWTManager) *BearerStrategy {
	return &BearerStrategy{jwtMgr: jwtMgr}
}

func (s *BearerStrategy) Name() string { return "bearer" }

func (s *BearerStrategy) Authenticate(r *http.Request) (*Principal, error) {
	raw := ""
	source := "bearer"
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		raw = strings.TrimSpace(auth[7:])
	}
	if raw == "" {
		raw = security.GetCookie(r, security.AccessTokenCookie)
		source = "cookie"
	}
	if raw == "" {
		return nil, ErrNoCredentials
	}
	claims, err := s.jwtMgr.ParseAccessToken(raw)
	if err != nil {
		return nil, err
	}
	return &Principal{
		Username: claims.Subject,
		Email:    claims.Email,
		UserID:   claims.UserID,
		Source:   source,
	}, nil
}

// CookieStrategy validates the signed session cookie issued at browser login.
// The session outlives the short access token it embeds, so the embedded
// token is decoded without lifetime checks to recover the email and user id.
type CookieStrategy struct {
	jwtMgr *security.JWTManager
}

func NewCookieStrategy(jwtMgr *security.JWTManager) *CookieStrategy {
	return &CookieStrategy{jwtMgr: jwtMgr}
}

func (s *CookieStrategy) Name() string { return "session" }

func (s *CookieStrategy) Authenticate(r *http.Request) (*Principal, error) {
	raw := security.GetCookie(r, security.SessionCookie)
	if raw == "" {
		return nil, ErrNoCredentials
	}
	session, err := s.jwtMgr.ParseSessionToken(raw)
	if err != nil {
		return nil, err
	}
	principal := &Principal{Username: session.Subject, Source: "session"}
	if claims, err := s.jwtMgr.ParseAccessTokenIgnoringExpiry(session.AccessToken); err == nil {
		principal.Email = claims.Email
		principal.UserID = claims.UserID
	}
	return principal, nil
}

// IsAPIPath reports whether the request targets the JSON API rather than a
// server-rendered page.
func IsAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

// SessionBridge routes each request to the matching strategy: bearer for API
// paths, session cookie for everything else. API failures get a 401 JSON
// body; page failures redirect to the login form.
type SessionBridge struct {
	bearer Strategy
	cookie Strategy
}

func NewSessionBridge(jwtMgr *security.JWTManager) *SessionBridge {
	return &SessionBridge{bearer: NewBearerStrategy(jwtMgr), cookie: NewCookieStrategy(jwtMgr)}
}

func (b *SessionBridge) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			api := IsAPIPath(r.URL.Path)
			strategy := b.cookie
			if api {
				strategy = b.bearer
			}
			principal, err := strategy.Authenticate(r)
			if err != nil {
				result := "invalid"
				if errors.Is(err, ErrNoCredentials) {
					result = "missing"
				}
				observability.RecordAccessTokenValidation(r.Context(), result, strategy.Name())
				if api {
					response.Message(w, r, http.StatusUnauthorized, false, "Unauthorized")
					return
				}
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			observability.RecordAccessTokenValidation(r.Context(), "valid", principal.Source)
			ctx := context.WithValue(r.Context(), PrincipalContextKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(PrincipalContextKey).(*Principal)
	return p, ok
}
