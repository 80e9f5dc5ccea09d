package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ivan1013/esports-management-system/internal/domain"
	"github.com/ivan1013/esports-management-system/internal/security"
)

const testSecret = "abcdefghijklmnopqrstuvwxyz123456"

func newJWTManagerForTest(ttl time.Duration) *security.JWTManager {
	return security.NewJWTManager("esports-api", "esports-clients", testSecret, ttl)
}

func accessTokenForTest(t *testing.T, jwtMgr *security.JWTManager) string {
	t.Helper()
	token, err := jwtMgr.SignAccessToken(&domain.User{
		ID:       7,
		Username: "alice",
		Email:    "alice@example.com",
	})
	if err != nil {
		t.Fatalf("sign access token: %v", err)
	}
	return token
}

func principalEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			t.Fatal("principal missing from context")
		}
		w.Header().Set("X-Username", p.Username)
		w.Header().Set("X-Source", p.Source)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestIsAPIPath(t *testing.T) {
	cases := map[string]bool{
		"/api":            true,
		"/api/":           true,
		"/api/teams":      true,
		"/api/auth/login": true,
		"/apis":           false,
		"/":               false,
		"/login":          false,
		"/teams":          false,
	}
	for path, want := range cases {
		if got := IsAPIPath(path); got != want {
			t.Fatalf("IsAPIPath(%q)=%v want %v", path, got, want)
		}
	}
}

func TestBearerStrategyHeaderAndCookieFallback(t *testing.T) {
	jwtMgr := newJWTManagerForTest(time.Hour)
	token := accessTokenForTest(t, jwtMgr)
	h := NewSessionBridge(jwtMgr).Middleware()(principalEcho(t))

	t.Run("authorization header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusNoContent || rr.Header().Get("X-Source") != "bearer" {
			t.Fatalf("status=%d source=%q", rr.Code, rr.Header().Get("X-Source"))
		}
		if rr.Header().Get("X-Username") != "alice" {
			t.Fatalf("username=%q", rr.Header().Get("X-Username"))
		}
	})

	t.Run("cookie fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
		req.AddCookie(&http.Cookie{Name: security.AccessTokenCookie, Value: token})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusNoContent || rr.Header().Get("X-Source") != "cookie" {
			t.Fatalf("status=%d source=%q", rr.Code, rr.Header().Get("X-Source"))
		}
	})

	t.Run("header wins over cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		req.AddCookie(&http.Cookie{Name: security.AccessTokenCookie, Value: "garbage"})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusNoContent || rr.Header().Get("X-Source") != "bearer" {
			t.Fatalf("status=%d source=%q", rr.Code, rr.Header().Get("X-Source"))
		}
	})
}

func TestBridgeRejectsBadAPICredentials(t *testing.T) {
	jwtMgr := newJWTManagerForTest(time.Hour)
	expiredMgr := newJWTManagerForTest(-time.Minute)
	expired := accessTokenForTest(t, expiredMgr)
	h := NewSessionBridge(jwtMgr).Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{name: "no credentials", setup: func(*http.Request) {}},
		{name: "malformed token", setup: func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer not-a-jwt")
		}},
		{name: "expired token", setup: func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+expired)
		}},
		{name: "garbage cookie", setup: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: security.AccessTokenCookie, Value: "garbage"})
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
			tc.setup(req)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("status=%d want 401", rr.Code)
			}
		})
	}
}

func TestSessionBridgeSelectsStrategyByPath(t *testing.T) {
	jwtMgr := newJWTManagerForTest(time.Hour)
	token := accessTokenForTest(t, jwtMgr)
	session, err := jwtMgr.SignSessionToken("alice", token, "refresh-value", 24*time.Hour)
	if err != nil {
		t.Fatalf("sign session token: %v", err)
	}
	h := NewSessionBridge(jwtMgr).Middleware()(principalEcho(t))

	t.Run("api path uses bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusNoContent || rr.Header().Get("X-Source") != "bearer" {
			t.Fatalf("status=%d source=%q", rr.Code, rr.Header().Get("X-Source"))
		}
	})

	t.Run("page path uses session cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/teams", nil)
		req.AddCookie(&http.Cookie{Name: security.SessionCookie, Value: session})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusNoContent || rr.Header().Get("X-Source") != "session" {
			t.Fatalf("status=%d source=%q", rr.Code, rr.Header().Get("X-Source"))
		}
		if rr.Header().Get("X-Username") != "alice" {
			t.Fatalf("username=%q", rr.Header().Get("X-Username"))
		}
	})

	t.Run("session cookie does not admit api paths", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
		req.AddCookie(&http.Cookie{Name: security.SessionCookie, Value: session})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status=%d want 401", rr.Code)
		}
	})

	t.Run("unauthenticated page redirects to login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/teams", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/login" {
			t.Fatalf("status=%d location=%q", rr.Code, rr.Header().Get("Location"))
		}
	})
}

func TestCookieStrategyOutlivesAccessTokenExpiry(t *testing.T) {
	// The session window is longer than the access token lifetime; an expired
	// embedded token must not invalidate the session itself.
	expiredMgr := newJWTManagerForTest(-time.Minute)
	expired := accessTokenForTest(t, expiredMgr)
	session, err := expiredMgr.SignSessionToken("alice", expired, "refresh-value", 24*time.Hour)
	if err != nil {
		t.Fatalf("sign session token: %v", err)
	}

	strategy := NewCookieStrategy(expiredMgr)
	req := httptest.NewRequest(http.MethodGet, "/teams", nil)
	req.AddCookie(&http.Cookie{Name: security.SessionCookie, Value: session})

	principal, err := strategy.Authenticate(req)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if principal.Username != "alice" || principal.Email != "alice@example.com" {
		t.Fatalf("principal %+v", principal)
	}
}
