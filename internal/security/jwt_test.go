package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ivan1013/esports-management-system/internal/domain"
)

const testSecret = "abcdefghijklmnopqrstuvwxyz123456"

func newTestManager(ttl time.Duration) *JWTManager {
	return NewJWTManager("esports-api", "esports-clients", testSecret, ttl)
}

func testAccount() *domain.User {
	return &domain.User{ID: 7, Username: "alice", Email: "a@x.com"}
}

func TestAccessTokenRoundTripPreservesIdentity(t *testing.T) {
	m := newTestManager(time.Hour)
	raw, err := m.SignAccessToken(testAccount())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := m.ParseAccessToken(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("subject = %q, want alice", claims.Subject)
	}
	if claims.Email != "a@x.com" || claims.UserID != 7 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("expected a non-empty jti")
	}
}

func TestAccessTokenJTIIsFreshPerIssue(t *testing.T) {
	m := newTestManager(time.Hour)
	first, err := m.SignAccessToken(testAccount())
	if err != nil {
		t.Fatalf("sign first: %v", err)
	}
	second, err := m.SignAccessToken(testAccount())
	if err != nil {
		t.Fatalf("sign second: %v", err)
	}
	c1, _ := m.ParseAccessToken(first)
	c2, _ := m.ParseAccessToken(second)
	if c1 == nil || c2 == nil || c1.ID == c2.ID {
		t.Fatal("expected distinct jti per issued token")
	}
}

func TestExpiredTokenFailsValidateButNotIgnoringExpiry(t *testing.T) {
	m := newTestManager(-time.Minute)
	raw, err := m.SignAccessToken(testAccount())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.ParseAccessToken(raw); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	claims, err := m.ParseAccessTokenIgnoringExpiry(raw)
	if err != nil {
		t.Fatalf("ignore-expiry parse: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("recovered subject = %q, want alice", claims.Subject)
	}
}

func TestParseAccessTokenRejectsForeignTokens(t *testing.T) {
	m := newTestManager(time.Hour)

	cases := []struct {
		name string
		raw  func(t *testing.T) string
	}{
		{name: "garbage", raw: func(t *testing.T) string { return "not-a-token" }},
		{name: "wrong secret", raw: func(t *testing.T) string {
			other := NewJWTManager("esports-api", "esports-clients", "00000000000000000000000000000000", time.Hour)
			raw, err := other.SignAccessToken(testAccount())
			if err != nil {
				t.Fatalf("sign: %v", err)
			}
			return raw
		}},
		{name: "wrong issuer", raw: func(t *testing.T) string {
			other := NewJWTManager("someone-else", "esports-clients", testSecret, time.Hour)
			raw, err := other.SignAccessToken(testAccount())
			if err != nil {
				t.Fatalf("sign: %v", err)
			}
			return raw
		}},
		{name: "wrong audience", raw: func(t *testing.T) string {
			other := NewJWTManager("esports-api", "other-audience", testSecret, time.Hour)
			raw, err := other.SignAccessToken(testAccount())
			if err != nil {
				t.Fatalf("sign: %v", err)
			}
			return raw
		}},
		{name: "session token is not an access token", raw: func(t *testing.T) string {
			raw, err := m.SignSessionToken("alice", "atk", "rtk", time.Hour)
			if err != nil {
				t.Fatalf("sign session: %v", err)
			}
			return raw
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := tc.raw(t)
			if _, err := m.ParseAccessToken(raw); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("ParseAccessToken: expected ErrInvalidToken, got %v", err)
			}
			if _, err := m.ParseAccessTokenIgnoringExpiry(raw); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("ParseAccessTokenIgnoringExpiry: expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestIgnoringExpiryStillRejectsAlgorithmSubstitution(t *testing.T) {
	m := newTestManager(time.Hour)
	claims := Claims{
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "esports-api",
			Subject:   "alice",
			Audience:  []string{"esports-clients"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign hs512: %v", err)
	}
	if _, err := m.ParseAccessTokenIgnoringExpiry(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for HS512 token, got %v", err)
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	m := newTestManager(time.Hour)
	raw, err := m.SignSessionToken("alice", "access-value", "refresh-value", 24*time.Hour)
	if err != nil {
		t.Fatalf("sign session: %v", err)
	}
	claims, err := m.ParseSessionToken(raw)
	if err != nil {
		t.Fatalf("parse session: %v", err)
	}
	if claims.Subject != "alice" || claims.AccessToken != "access-value" || claims.RefreshToken != "refresh-value" {
		t.Fatalf("unexpected session claims: %+v", claims)
	}

	access, err := m.SignAccessToken(testAccount())
	if err != nil {
		t.Fatalf("sign access: %v", err)
	}
	if _, err := m.ParseSessionToken(access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected access token to be rejected as session, got %v", err)
	}
}
