package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ivan1013/esports-management-system/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the access-token claim set. Subject carries the username; UserID
// mirrors the numeric account id so API handlers never need a store lookup.
type Claims struct {
	TokenType string `json:"token_type"`
	Email     string `json:"email,omitempty"`
	UserID    uint   `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

// SessionClaims is the browser session principal: the username plus the raw
// access and refresh token values, carried inside the signed session cookie.
type SessionClaims struct {
	TokenType    string `json:"token_type"`
	AccessToken  string `json:"atk,omitempty"`
	RefreshToken string `json:"rtk,omitempty"`
	jwt.RegisteredClaims
}

const (
	tokenTypeAccess  = "access"
	tokenTypeSession = "session"
)

type JWTManager struct {
	issuer    string
	audience  string
	secret    []byte
	accessTTL time.Duration
}

func NewJWTManager(issuer, audience, secret string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{
		issuer:    issuer,
		audience:  audience,
		secret:    []byte(secret),
		accessTTL: accessTTL,
	}
}

func (m *JWTManager) AccessTTL() time.Duration { return m.accessTTL }

// SignAccessToken mints a signed HS256 token for the user with a fresh jti.
func (m *JWTManager) SignAccessToken(user *domain.User) (string, error) {
	claims := Claims{
		TokenType: tokenTypeAccess,
		Email:     user.Email,
		UserID:    user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   user.Username,
			Audience:  []string{m.audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseAccessToken verifies signature, algorithm, issuer, audience and expiry.
// An expired but otherwise valid token yields ErrTokenExpired; every other
// failure collapses to ErrInvalidToken.
func (m *JWTManager) ParseAccessToken(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, m.keyFunc,
		jwt.WithIssuer(m.issuer), jwt.WithAudience(m.audience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !tok.Valid || claims.TokenType != tokenTypeAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseAccessTokenIgnoringExpiry runs the same checks as ParseAccessToken
// except lifetime, so the refresh flow can recover the subject of an already
// expired token. Issuer, audience and algorithm are verified by hand because
// claim validation as a whole is switched off.
func (m *JWTManager) ParseAccessTokenIgnoringExpiry(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, m.keyFunc, jwt.WithoutClaimsValidation())
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenTypeAccess || claims.Issuer != m.issuer || !containsAudience(claims.Audience, m.audience) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SignSessionToken builds the signed browser-session credential. Its lifetime
// is independent of the access token's own expiry.
func (m *JWTManager) SignSessionToken(username, accessToken, refreshToken string, ttl time.Duration) (string, error) {
	claims := SessionClaims{
		TokenType:    tokenTypeSession,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   username,
			Audience:  []string{m.audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *JWTManager) ParseSessionToken(raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, m.keyFunc,
		jwt.WithIssuer(m.issuer), jwt.WithAudience(m.audience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !tok.Valid || claims.TokenType != tokenTypeSession {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *JWTManager) keyFunc(token *jwt.Token) (any, error) {
	if token.Method != jwt.SigningMethodHS256 {
		return nil, errors.New("unexpected signing algorithm")
	}
	return m.secret, nil
}

func containsAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
