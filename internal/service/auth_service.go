package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/ivan1013/esports-management-system/internal/domain"
	"github.com/ivan1013/esports-management-system/internal/observability"
	"github.com/ivan1013/esports-management-system/internal/repository"
	"github.com/ivan1013/esports-management-system/internal/security"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrDuplicateUsername   = errors.New("username already taken")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

type AuthService struct {
	users      repository.UserRepository
	jwtMgr     *security.JWTManager
	refreshTTL time.Duration
}

func NewAuthService(users repository.UserRepository, jwtMgr *security.JWTManager, refreshTTL time.Duration) *AuthService {
	return &AuthService{users: users, jwtMgr: jwtMgr, refreshTTL: refreshTTL}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	user, err := s.register(ctx, input)
	observability.RecordAuthRegister(ctx, registerOutcome(err))
	return user, err
}

func (s *AuthService) register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || len(username) > 50 {
		return nil, fmt.Errorf("%w: username must be 1-50 characters", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil || len(email) > 100 {
		return nil, fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}
	if input.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateUsername
	}
	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateEmail
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{Username: username, Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and mints a fresh access/refresh pair. The new
// refresh token replaces whatever token the account held before, so at most
// one refresh token is valid per user at any time.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	pair, err := s.login(ctx, username, password)
	observability.RecordAuthLogin(ctx, authOutcome(err))
	return pair, err
}

func (s *AuthService) login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !security.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.mintPair(ctx, user)
}

// Refresh exchanges an expired access token plus the matching refresh token
// for a new pair. The access token is parsed without lifetime validation but
// with signature, issuer, and audience checks intact.
func (s *AuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	pair, err := s.refresh(ctx, accessToken, refreshToken)
	observability.RecordAuthRefresh(ctx, authOutcome(err))
	return pair, err
}

func (s *AuthService) refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtMgr.ParseAccessTokenIgnoringExpiry(accessToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	user, err := s.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return nil, ErrInvalidRefreshToken
	}
	if user.RefreshTokenExpiresAt == nil || user.RefreshTokenExpiresAt.Before(time.Now()) {
		return nil, ErrInvalidRefreshToken
	}
	return s.mintPair(ctx, user)
}

func (s *AuthService) mintPair(ctx context.Context, user *domain.User) (*TokenPair, error) {
	access, err := s.jwtMgr.SignAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := security.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().Add(s.refreshTTL)
	if err := s.users.UpdateRefreshToken(ctx, user.ID, refresh, expiresAt); err != nil {
		return nil, err
	}
	user.RefreshToken = &refresh
	user.RefreshTokenExpiresAt = &expiresAt
	return &TokenPair{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

func registerOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrDuplicateUsername), errors.Is(err, ErrDuplicateEmail):
		return "duplicate"
	default:
		return "error"
	}
}

func authOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidRefreshToken):
		return "denied"
	default:
		return "error"
	}
}
