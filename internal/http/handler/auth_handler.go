package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ivan1013/esports-management-system/internal/http/response"
	"github.com/ivan1013/esports-management-system/internal/observability"
	"github.com/ivan1013/esports-management-system/internal/security"
	"github.com/ivan1013/esports-management-system/internal/service"
)

const (
	msgInvalidCredentials  = "Invalid username or password"
	msgInvalidRefreshToken = "Invalid refresh token"
)

type AuthHandler struct {
	auth       service.AuthServiceInterface
	jwtMgr     *security.JWTManager
	sessionTTL time.Duration
	refreshTTL time.Duration
}

func NewAuthHandler(auth service.AuthServiceInterface, jwtMgr *security.JWTManager, sessionTTL, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, jwtMgr: jwtMgr, sessionTTL: sessionTTL, refreshTTL: refreshTTL}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Message(w, r, http.StatusBadRequest, false, "Invalid request body")
		return
	}
	_, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput),
			errors.Is(err, service.ErrDuplicateUsername),
			errors.Is(err, service.ErrDuplicateEmail):
			response.Message(w, r, http.StatusBadRequest, false, err.Error())
		default:
			response.Message(w, r, http.StatusInternalServerError, false, "Registration failed")
		}
		return
	}
	observability.Audit(r, "user.registered", "username", req.Username)
	response.Message(w, r, http.StatusOK, true, "User registered successfully")
}

// Login authenticates and, besides the JSON pair, sets the browser cookies so
// the same endpoint serves API clients and the web front end.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Message(w, r, http.StatusBadRequest, false, msgInvalidCredentials)
		return
	}
	pair, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Message(w, r, http.StatusBadRequest, false, msgInvalidCredentials)
			return
		}
		response.Message(w, r, http.StatusInternalServerError, false, "Login failed")
		return
	}

	h.setAuthCookies(w, r, pair)
	observability.Audit(r, "user.login", "username", pair.User.Username)
	response.JSON(w, r, http.StatusOK, response.AuthResult{
		Success:      true,
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Message:      "Login successful",
	})
}

func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Message(w, r, http.StatusBadRequest, false, msgInvalidRefreshToken)
		return
	}
	pair, err := h.auth.Refresh(r.Context(), req.Token, req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			response.Message(w, r, http.StatusBadRequest, false, msgInvalidRefreshToken)
			return
		}
		response.Message(w, r, http.StatusInternalServerError, false, "Token refresh failed")
		return
	}

	h.setAuthCookies(w, r, pair)
	response.JSON(w, r, http.StatusOK, response.AuthResult{
		Success:      true,
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Message:      "Token refreshed successfully",
	})
}

// Logout clears the browser cookies. The stored refresh token is left in
// place and simply ages out; logging in again overwrites it.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, security.ExpireCookie(security.AccessTokenCookie))
	http.SetCookie(w, security.ExpireCookie(security.RefreshTokenCookie))
	http.SetCookie(w, security.ExpireCookie(security.SessionCookie))
	observability.RecordAuthLogout(r.Context(), "success")
	observability.Audit(r, "user.logout")
	response.Message(w, r, http.StatusOK, true, "Logged out")
}

func (h *AuthHandler) setAuthCookies(w http.ResponseWriter, r *http.Request, pair *service.TokenPair) {
	secure := security.IsRequestSecure(r)
	http.SetCookie(w, security.NewAuthCookie(security.AccessTokenCookie, pair.AccessToken, h.sessionTTL, secure))
	http.SetCookie(w, security.NewAuthCookie(security.RefreshTokenCookie, pair.RefreshToken, h.refreshTTL, secure))
	if session, err := h.jwtMgr.SignSessionToken(pair.User.Username, pair.AccessToken, pair.RefreshToken, h.sessionTTL); err == nil {
		http.SetCookie(w, security.NewAuthCookie(security.SessionCookie, session, h.sessionTTL, secure))
	}
}
