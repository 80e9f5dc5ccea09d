package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ivan1013/esports-management-system/internal/domain"
	"github.com/ivan1013/esports-management-system/internal/http/middleware"
	"github.com/ivan1013/esports-management-system/internal/observability"
	"github.com/ivan1013/esports-management-system/internal/security"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Handler serves the server-rendered pages. It talks to the JSON API through
// APIClient and keeps browser state in the signed session cookie.
type Handler struct {
	client     *APIClient
	sessions   *SessionManager
	tmpl       *template.Template
	sessionTTL time.Duration
	refreshTTL time.Duration
}

type pageData struct {
	Title    string
	Error    string
	Notice   string
	CSRF     string
	Username string
	Email    string
	Session  *security.SessionClaims

	Teams      []domain.Team
	Players    []PlayerListItem
	TotalCount int64
	TotalPages int
	PageNumber int
}

func NewHandler(client *APIClient, sessions *SessionManager, sessionTTL, refreshTTL time.Duration) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Handler{
		client:     client,
		sessions:   sessions,
		tmpl:       tmpl,
		sessionTTL: sessionTTL,
		refreshTTL: refreshTTL,
	}, nil
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Home)
	r.Get("/login", h.LoginForm)
	r.With(middleware.CSRFMiddleware).Post("/login", h.Login)
	r.Get("/register", h.RegisterForm)
	r.With(middleware.CSRFMiddleware).Post("/register", h.Register)
	r.With(middleware.CSRFMiddleware).Post("/logout", h.Logout)
	r.Group(func(r chi.Router) {
		r.Use(h.sessions.Require)
		r.Get("/teams", h.Teams)
		r.Get("/players", h.Players)
	})
	return r
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "home", pageData{Title: "Home", Session: h.sessions.Current(r)})
}

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.sessions.Current(r) != nil {
		http.Redirect(w, r, "/teams", http.StatusFound)
		return
	}
	h.render(w, r, "login", pageData{Title: "Log in", Notice: r.URL.Query().Get("notice")})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	result, err := h.client.Login(r.Context(), username, password)
	if err != nil {
		h.render(w, r, "login", pageData{Title: "Log in", Username: username, Error: "The service is unavailable, try again shortly"})
		return
	}
	if !result.Success {
		h.render(w, r, "login", pageData{Title: "Log in", Username: username, Error: result.Message})
		return
	}

	secure := security.IsRequestSecure(r)
	http.SetCookie(w, security.NewAuthCookie(security.AccessTokenCookie, result.Token, h.sessionTTL, secure))
	http.SetCookie(w, security.NewAuthCookie(security.RefreshTokenCookie, result.RefreshToken, h.refreshTTL, secure))
	if err := h.sessions.Issue(w, r, username, result.Token, result.RefreshToken); err != nil {
		h.render(w, r, "login", pageData{Title: "Log in", Username: username, Error: "Could not establish a session"})
		return
	}
	observability.Audit(r, "web.login", "username", username)
	http.Redirect(w, r, "/teams", http.StatusFound)
}

func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register", pageData{Title: "Register"})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	result, err := h.client.Register(r.Context(), username, email, password)
	if err != nil {
		h.render(w, r, "register", pageData{Title: "Register", Username: username, Email: email, Error: "The service is unavailable, try again shortly"})
		return
	}
	if !result.Success {
		h.render(w, r, "register", pageData{Title: "Register", Username: username, Email: email, Error: result.Message})
		return
	}
	http.Redirect(w, r, "/login?notice=Account+created,+you+can+log+in+now", http.StatusFound)
}

// Logout clears the cookies and nothing else; the stored refresh token stays
// valid server-side until it expires or a new login replaces it.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	observability.RecordAuthLogout(r.Context(), "success")
	observability.Audit(r, "web.logout")
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) Teams(w http.ResponseWriter, r *http.Request) {
	claims, _ := SessionFromContext(r.Context())
	var page *TeamPage
	ok := h.withFreshToken(w, r, claims, "failed to load teams", func(token string) error {
		var err error
		page, err = h.client.ListTeams(r.Context(), token, 1)
		return err
	})
	if !ok {
		return
	}
	h.render(w, r, "teams", pageData{
		Title:      "Teams",
		Session:    claims,
		Teams:      page.Teams,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
		PageNumber: page.PageNumber,
	})
}

func (h *Handler) Players(w http.ResponseWriter, r *http.Request) {
	claims, _ := SessionFromContext(r.Context())
	var page *PlayerPage
	ok := h.withFreshToken(w, r, claims, "failed to load players", func(token string) error {
		var err error
		page, err = h.client.ListPlayers(r.Context(), token, 1)
		return err
	})
	if !ok {
		return
	}
	h.render(w, r, "players", pageData{
		Title:      "Players",
		Session:    claims,
		Players:    page.Players,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
		PageNumber: page.PageNumber,
	})
}

// withFreshToken runs call with the session's access token. When the first
// attempt fails the access token may simply have expired, so the refresh
// token is traded for a new pair, the cookies are re-issued, and call runs
// once more. A false return means a response has already been written.
func (h *Handler) withFreshToken(w http.ResponseWriter, r *http.Request, claims *security.SessionClaims, failMsg string, call func(token string) error) bool {
	if call(claims.AccessToken) == nil {
		return true
	}
	refreshed, err := h.client.Refresh(r.Context(), claims.AccessToken, claims.RefreshToken)
	if err != nil || !refreshed.Success {
		h.sessions.Clear(w)
		http.Redirect(w, r, "/login", http.StatusFound)
		return false
	}
	secure := security.IsRequestSecure(r)
	http.SetCookie(w, security.NewAuthCookie(security.AccessTokenCookie, refreshed.Token, h.sessionTTL, secure))
	http.SetCookie(w, security.NewAuthCookie(security.RefreshTokenCookie, refreshed.RefreshToken, h.refreshTTL, secure))
	_ = h.sessions.Issue(w, r, claims.Subject, refreshed.Token, refreshed.RefreshToken)
	if call(refreshed.Token) != nil {
		http.Error(w, failMsg, http.StatusBadGateway)
		return false
	}
	return true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	data.CSRF = h.ensureCSRF(w, r)
	if data.Session == nil {
		data.Session = h.sessions.Current(r)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// ensureCSRF returns the double-submit token, minting the cookie on first
// contact.
func (h *Handler) ensureCSRF(w http.ResponseWriter, r *http.Request) string {
	if token := security.GetCookie(r, security.CSRFCookie); token != "" {
		return token
	}
	token, err := security.NewCSRFToken()
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     security.CSRFCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL / time.Second),
		Secure:   security.IsRequestSecure(r),
		SameSite: http.SameSiteLaxMode,
	})
	return token
}
