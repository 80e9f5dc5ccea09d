package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ivan1013/esports-management-system/internal/health"
	"github.com/ivan1013/esports-management-system/internal/http/handler"
	"github.com/ivan1013/esports-management-system/internal/http/middleware"
	"github.com/ivan1013/esports-management-system/internal/http/response"
	"github.com/ivan1013/esports-management-system/internal/security"
)

type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	TeamHandler       *handler.TeamHandler
	PlayerHandler     *handler.PlayerHandler
	TournamentHandler *handler.TournamentHandler
	Web               http.Handler
	JWTManager        *security.JWTManager
	CORSOrigins       []string
	BodyLimitBytes    int64
	AuthRateLimitRPM  int
	APIRateLimitRPM   int
	GlobalRateLimiter func(http.Handler) http.Handler
	AuthRateLimiter   func(http.Handler) http.Handler
	Readiness         *health.ProbeRunner
	EnableOTelHTTP    bool
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	bodyLimit := dep.BodyLimitBytes
	if bodyLimit <= 0 {
		bodyLimit = 1 << 20
	}
	r.Use(middleware.BodyLimit(bodyLimit))
	if dep.GlobalRateLimiter != nil {
		r.Use(dep.GlobalRateLimiter)
	} else {
		r.Use(middleware.NewRateLimiter(dep.APIRateLimitRPM, time.Minute, "api").Middleware())
	}

	authLimiter := dep.AuthRateLimiter
	if authLimiter == nil {
		authLimiter = middleware.NewRateLimiter(dep.AuthRateLimitRPM, time.Minute, "auth").Middleware()
	}

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.JSON(w, r, http.StatusServiceUnavailable, map[string]any{"status": "not_ready", "checks": results})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(authLimiter).Post("/register", dep.AuthHandler.Register)
			r.With(authLimiter).Post("/login", dep.AuthHandler.Login)
			r.With(authLimiter).Post("/refresh-token", dep.AuthHandler.RefreshToken)
			r.Post("/logout", dep.AuthHandler.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.NewSessionBridge(dep.JWTManager).Middleware())

			r.Route("/teams", func(r chi.Router) {
				r.Get("/", dep.TeamHandler.List)
				r.Post("/", dep.TeamHandler.Create)
				r.Get("/{id}", dep.TeamHandler.Get)
				r.Put("/{id}", dep.TeamHandler.Update)
				r.Delete("/{id}", dep.TeamHandler.Delete)
			})
			r.Route("/players", func(r chi.Router) {
				r.Get("/", dep.PlayerHandler.List)
				r.Post("/", dep.PlayerHandler.Create)
				r.Get("/{id}", dep.PlayerHandler.Get)
				r.Put("/{id}", dep.PlayerHandler.Update)
				r.Delete("/{id}", dep.PlayerHandler.Delete)
			})
			r.Route("/tournaments", func(r chi.Router) {
				r.Get("/", dep.TournamentHandler.List)
				r.Post("/", dep.TournamentHandler.Create)
				r.Get("/{id}", dep.TournamentHandler.Get)
				r.Put("/{id}", dep.TournamentHandler.Update)
				r.Delete("/{id}", dep.TournamentHandler.Delete)
			})
		})
	})

	if dep.Web != nil {
		r.Mount("/", dep.Web)
	}

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
