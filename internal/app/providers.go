package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ivan1013/esports-management-system/internal/config"
	"github.com/ivan1013/esports-management-system/internal/domain"
	"github.com/ivan1013/esports-management-system/internal/health"
	"github.com/ivan1013/esports-management-system/internal/http/handler"
	"github.com/ivan1013/esports-management-system/internal/http/middleware"
	"github.com/ivan1013/esports-management-system/internal/http/router"
	"github.com/ivan1013/esports-management-system/internal/observability"
	"github.com/ivan1013/esports-management-system/internal/repository"
	"github.com/ivan1013/esports-management-system/internal/security"
	"github.com/ivan1013/esports-management-system/internal/service"
	"github.com/ivan1013/esports-management-system/internal/web"
)

func provideDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Team{}, &domain.Player{}, &domain.Tournament{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// provideRedis returns nil when no address is configured; callers fall back
// to in-process equivalents.
func provideRedis(cfg *config.Config) redis.UniversalClient {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTSecret, cfg.AccessTokenTTL)
}

func provideAuthService(db *gorm.DB, jwtMgr *security.JWTManager, cfg *config.Config) *service.AuthService {
	return service.NewAuthService(repository.NewUserRepository(db), jwtMgr, cfg.RefreshTokenTTL)
}

func provideReadiness(db *gorm.DB, redisClient redis.UniversalClient) *health.ProbeRunner {
	checks := []health.Check{
		{Name: "database", Probe: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}},
	}
	if redisClient != nil {
		checks = append(checks, health.Check{Name: "redis", Probe: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	}
	return health.NewProbeRunner(2*time.Second, checks...)
}

func provideRouter(cfg *config.Config, db *gorm.DB, redisClient redis.UniversalClient, jwtMgr *security.JWTManager, authSvc *service.AuthService, readiness *health.ProbeRunner) (http.Handler, error) {
	teams := repository.NewTeamRepository(db)
	players := repository.NewPlayerRepository(db)
	tournaments := repository.NewTournamentRepository(db)

	teamSvc := service.NewTeamService(teams)
	playerSvc := service.NewPlayerService(players, teams)
	tournamentSvc := service.NewTournamentService(tournaments)

	sessions := web.NewSessionManager(jwtMgr, cfg.SessionTTL)
	webHandler, err := web.NewHandler(web.NewAPIClient(cfg.APIBaseURL, 10*time.Second), sessions, cfg.SessionTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	dep := router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authSvc, jwtMgr, cfg.SessionTTL, cfg.RefreshTokenTTL),
		TeamHandler:       handler.NewTeamHandler(teamSvc),
		PlayerHandler:     handler.NewPlayerHandler(playerSvc),
		TournamentHandler: handler.NewTournamentHandler(tournamentSvc),
		Web:               webHandler.Routes(),
		JWTManager:        jwtMgr,
		CORSOrigins:       cfg.CORSAllowedOrigins,
		BodyLimitBytes:    cfg.BodyLimitBytes,
		AuthRateLimitRPM:  cfg.RateLimitAuthPerMinute,
		APIRateLimitRPM:   cfg.RateLimitAPIPerMinute,
		Readiness:         readiness,
		EnableOTelHTTP:    cfg.OTELTracesEnabled,
	}
	if redisClient != nil {
		limiter := middleware.NewRedisWindowLimiter(redisClient, "ratelimit")
		dep.GlobalRateLimiter = middleware.NewDistributedRateLimiter(limiter, cfg.RateLimitAPIPerMinute, time.Minute, middleware.FailOpen, "api").Middleware()
		dep.AuthRateLimiter = middleware.NewDistributedRateLimiter(limiter, cfg.RateLimitAuthPerMinute, time.Minute, middleware.FailClosed, "auth").Middleware()
	}
	return router.NewRouter(dep), nil
}

func provideServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}

func provideLogger(runtime *observability.Runtime) *slog.Logger {
	if runtime != nil && runtime.Logger != nil {
		return runtime.Logger
	}
	return slog.Default()
}

func provideStop(db *gorm.DB, redisClient redis.UniversalClient, runtime *observability.Runtime) func() {
	return func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		if redisClient != nil {
			_ = redisClient.Close()
		}
		_ = runtime
	}
}
