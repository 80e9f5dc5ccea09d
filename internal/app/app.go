package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ivan1013/esports-management-system/internal/config"
	"github.com/ivan1013/esports-management-system/internal/health"
	"github.com/ivan1013/esports-management-system/internal/observability"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Server        *http.Server
	Observability *observability.Runtime
	Readiness     *health.ProbeRunner

	ShutdownTimeout              time.Duration
	ShutdownHTTPDrainTimeout     time.Duration
	ShutdownObservabilityTimeout time.Duration

	stop func()
}

func New(cfg *config.Config, logger *slog.Logger, server *http.Server, runtime *observability.Runtime, readiness *health.ProbeRunner, stop func()) *App {
	return &App{
		Config:                       cfg,
		Logger:                       logger,
		Server:                       server,
		Observability:                runtime,
		Readiness:                    readiness,
		ShutdownTimeout:              cfg.ShutdownTimeout,
		ShutdownHTTPDrainTimeout:     cfg.ShutdownHTTPDrainTimeout,
		ShutdownObservabilityTimeout: cfg.ShutdownObservabilityTimeout,
		stop:                         stop,
	}
}

// StopBackgroundTasks releases non-HTTP resources (database pool, redis).
func (a *App) StopBackgroundTasks() {
	if a.stop != nil {
		a.stop()
	}
}

// Run serves until ctx is canceled, then drains in-flight requests, stops
// background resources, and flushes telemetry, each step on its own timeout.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutdown requested")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.ShutdownTimeout)
	defer cancel()

	drainCtx, drainCancel := context.WithTimeout(shutdownCtx, a.ShutdownHTTPDrainTimeout)
	err := a.Server.Shutdown(drainCtx)
	drainCancel()
	if err != nil {
		a.Logger.Error("http drain failed", "error", err)
	}

	a.StopBackgroundTasks()

	if a.Observability != nil {
		obsCtx, obsCancel := context.WithTimeout(shutdownCtx, a.ShutdownObservabilityTimeout)
		if obsErr := a.Observability.Shutdown(obsCtx); obsErr != nil {
			a.Logger.Error("observability shutdown failed", "error", obsErr)
		}
		obsCancel()
	}
	return err
}
