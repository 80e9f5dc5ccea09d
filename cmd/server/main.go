package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ivan1013/esports-management-system/internal/app"
	"github.com/ivan1013/esports-management-system/internal/config"
	"github.com/ivan1013/esports-management-system/internal/observability"
	"github.com/ivan1013/esports-management-system/internal/tools/common"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:   "esports-server",
		Short: "Esports management API and web front end",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), envFile)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "optional env file loaded before configuration")
	return cmd
}

func serve(parent context.Context, envFile string) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := common.LoadEnvFile(envFile); err != nil {
		return err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	runtime, err := observability.InitRuntime(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	application, err := app.InitializeApp(cfg, runtime)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}

	slog.InfoContext(ctx, "starting server", "addr", cfg.Addr, "profile", cfg.Profile)
	return application.Run(ctx)
}
