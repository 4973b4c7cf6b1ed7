package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"nudge-backend/bootstrap"
	"nudge-backend/utils/logger"
	"nudge-backend/utils/otel"
)

const serviceName = "nudge-worker"

func main() {
	var once bool

	rootCmd := &cobra.Command{
		Use:   "worker",
		Short: "Ingestion worker that fetches and extracts queued link items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), once)
		},
		SilenceUsage: true,
	}
	rootCmd.Flags().BoolVar(&once, "once", false, "run exactly one claim-and-process batch and exit")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, once bool) error {
	otelCfg := otel.ConfigFromEnv(serviceName)
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		fmt.Printf("Failed to initialize OpenTelemetry: %v\n", err)
		otelCfg.Enabled = false
	}
	if otelShutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(shutdownCtx); err != nil {
				fmt.Printf("Failed to shutdown OpenTelemetry: %v\n", err)
			}
		}()
	}

	log := logger.New(serviceName)

	deps, cleanup, err := bootstrap.BuildDependencies(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to build dependencies: %w", err)
	}
	defer cleanup()

	if once {
		processed, err := deps.Worker.RunOnce(ctx)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "single batch completed", "processed", processed)
		return nil
	}

	if err := deps.Worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
