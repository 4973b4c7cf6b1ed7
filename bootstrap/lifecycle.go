package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nudge-backend/utils/logger"
	"nudge-backend/utils/otel"
)

const serviceName = "nudge-backend"

// Run is the API entry point. It initializes all dependencies, starts the
// HTTP server, then waits for a shutdown signal.
func Run(ctx context.Context) error {
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

	log.Info("Starting nudge-backend service", "otel_enabled", otelCfg.Enabled)

	deps, cleanup, err := BuildDependencies(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to build dependencies: %w", err)
	}
	defer cleanup()

	httpServer := NewHTTPServer(deps, otelCfg.Enabled, otelCfg.ServiceName)
	StartHTTPServer(httpServer, deps, log)

	log.Info("Service started successfully", "port", deps.Config.Server.Port)
	waitForShutdown(httpServer, deps, log)

	return nil
}

func waitForShutdown(httpServer interface{ Shutdown(context.Context) error }, deps *Dependencies, log *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), deps.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down HTTP server", "error", err)
	}

	log.Info("Service stopped")
}
