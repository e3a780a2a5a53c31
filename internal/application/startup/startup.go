// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GrooveMedia/groove-menu-go/internal/application/container"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/caching/cleanup"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/docstore"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/observability/logging"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/state"
	"github.com/GrooveMedia/groove-menu-go/internal/presentation/http/server"
	"github.com/GrooveMedia/groove-menu-go/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	// Step 1: Channeled logger
	log.Println("Initializing...")
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	// Step 2: Durable state store
	logger.Startup().Info("Opening state store", "dir", config.StateDir)
	stateStore, err := state.NewFileStore(config.StateDir)
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}

	// Step 3: Document store
	logger.Startup().Info("Connecting document store...")
	store, err := docstore.NewSQLStore(&docstore.Config{
		TursoDatabase: config.TursoDatabase,
		TursoToken:    config.TursoToken,
		SQLitePath:    config.SQLitePath,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}

	// Step 4: Dependency injection container
	logger.Startup().Info("Initializing dependency injection container...")
	appContainer := container.NewContainer(store, stateStore, logger)
	logger.Startup().Info("Container initialization complete",
		"business", appContainer.BusinessID)

	// Step 5: Cache warming
	logger.Startup().Info("Warming caches...")
	appContainer.WarmingService.WarmCaches(ctx)

	// Step 6: Background cleanup worker
	logger.Startup().Info("Starting background cleanup worker...")
	cleanupWorker := cleanup.NewWorker(
		appContainer.Cache,
		appContainer.Registry,
		cleanup.NewConfigFromDefaults(),
		logger.Cache(),
	)
	go cleanupWorker.Start(ctx)

	// Step 7: HTTP server
	port := config.Port
	httpServer := server.New(port, appContainer)
	logger.Startup().Info("HTTP server initialized", "port", port)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start), "port", port)

	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	}

	closed := appContainer.Registry.ShutdownAll()
	logger.Shutdown().Info("Listeners shut down", "count", closed)

	if err := store.Close(); err != nil {
		logger.Shutdown().Error("Error closing document store", "error", err.Error())
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures process-level logging and env loading
func setupLogging() {
	// .env values are optional, missing file is fine
	_ = godotenv.Load()

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
}
