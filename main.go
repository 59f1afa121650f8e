package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gotitanic/adapters/excel"
	"gotitanic/internal"
	"gotitanic/internal/config"
	"gotitanic/internal/container"
	"gotitanic/ui"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		stop()
		log.Fatal(err)
	}
}

// run serves until ctx is done. Errors are returned rather than fatal so the
// deferred container shutdown always closes the database.
func run(ctx context.Context) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	internal.DefaultLogger = internal.NewLogger(appConfig.Level())
	logger := internal.DefaultLogger.WithComponent("main")

	// Create dependency injection container
	appContainer, err := container.New(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create application container: %w", err)
	}
	defer func() {
		if err := appContainer.Shutdown(context.Background()); err != nil {
			logger.Warn("container shutdown: %v", err)
		}
	}()
	if err := appContainer.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}

	service := appContainer.AnalysisService

	// In-memory mode starts empty, so the data file is always loaded there
	if appConfig.Data.File != "" && (appConfig.Data.SeedOnStart || appConfig.Database.InMemory()) {
		reader := excel.NewPassengerReader(excel.DefaultReaderConfig(appConfig.Data.File))
		if _, err := service.Import(ctx, reader); err != nil {
			return fmt.Errorf("failed to seed passengers from %s: %w", appConfig.Data.File, err)
		}
	}

	if _, err := service.Rebuild(ctx); err != nil {
		// The API still serves the latest stored snapshot, if any
		logger.Error("initial rebuild failed: %v", err)
	}
	go service.RunPeriodicRebuild(ctx, appConfig.Analysis.RebuildInterval)

	servers := []*http.Server{
		ui.NewServer(service, appContainer.Metrics, appConfig.Server.GinMode).HTTPServer(":" + appConfig.Server.Port),
	}
	if appConfig.Admin.Enabled {
		servers = append(servers, &http.Server{
			Addr:              ":" + appConfig.Admin.Port,
			Handler:           ui.NewAdminRouter(appContainer.Ready, appContainer.Metrics),
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	for _, srv := range servers {
		srv := srv
		go func() {
			logger.Info("listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server on %s failed: %v", srv.Addr, err)
				stop()
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown of %s: %v", srv.Addr, err)
		}
	}
	return nil
}
