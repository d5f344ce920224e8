// cmd/jlhfw-rest-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/jotelha/jlhfw/internal/api/rest/v1"
	"github.com/jotelha/jlhfw/internal/app"
	"github.com/jotelha/jlhfw/internal/domain/launches"
	"github.com/jotelha/jlhfw/internal/domain/tasks"
	"github.com/jotelha/jlhfw/internal/firetasks"
	"github.com/jotelha/jlhfw/internal/infrastructure/connector"
	"github.com/jotelha/jlhfw/internal/infrastructure/persistence"
	"github.com/jotelha/jlhfw/internal/infrastructure/persistence/models"
	"github.com/jotelha/jlhfw/internal/pkg/config"
	"github.com/jotelha/jlhfw/internal/pkg/logger"
	"github.com/gin-contrib/cors"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "../../configs/rest-app.yaml"
	}

	restConfig, err := config.InitializeRestConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&restConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	// Initialize application dependencies
	deps, err := initializeDependencies(restConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	// Setup and start server with graceful shutdown
	return startServerWithGracefulShutdown(restConfig, deps, log)
}

// appDependencies holds all initialized application components
type appDependencies struct {
	services *appServices
}

type appServices struct {
	taskLaunch     launches.TaskLaunchService
	launchMetadata launches.LaunchMetadataService
}

// initializeDependencies sets up all application components
func initializeDependencies(cfg *config.RestConfig, log logger.Logger) (*appDependencies, error) {
	// Initialize database
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	// Run migrations
	if err := db.AutoMigrate(&models.LaunchModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info("Database migrations completed successfully")

	// Initialize repositories
	launchRepo, err := persistence.NewGormLaunchRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create launch repository: %w", err)
	}

	// Initialize dataset connector and register tasks
	datasetConnector, err := connector.NewHTTPDatasetConnector(&cfg.DatasetServer, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset connector: %w", err)
	}

	firetasks.Register(firetasks.Deps{
		Datasets: datasetConnector,
		Logger:   log,
	})
	registry := tasks.NewRegistry(cfg.TaskPackages)

	// Initialize services
	services, err := initializeApplicationServices(cfg, registry, launchRepo, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &appDependencies{
		services: services,
	}, nil
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.RestConfig, deps *appDependencies, log logger.Logger) error {
	// Setup router
	r := gin.Default()

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup API routes
	v1.SetupRoutes(r,
		deps.services.taskLaunch,
		deps.services.launchMetadata,
	)

	// Serve OpenAPI spec (replaces Swagger)
	r.GET("/api/v1/jlhfw/openapi.yaml", func(c *gin.Context) {
		c.File("./api/openapi/v1/jlhfw.yaml")
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting server on port ", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("Received signal %v, initiating graceful shutdown", sig)
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

// initializeApplicationServices sets up all application services
func initializeApplicationServices(
	cfg *config.RestConfig,
	registry *tasks.Registry,
	launchRepo launches.LaunchRepository,
	log logger.Logger,
) (*appServices, error) {
	taskLaunchService, err := app.NewTaskLaunchService(registry, launchRepo, cfg.LaunchRoot, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create task launch service: %w", err)
	}

	launchMetadataService, err := app.NewLaunchMetadataService(launchRepo, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create launch metadata service: %w", err)
	}

	log.Info("Application services initialized successfully")
	return &appServices{
		taskLaunch:     taskLaunchService,
		launchMetadata: launchMetadataService,
	}, nil
}
