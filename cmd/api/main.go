package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rishitj1972/Secure-Share/backend/internal/infrastructure/di"
	"github.com/Rishitj1972/Secure-Share/backend/internal/infrastructure/worker"
	"github.com/Rishitj1972/Secure-Share/backend/internal/interface/middleware"
	"github.com/Rishitj1972/Secure-Share/backend/internal/interface/router"
	"github.com/Rishitj1972/Secure-Share/backend/internal/interface/server"
	"github.com/Rishitj1972/Secure-Share/backend/internal/interface/validator"
	"github.com/Rishitj1972/Secure-Share/backend/pkg/config"
	"github.com/Rishitj1972/Secure-Share/backend/pkg/logger"
)

// @title Secure Share API
// @version 1.0
// @description E2E暗号化ファイル転送システム Secure Share の REST API
// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Logger setup
	if err := logger.Setup(logger.DefaultConfig()); err != nil {
		slog.Error("failed to setup logger", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize DI Container
	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	// Initialize UseCases, Handlers, and Middlewares
	container.InitTransferUseCases()
	handlers := di.NewHandlers(container)
	middlewares := di.NewMiddlewares(container)

	// Setup Server
	serverConfig := server.DefaultConfig()
	serverConfig.Port = cfg.Server.Port
	serverConfig.Debug = cfg.Server.Debug
	srv := server.NewServer(serverConfig)
	e := srv.Echo()

	// Setup validator and error handler
	e.Validator = validator.NewCustomValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityHeadersConfig{
		EnableHSTS:    cfg.Security.EnableHSTS,
		HSTSMaxAge:    31536000, // 1年
		CSPDirectives: "default-src 'self'",
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Security.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Setup Router
	router.NewRouter(e, handlers, middlewares).Setup()

	// Start background workers
	workerMgr := worker.NewManager()
	workerMgr.Register(worker.NewSweepJob("session-expiry", cfg.Cleanup.Interval, container.Jobs.SessionExpiry.Run))
	workerMgr.Register(worker.NewSweepJob("chunk-sweep", cfg.Cleanup.Interval, container.Jobs.ChunkSweep.Run))
	workerMgr.Register(worker.NewSweepJob("stray-file-sweep", cfg.Cleanup.Interval, container.Jobs.StrayFileSweep.Run))
	workerMgr.Register(worker.NewHealthCheckJob(func(ctx context.Context) error {
		return container.PgClient.Pool().Ping(ctx)
	}))
	workerMgr.Start()

	// Start server
	slog.Info("starting server", "port", cfg.Server.Port)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	workerMgr.Shutdown(10 * time.Second)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), srv.Config().ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
