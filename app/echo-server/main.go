package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"workflowAdvisor/app/echo-server/router"
	"workflowAdvisor/business/bandit"
	"workflowAdvisor/internal/middleware"
	"workflowAdvisor/internal/repository"
	"workflowAdvisor/internal/rest"
	"workflowAdvisor/pkg/config"
	"workflowAdvisor/pkg/logger"
	"workflowAdvisor/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting Workflow Advisor", "version", cfg.App.Version, "backend", cfg.Persistence.Backend)

	metrics.Init()

	// Init persistence
	persist, err := repository.OpenBackend(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to open persistence backend", "error", err)
	}
	defer persist.Close()

	// Init engine
	engine, err := bandit.NewEngine(engineConfig(cfg), persist.Gateway, persist.EngineOptions()...)
	if err != nil {
		logger.Fatal("Failed to build bandit engine", "error", err)
	}

	restoreCtx, cancelRestore := context.WithTimeout(context.Background(), 30*time.Second)
	if err := engine.Restore(restoreCtx); err != nil {
		cancelRestore()
		logger.Fatal("Failed to restore posteriors", "error", err)
	}
	cancelRestore()
	logger.Info("Bandit engine ready", "posteriors", engine.Size(), "seed", cfg.Bandit.Seed)

	// Init handler
	banditHandler := rest.NewBanditHandler(engine)
	var events rest.EventReader
	if persist.Events != nil {
		events = persist.Events
	}
	banditAdminHandler := rest.NewBanditAdminHandler(engine, events)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceMiddleware())
	e.Use(middleware.MetricsMiddleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.HeaderRequestID},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetBanditRoutes(api, banditHandler)

	var adminGuards []echo.MiddlewareFunc
	if cfg.JWT.SecretKey != "" {
		adminGuards = append(adminGuards, middleware.AuthMiddleware(cfg.JWT.SecretKey), middleware.AdminOnly())
	} else {
		logger.Warn("JWT_SECRET not set, admin routes are unauthenticated")
	}
	router.SetBanditAdminRoutes(api, banditAdminHandler, adminGuards...)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}

func engineConfig(cfg *config.Config) bandit.Config {
	bc := bandit.DefaultConfig()
	bc.PriorAlpha = cfg.Bandit.PriorAlpha
	bc.PriorBeta = cfg.Bandit.PriorBeta
	bc.Sampler = cfg.Bandit.Sampler
	bc.Seed = cfg.Bandit.Seed
	bc.FingerprintResolution = cfg.Bandit.FingerprintResolution
	bc.MaxPosteriors = cfg.Bandit.MaxPosteriors
	return bc
}
