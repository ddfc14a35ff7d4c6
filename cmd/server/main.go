package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/cache"
	"github.com/githubscientist/jp-backend/internal/config"
	"github.com/githubscientist/jp-backend/internal/database"
	"github.com/githubscientist/jp-backend/internal/repositories"
	"github.com/githubscientist/jp-backend/internal/router"
	"github.com/githubscientist/jp-backend/internal/services"
	"github.com/githubscientist/jp-backend/internal/storage"
)

func main() {
	logger, err := initLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	db, err := database.NewManager(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.RunMigrations {
		if err := db.Migrate(); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	cacheInstance, err := cache.New(&cfg.Cache, logger)
	if err != nil {
		logger.Fatal("Failed to create cache", zap.Error(err))
	}
	defer cacheInstance.Close()

	fileStorage, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to initialize file storage", zap.Error(err))
	}

	userRepo := repositories.NewUserRepository(db, logger)
	jobRepo := repositories.NewJobRepository(db, logger)
	applicationRepo := repositories.NewApplicationRepository(db, logger)

	serviceCollection := &services.ServiceCollection{
		Auth:        services.NewAuthService(userRepo, cacheInstance, &cfg.Auth, logger),
		User:        services.NewUserService(userRepo, jobRepo, cacheInstance, logger),
		Job:         services.NewJobService(jobRepo, userRepo, cacheInstance, logger),
		Application: services.NewApplicationService(applicationRepo, jobRepo, logger),
		Admin:       services.NewAdminService(userRepo, jobRepo, applicationRepo, cacheInstance, logger),
	}

	handler := router.New(&router.Dependencies{
		Config:   cfg,
		Services: serviceCollection,
		Storage:  fileStorage,
		Database: db,
		Cache:    cacheInstance,
		Logger:   logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}

// initLogger initializes the structured logger based on environment
func initLogger() (*zap.Logger, error) {
	env := os.Getenv("GO_ENV")
	var config zap.Config

	switch env {
	case "production":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	default:
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
