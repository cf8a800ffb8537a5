package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caminoadmin/comunidades-go/internal/auth"
	"github.com/caminoadmin/comunidades-go/internal/config"
	"github.com/caminoadmin/comunidades-go/internal/database"
	"github.com/caminoadmin/comunidades-go/internal/handlers"
	"github.com/caminoadmin/comunidades-go/internal/logger"
	"github.com/caminoadmin/comunidades-go/internal/repository"
	"github.com/caminoadmin/comunidades-go/internal/server"
	"github.com/caminoadmin/comunidades-go/internal/store"
	"github.com/caminoadmin/comunidades-go/internal/workflows"
)

var Version = "dev"

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	defer pool.Close()

	// Query cache: Redis when configured, in-process otherwise.
	var cache store.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := store.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL, log)
		if err != nil {
			log.Fatal("Failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		}
		defer redisCache.Close()
		cache = redisCache
		log.Info("Using redis query cache", "addr", cfg.RedisAddr)
	} else {
		cache = store.NewMemoryCache()
		log.Info("Using in-memory query cache")
	}

	registry := handlers.NewRegistry(pool, cache, cfg.DefaultPageSize, log)
	if err := registry.Validate(); err != nil {
		log.Fatal("Invalid entity registry", "error", err)
	}
	loaders := handlers.BuildLoaders(registry, pool)

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	userRepo := repository.NewAuthUserRepository(pool)

	router := server.NewRouter(server.RouterConfig{
		AuthHandler:    handlers.NewAuthHandler(userRepo, jwtService, log),
		EntityHandler:  handlers.NewEntityHandler(registry),
		OptionsHandler: handlers.NewOptionsHandler(loaders),
		WorkflowHandler: handlers.NewWorkflowHandler(
			workflows.NewCommunityWorkflows(pool, cache, log),
			workflows.NewMarriageWorkflow(pool, cache, log),
			workflows.NewTeamWorkflows(pool, cache, log),
		),
		ExportHandler: handlers.NewExportHandler(registry),
		HealthHandler: handlers.NewHealthHandler(pool, Version),
		JWTService:    jwtService,
		CORSOrigins:   cfg.CORSOrigins,
		Logger:        log,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "version", Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", "error", err)
	}

	log.Info("Server exited")
}
