// Package main is the entry point for the task manager API.
//
//	@title						Task Manager API
//	@version					1.0
//	@description				Users and the tasks assigned to them.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/taskdesk/task-manager/internal/api"
	"github.com/taskdesk/task-manager/internal/api/handler"
	"github.com/taskdesk/task-manager/internal/core/ports"
	"github.com/taskdesk/task-manager/internal/core/service"
	"github.com/taskdesk/task-manager/internal/infrastructure/config"
	"github.com/taskdesk/task-manager/internal/infrastructure/db/mongo"
	"github.com/taskdesk/task-manager/internal/infrastructure/db/redis"
	"github.com/taskdesk/task-manager/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "task-manager",
	})

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongodb")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes")
	}

	checks := []handler.DependencyCheck{{
		Name: "mongodb",
		Ping: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
	}}

	// The task list cache is optional: without Redis every list hits MongoDB.
	var cache ports.TaskListCache
	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, task list cache disabled")
	} else {
		defer func() { _ = rdb.Close() }()
		cache = redis.NewTaskListCache(rdb, cfg.Redis.TaskCacheTTL)
		checks = append(checks, handler.DependencyCheck{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}

	userRepo := mongo.NewUserRepository(db)
	taskRepo := mongo.NewTaskRepository(db)

	e := api.NewRouter(api.Deps{
		Tasks:     service.NewTaskService(taskRepo, userRepo, cache, logger.Component("task_service")),
		Users:     service.NewUserService(userRepo, taskRepo, cache, logger.Component("user_service")),
		Auth:      service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL),
		Checks:    checks,
		Logger:    logger.Component("http"),
		JWTSecret: cfg.JWTSecret,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
