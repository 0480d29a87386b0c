package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/taskhive/todo-backend/internal/auth"
	"github.com/taskhive/todo-backend/internal/db"
	"github.com/taskhive/todo-backend/internal/env"
	"github.com/taskhive/todo-backend/internal/todo"
	"github.com/taskhive/todo-backend/internal/user"
)

func main() {
	env.Init()

	ctx := context.Background()

	cfg := config{
		addr: env.GetString("API_PORT", ":8000"),
		db: dbConfig{
			dsn: env.GetString("DATABASE_DSN", "host=localhost port=5432 user=postgres password=postgres dbname=todos sslmode=disable"),
		},
		filterTZ: env.GetString("TODO_FILTER_TZ", "Europe/Budapest"),
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := db.RunMigrations(cfg.db.dsn); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	pool, err := db.NewPool(ctx, cfg.db.dsn)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database pool connected")

	rdb := redis.NewClient(&redis.Options{
		Addr: env.GetString("REDIS_ADDR", "localhost:6379"),
	})
	defer rdb.Close()

	// the period filters run in a fixed reference zone, not the server's
	filterLoc, err := time.LoadLocation(cfg.filterTZ)
	if err != nil {
		slog.Error("invalid TODO_FILTER_TZ", "tz", cfg.filterTZ, "error", err)
		os.Exit(1)
	}

	userRepo := user.NewRepository(pool)
	userSvc := user.NewService(userRepo)

	todoRepo := todo.NewRepository(pool)
	todoSvc := todo.NewService(todoRepo)

	refreshTTL := 7 * 24 * time.Hour
	accessTTL := 15 * time.Minute

	isProd := env.GetString("APP_ENV", string(env.EnvDevelopment)) == string(env.EnvProduction)

	tokenSvc := auth.NewTokenService(
		env.GetString("JWT_SECRET", "dev-secret"),
		accessTTL,
		refreshTTL,
		rdb,
	)

	api := application{
		config:       cfg,
		db:           pool,
		userService:  userSvc,
		todoService:  todoSvc,
		tokenService: tokenSvc,
		filterLoc:    filterLoc,
		refreshTTL:   refreshTTL,
		isProd:       isProd,
	}

	if err := api.run(ctx, api.mount()); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
