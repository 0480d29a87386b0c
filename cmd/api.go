package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskhive/todo-backend/internal/auth"
	"github.com/taskhive/todo-backend/internal/env"
	"github.com/taskhive/todo-backend/internal/todo"
	"github.com/taskhive/todo-backend/internal/user"
)

type dbConfig struct {
	dsn string
}

type config struct {
	addr     string
	db       dbConfig
	filterTZ string
}

type application struct {
	config       config
	db           *pgxpool.Pool
	userService  user.UserService
	todoService  todo.Service
	tokenService auth.TokenService
	filterLoc    *time.Location
	refreshTTL   time.Duration
	isProd       bool
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{env.GetString("FRONTEND_URL", "http://localhost:3000")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: env.GetBool("CORS_ALLOW_CREDENTIALS", true),
		MaxAge:           300,
	}))

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("all good"))
	})

	authHandler := auth.NewHandler(app.userService, app.tokenService, app.refreshTTL, app.isProd)
	userHandler := user.NewHandler(app.userService)
	todoHandler := todo.NewHandler(app.todoService, app.filterLoc)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(app.tokenService))

		r.Route("/todos", func(r chi.Router) {
			r.Get("/", todoHandler.ListTodos)
			r.Post("/create", todoHandler.CreateTodo)
			r.Patch("/{id}", todoHandler.UpdateTodo)
			r.Delete("/{id}", todoHandler.DeleteTodo)

			r.Route("/report", func(r chi.Router) {
				r.Get("/daily", todoHandler.DailyReport)
				r.Get("/weekly", todoHandler.WeeklyReport)
				r.Get("/daily/export", todoHandler.ExportDailyReport)
				r.Get("/weekly/export", todoHandler.ExportWeeklyReport)
			})
		})

		r.Patch("/users/update", userHandler.UpdateProfile)
	})

	return r
}

func (app *application) run(ctx context.Context, h http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      h,
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  time.Minute,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "addr", app.config.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down server...")
	case sig := <-quit:
		slog.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return err
	}

	slog.Info("server exited gracefully")
	return nil
}
