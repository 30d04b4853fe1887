// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/Princelohia9910/NotesApp/internal/api"
	"github.com/Princelohia9910/NotesApp/internal/mcpserver"
	"github.com/Princelohia9910/NotesApp/internal/repository"
	"github.com/Princelohia9910/NotesApp/internal/sse"
	"github.com/Princelohia9910/NotesApp/internal/store"
	"github.com/Princelohia9910/NotesApp/internal/viewmodel"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{
		logOutput: os.Stdout,
		out:       os.Stdout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// logger builds the structured JSON logger and installs it as the default.
func (a *application) logger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(a.logOutput, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

func (a *application) openStore(logger *slog.Logger) (*store.DB, error) {
	if dir := filepath.Dir(a.config.SQLite.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := store.Open(a.config.SQLite.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	return db, nil
}

func (a *application) viewModelOptions(logger *slog.Logger) []viewmodel.Option {
	return []viewmodel.Option{viewmodel.WithLogger(logger), viewmodel.WithClock(a.now)}
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Bool("sqlite_watch", cfg.SQLite.Watch),
		slog.Bool("auth_enabled", cfg.Auth.AuthEnabled()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	db, err := app.openStore(logger)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repository.New(db)
	vmOpts := app.viewModelOptions(logger)

	g, gCtx := errgroup.WithContext(ctx)

	list := viewmodel.NewList(gCtx, repo, vmOpts...)
	defer list.Close()

	broker := sse.NewBroker(cfg.Events.BufferSize)
	defer broker.Close()

	handler := api.NewHandler(repo, list, vmOpts...)
	apiRouter := api.NewRouter(handler, api.RouterConfig{
		AuthEnabled:   cfg.Auth.AuthEnabled(),
		Token:         cfg.Auth.Token,
		RatePerSecond: cfg.App.HTTP.RateLimit,
		Burst:         cfg.App.HTTP.Burst,
		CORSOrigins:   cfg.App.HTTP.CORSOrigins,
	}, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", readyHandler(list))

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	// Stream list state to SSE clients.
	g.Go(func() error {
		broker.Pump(gCtx, list)
		return nil
	})

	// Pick up writes made by other processes, e.g. CLI commands.
	if cfg.SQLite.Watch {
		g.Go(func() error {
			if err := db.Watch(gCtx); err != nil {
				logger.Warn("store watcher disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// SSE handlers only return once their clients go away.
		broker.Close()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher and pump stop with the server.
var errShutdown = errors.New("shutdown")

func readyHandler(list *viewmodel.List) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		s := list.State()
		switch {
		case s.IsLoading:
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"loading"}`))
		case s.Error != "":
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"error"}`))
		default:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		}
	}
}

// RunMCP serves the note tools over stdio until stdin closes.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	logger := app.logger()

	db, err := app.openStore(logger)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := mcpserver.New(repository.New(db), logger, viewmodel.WithClock(app.now))
	logger.Info("MCP server starting on stdio", slog.String("sqlite_path", app.config.SQLite.Path))
	return srv.Listen(ctx, os.Stdin, os.Stdout)
}
