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
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/wikitree/internal/api"
	"github.com/starford/wikitree/internal/mcpserver"
	"github.com/starford/wikitree/internal/nav"
	"github.com/starford/wikitree/internal/pageservice"
	"github.com/starford/wikitree/internal/parser"
	"github.com/starford/wikitree/internal/sse"
	"github.com/starford/wikitree/internal/storage"
	"github.com/starford/wikitree/internal/tree"
	"github.com/starford/wikitree/internal/watcher"
)

// App is a configured wikitree instance.
type App struct {
	cfg     *Config
	logger  *slog.Logger
	store   *storage.FS
	svc     *pageservice.Service
	version string
}

// New builds an App from the given options. The wiki directory is created
// when missing.
func New(opts ...Option) (*App, error) {
	a := &application{logOutput: os.Stderr, version: "dev"}
	for _, opt := range opts {
		opt(a)
	}
	if a.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := a.config

	// Logs go to stderr: stdout carries command output and the MCP stdio
	// transport.
	logger := slog.New(slog.NewJSONHandler(a.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Wiki.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create wiki dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Wiki.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	links := nav.Links{BaseURL: cfg.Wiki.LinkBase()}
	svc := pageservice.NewService(store, parser.New(), links, cfg.Wiki.Home)

	logger.Debug("Configuration loaded",
		slog.String("wiki_path", cfg.Wiki.Path),
		slog.String("link_base", links.BaseURL),
		slog.String("log_level", cfg.App.LogLevel.String()))

	return &App{cfg: cfg, logger: logger, store: store, svc: svc, version: a.version}, nil
}

// Service exposes the page service for one-shot commands.
func (app *App) Service() *pageservice.Service {
	return app.svc
}

// Serve runs the HTTP API and the navigation watcher.
func (app *App) Serve(ctx context.Context) error {
	cfg := app.cfg
	logger := app.logger

	if _, err := tree.Load(app.store); err != nil {
		logger.Warn("wiki is not ready, run init", slog.String("error", err.Error()))
	}

	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	apiRouter := api.NewRouter(app.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := tree.Load(app.store); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.newWatcher(broker).Run(gCtx)
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		waitForShutdown(gCtx, logger)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return context.Canceled
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// Watch regenerates navigation whenever pages change, until ctx is cancelled
// or a signal arrives. Navigation is brought up to date once at start.
func (app *App) Watch(ctx context.Context) error {
	if n, err := app.svc.UpdateNavigation(ctx); err != nil {
		app.logger.Warn("initial navigation update failed", slog.String("error", err.Error()))
	} else {
		app.logger.Info("navigation updated", slog.Int("pages", n))
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.newWatcher(nil).Run(gCtx)
	})
	g.Go(func() error {
		waitForShutdown(gCtx, app.logger)
		return context.Canceled
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// ServeMCP serves the MCP tools on stdin/stdout.
func (app *App) ServeMCP() error {
	app.logger.Info("MCP server starting", slog.String("wiki_path", app.cfg.Wiki.Path))
	return mcpserver.New(app.svc, app.version).ServeStdio()
}

func (app *App) newWatcher(broker *sse.Broker) *watcher.Watcher {
	w := watcher.New(app.store.Root(), app.cfg.Watch.Debounce, app.svc.UpdateNavigation, app.logger)
	if broker != nil {
		w.OnEvent(func(kind, path string) {
			broker.PublishPageEvent(pageEventKind(kind), path)
		})
		w.OnRefresh(broker.PublishNavigation)
	}
	return w
}

// pageEventKind maps a watcher event kind to the page event announced to
// clients.
func pageEventKind(kind string) string {
	switch kind {
	case "created":
		return "added"
	case "removed":
		return "removed"
	case "renamed":
		return "moved"
	}
	return "changed"
}

func waitForShutdown(ctx context.Context, logger *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("Context cancelled, initiating shutdown")
	}
}
