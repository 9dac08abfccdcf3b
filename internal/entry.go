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

	"github.com/coachtools/tacticalhub/internal/api"
	"github.com/coachtools/tacticalhub/internal/matchclock"
	"github.com/coachtools/tacticalhub/internal/report"
	"github.com/coachtools/tacticalhub/internal/sse"
	"github.com/coachtools/tacticalhub/internal/store"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("store_path", cfg.Store.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure media directory exists.
	if err := os.MkdirAll(cfg.Store.MediaDir, 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}

	// Initialize the document provider.
	provider, fileProvider, err := newProvider(cfg)
	if err != nil {
		return fmt.Errorf("init provider: %w", err)
	}
	defer provider.Close()

	// SSE broker.
	broker := sse.NewBroker()

	// Entity store: absence of a persisted document means an empty one.
	st, err := store.New(provider, store.WithOnChange(broker.PublishChange))
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	// Advisory match clock feeding the SSE stream.
	clock := matchclock.New(broker.PublishClockTick)

	// Report exporter backed by the PDF renderer.
	exporter := report.NewExporter(report.NewPDF)

	// Build API handler and router.
	h := api.NewHandler(st, exporter, clock)
	apiRouter := api.NewRouter(h, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker, cfg.Store.MediaDir)

	// Build chi router.
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
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	// Media files are served unauthenticated, like static assets.
	mh := api.NewMediaHandler(cfg.Store.MediaDir)
	r.Get("/media/{filename}", mh.ServeFile)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the document file for external replacement (file driver only).
	if fileProvider != nil {
		g.Go(func() error {
			return store.Watch(gCtx, st, fileProvider, logger, func() {
				broker.PublishChange("document.reloaded", "")
			})
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

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")
		clock.Pause()
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// newProvider builds the configured document provider. The second
// return is non-nil only for the file driver, which supports watching.
func newProvider(cfg *Config) (store.Provider, *store.FileProvider, error) {
	switch cfg.Store.Driver {
	case StoreDriverSQLite:
		p, err := store.OpenSQLite(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	default:
		p, err := store.NewFileProvider(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	}
}
