package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"goab/app"
	"goab/internal"
	"goab/internal/config"
	"goab/ports"
)

// App is the HTTP API over the analysis service. Runs are persisted
// to the archive when one is configured; without an archive the
// analyze endpoint still works and the run endpoints return 404.
type App struct {
	router   *chi.Mux
	analysis *app.AnalysisService
	runs     ports.RunRepository
	defaults config.AnalysisConfig
	logger   *internal.Logger
}

// NewApp creates the API application
func NewApp(analysis *app.AnalysisService, runs ports.RunRepository, defaults config.AnalysisConfig) *App {
	a := &App{
		router:   chi.NewRouter(),
		analysis: analysis,
		runs:     runs,
		defaults: defaults,
		logger:   internal.DefaultLogger.Named("api"),
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)

	a.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", a.handleAnalyze)
		r.Get("/runs", a.handleListRuns)
		r.Get("/runs/{id}", a.handleGetRun)
	})
}

// Router exposes the handler for tests and embedding
func (a *App) Router() http.Handler {
	return a.router
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully within the configured timeout
func (a *App) Serve(ctx context.Context, cfg config.ServerConfig) error {
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening on %s", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	}
}
