package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/janisto/api-response/internal/common"
	"github.com/janisto/api-response/internal/config"
	"github.com/janisto/api-response/internal/http/health"
	appmiddleware "github.com/janisto/api-response/internal/middleware"
	"github.com/janisto/api-response/internal/respond"
	"github.com/janisto/api-response/internal/routes"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	defer func() {
		if err := common.Sync(); err != nil {
			appmiddleware.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := common.Err(); err != nil {
		appmiddleware.LogError(context.Background(), "logger init error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		appmiddleware.LogFatal(context.Background(), "config load failed", err)
	}
	if err := common.SetLevel(cfg.LogLevel); err != nil {
		appmiddleware.LogWarn(context.Background(), "ignoring log level", zap.Error(err))
	}
	appmiddleware.SugarFromContext(context.Background()).Infow("configuration loaded",
		"port", cfg.Port,
		"logLevel", common.Level().String(),
		"docsPath", cfg.DocsPath,
		"maxBodyBytes", cfg.MaxBodyBytes,
		"shutdownTimeout", cfg.ShutdownTimeout,
	)

	srv := newServer(cfg, newRouter(cfg))

	listenErr := make(chan error, 1)
	go func() {
		appmiddleware.LogInfo(context.Background(), "server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		appmiddleware.LogFatal(context.Background(), "listen failed", err, zap.String("addr", srv.Addr))
	case <-stop:
		appmiddleware.LogInfo(context.Background(), "shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appmiddleware.LogError(ctx, "server shutdown error", err)
	}
	appmiddleware.LogInfo(context.Background(), "server exited")
}

func newRouter(cfg *config.Config) *chi.Mux {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())
	router.Use(
		appmiddleware.Security(cfg.DocsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP trusts X-Forwarded-For; only run behind a trusted proxy.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(cfg.MaxBodyBytes),
		appmiddleware.RequestLogger(),
		appmiddleware.AccessLogger(),
		respond.Recoverer(),
	)

	router.Get("/health", health.Handler)

	routes.Register(respond.NewAPI(router, "API Response", Version, cfg.DocsPath))
	return router
}

func newServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10,
	}
}
