// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"luckydraw-crm/internal/app"
	"luckydraw-crm/internal/auth"
	"luckydraw-crm/internal/handler"
	"luckydraw-crm/internal/middleware"
)

const (
	shutdownTimeout = 10 * time.Second
	pruneInterval   = time.Hour
)

func main() {
	cfg := app.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := app.Open(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	h := handler.New(svc.Backend, svc.Sessions, svc.Format, handler.CookieOptions{
		Name:   cfg.CookieName,
		Secure: cfg.CookieSecure,
	})
	authMW := middleware.NewAuthMiddleware(svc.Sessions, cfg.CookieName, cfg.LoginPath)
	router := handler.NewRouter(h, authMW)

	go pruneSessions(ctx, svc.Sessions)

	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("🚀 server started", "addr", cfg.ServerPort, "backend", cfg.BackendURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		_ = srv.Close()
	}
}

func pruneSessions(ctx context.Context, sessions *auth.SessionService) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.PruneExpired(ctx)
			if err != nil {
				slog.Error("prune sessions", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("expired sessions pruned", "count", n)
			}
		}
	}
}
