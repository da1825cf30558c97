// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"luckydraw-crm/internal/auth"
	"luckydraw-crm/internal/backend"
	"luckydraw-crm/internal/config"
	"luckydraw-crm/internal/format"
	"luckydraw-crm/internal/storage"
	"luckydraw-crm/internal/storage/memory"
	"luckydraw-crm/internal/storage/postgres"
)

// Services is everything the binaries share.
type Services struct {
	Config   config.Config
	Store    storage.SessionStorage
	Backend  *backend.Client
	Format   *format.Formatter
	Sessions *auth.SessionService

	pool *pgxpool.Pool
}

// LoadConfig reads .env when present, then the environment, and installs the
// default slog logger.
func LoadConfig() config.Config {
	_ = godotenv.Load()
	cfg := config.MustLoad()

	level := slog.LevelDebug
	if cfg.IsProduction() {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return cfg
}

func Open(ctx context.Context, cfg config.Config) (*Services, error) {
	f, err := format.New(cfg.Currency, cfg.Locale)
	if err != nil {
		return nil, err
	}

	s := &Services{
		Config:  cfg,
		Backend: backend.New(cfg.BackendURL, cfg.BackendTimeout),
		Format:  f,
	}

	if cfg.DBConn == "" {
		slog.Warn("DATABASE_URL not set, sessions are kept in memory")
		s.Store = memory.NewStorage()
	} else {
		pool, err := pgxpool.New(ctx, cfg.DBConn)
		if err != nil {
			return nil, fmt.Errorf("connect to db: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping db: %w", err)
		}
		s.pool = pool
		s.Store = postgres.NewStorage(pool)
	}

	tokens := auth.NewTokenService(cfg)
	s.Sessions = auth.NewSessionService(s.Store, tokens, s.Backend, cfg.VerifyTTL)
	return s, nil
}

func (s *Services) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
