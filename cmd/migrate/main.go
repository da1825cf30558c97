// cmd/migrate/main.go
package main

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"luckydraw-crm/internal/app"
)

func main() {
	cfg := app.LoadConfig()
	if cfg.DBConn == "" {
		slog.Error("DATABASE_URL not set, nothing to migrate")
		os.Exit(1)
	}

	db, err := sql.Open("pgx", cfg.DBConn)
	if err != nil {
		slog.Error("open db", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	wd, err := os.Getwd()
	if err != nil {
		slog.Error("working directory", "error", err)
		os.Exit(1)
	}
	migrationsDir := filepath.Join(wd, "migrations")

	if err := goose.SetDialect("postgres"); err != nil {
		slog.Error("goose dialect", "error", err)
		os.Exit(1)
	}

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	slog.Info("running migrations", "dir", migrationsDir, "command", command)

	switch command {
	case "up":
		err = goose.Up(db, migrationsDir)
	case "down":
		err = goose.Down(db, migrationsDir)
	case "status":
		err = goose.Status(db, migrationsDir)
	default:
		slog.Error("unknown command, use up, down or status", "command", command)
		os.Exit(2)
	}
	if err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	slog.Info("✅ migrations done")
}
