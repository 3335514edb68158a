// Package main runs database migrations for the Shelfwise server.
//
// Usage:
//
//	migrate [up|down|status|version] [server config flags]
//
// Connection settings come from the same flags, environment variables and
// .env file as the server.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shelfwise/shelfwise-server/internal/config"
	"github.com/shelfwise/shelfwise-server/internal/logger"
	"github.com/shelfwise/shelfwise-server/internal/store/sqlstore"
)

// gooseLogger routes goose output through the structured logger.
type gooseLogger struct {
	log *logger.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Fatal(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func main() {
	command := "up"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	}

	cfg, err := config.LoadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	dialect, err := sqlstore.ParseDialect(cfg.Database.Driver)
	if err != nil {
		log.Fatal("Invalid database driver", "error", err)
	}
	if dialect == sqlstore.SQLite {
		if err := os.MkdirAll(cfg.Data.Path, 0o750); err != nil {
			log.Fatal("Failed to create data directory", "error", err)
		}
	}

	ctx := context.Background()
	st, err := sqlstore.Open(ctx, dialect, cfg.Database.URL, sqlstore.Options{SkipMigrations: true}, log.Logger)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	defer st.Close()

	log.Info("Running migrations", "command", command, "driver", string(dialect))

	switch command {
	case "up":
		if err := sqlstore.Migrate(ctx, st.DB(), dialect); err != nil {
			log.Fatal("Failed to run migrations", "error", err)
		}
		log.Info("Migrations completed successfully")
	case "down":
		if err := sqlstore.MigrateDown(ctx, st.DB(), dialect); err != nil {
			log.Fatal("Failed to rollback migration", "error", err)
		}
		log.Info("Rollback completed successfully")
	case "status":
		if err := sqlstore.MigrationStatus(ctx, st.DB(), dialect, gooseLogger{log: log}); err != nil {
			log.Fatal("Failed to get migration status", "error", err)
		}
	case "version":
		version, err := sqlstore.MigrationVersion(ctx, st.DB(), dialect)
		if err != nil {
			log.Fatal("Failed to get version", "error", err)
		}
		log.Info("Current migration version", "version", version)
	default:
		log.Fatal("Unknown command. Available commands: up, down, status, version", "command", command)
	}
}
