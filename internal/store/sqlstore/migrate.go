package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// Migrations returns the migration files for the dialect.
func Migrations(d Dialect) (fs.FS, error) {
	return fs.Sub(migrationsFS, "migrations/"+string(d))
}

func prepareGoose(d Dialect) error {
	sub, err := Migrations(d)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	goose.SetBaseFS(sub)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(string(d)); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// Migrate applies all pending migrations.
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := prepareGoose(d); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(ctx context.Context, db *sql.DB, d Dialect) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := prepareGoose(d); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, db, "."); err != nil {
		return fmt.Errorf("rollback migration: %w", err)
	}
	return nil
}

// MigrationStatus prints the state of every migration through goose's logger.
func MigrationStatus(ctx context.Context, db *sql.DB, d Dialect, logger goose.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := prepareGoose(d); err != nil {
		return err
	}
	goose.SetLogger(logger)
	defer goose.SetLogger(goose.NopLogger())
	return goose.StatusContext(ctx, db, ".")
}

// MigrationVersion returns the current schema version.
func MigrationVersion(ctx context.Context, db *sql.DB, d Dialect) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := prepareGoose(d); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db)
}
