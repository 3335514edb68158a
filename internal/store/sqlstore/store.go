// Package sqlstore implements store.Store on database/sql for SQLite and PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/shelfwise/shelfwise-server/internal/store"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store provides SQL-backed persistence for the Shelfwise server.
type Store struct {
	db      *sql.DB
	q       queryer // db, or the open transaction for stores handed to InTx callbacks
	tx      *sql.Tx
	dialect Dialect
	logger  *slog.Logger
}

var _ store.Store = (*Store)(nil)

// Options tune the connection pool.
type Options struct {
	MaxOpenConns int
	// SkipMigrations leaves the schema alone; cmd/migrate uses this.
	SkipMigrations bool
}

// Open connects to the database, configures the pool and runs pending migrations.
func Open(ctx context.Context, dialect Dialect, url string, opts Options, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if dialect == SQLite {
		if err := registerSQLiteFuncs(); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(dialect.driverName(), dialect.dsn(url))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	maxOpen := opts.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(min(maxOpen, 4))
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	if !opts.SkipMigrations {
		if err := Migrate(ctx, db, dialect); err != nil {
			db.Close()
			return nil, err
		}
	}

	logger.Info("database ready", "driver", string(dialect))

	return &Store{
		db:      db,
		q:       db,
		dialect: dialect,
		logger:  logger,
	}, nil
}

// DB exposes the pool for migrations and tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the backend in use.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// InTx runs fn inside a transaction. Calls made on a transactional store join the open transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx store.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	txStore := &Store{
		db:      s.db,
		q:       tx,
		tx:      tx,
		dialect: s.dialect,
		logger:  s.logger,
	}
	if err := fn(txStore); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := s.q.ExecContext(ctx, s.dialect.rebind(query), args...)
	return res, classify(err)
}

// requireAffected turns a write that matched no rows into a not-found error.
func requireAffected(res sql.Result, msg string) error {
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound.WithMessage(msg)
	}
	return nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.q.QueryContext(ctx, s.dialect.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.q.QueryRowContext(ctx, s.dialect.rebind(query), args...)
}
