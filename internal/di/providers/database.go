package providers

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/shelfwise/shelfwise-server/internal/config"
	"github.com/shelfwise/shelfwise-server/internal/logger"
	"github.com/shelfwise/shelfwise-server/internal/store/sqlstore"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlstore.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the database and applies pending migrations.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dialect, err := sqlstore.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	if dialect == sqlstore.SQLite {
		if err := os.MkdirAll(cfg.Data.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	db, err := sqlstore.Open(ctx, dialect, cfg.Database.URL, sqlstore.Options{
		MaxOpenConns: cfg.Database.MaxOpenConns,
	}, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "driver", string(dialect))

	return &StoreHandle{Store: db}, nil
}
