package providers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/shelfwise/shelfwise-server/internal/config"
	"github.com/shelfwise/shelfwise-server/internal/logger"
	"github.com/shelfwise/shelfwise-server/internal/search"
	"github.com/shelfwise/shelfwise-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
// BookIndex is nil when search is disabled.
type SearchIndexHandle struct {
	*search.BookIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	if h.BookIndex == nil {
		return nil
	}
	return h.Close()
}

// ProvideSearchIndex opens the on-disk Bleve index under <data>/search.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Search.Enabled {
		log.Info("Search index disabled by configuration")
		return &SearchIndexHandle{}, nil
	}

	dataPath := filepath.Join(cfg.Data.Path, "search")
	if err := os.MkdirAll(dataPath, 0o750); err != nil {
		return nil, fmt.Errorf("create search directory: %w", err)
	}

	index, err := search.NewBookIndex(search.Options{
		DataPath: dataPath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.Count()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{BookIndex: index}, nil
}

// ReindexSearch rebuilds the index from the database. The database is the
// source of truth, so this runs on every start.
func ReindexSearch(i do.Injector) error {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	if indexHandle.BookIndex == nil {
		return nil
	}
	books := do.MustInvoke[*service.BookService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if err := books.Reindex(ctx, indexHandle.BookIndex); err != nil {
		return fmt.Errorf("rebuild search index: %w", err)
	}

	count, _ := indexHandle.Count()
	log.Info("Search index rebuilt", "documents", count)
	return nil
}
