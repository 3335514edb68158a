package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/shelfwise/shelfwise-server/internal/domain"
	"github.com/shelfwise/shelfwise-server/internal/store"
)

// BookIndex wraps a Bleve index of books. All methods are safe for concurrent use;
// the mutex is held exclusively only while Reindex swaps the underlying index.
type BookIndex struct {
	index  bleve.Index
	path   string // empty for an in-memory index
	logger *slog.Logger
	mu     sync.RWMutex
}

var _ store.SearchIndexer = (*BookIndex)(nil)

// Options configures the index.
type Options struct {
	DataPath string // directory holding search.bleve; empty keeps the index in memory
	Logger   *slog.Logger
}

// mappingVersion is bumped whenever buildIndexMapping changes, forcing a rebuild on startup.
const mappingVersion = "1"

const batchSize = 500

// NewBookIndex opens the on-disk index under DataPath, recreating it when the
// mapping version changed or the index cannot be opened.
func NewBookIndex(opts Options) (*BookIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	if opts.DataPath == "" {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create memory index: %w", err)
		}
		return &BookIndex{index: index, logger: logger}, nil
	}

	indexPath := filepath.Join(opts.DataPath, "search.bleve")
	versionPath := filepath.Join(opts.DataPath, "search.version")

	var index bleve.Index
	var err error
	needsRebuild := false

	if _, statErr := os.Stat(indexPath); statErr == nil {
		existingVersion, readErr := os.ReadFile(versionPath)
		switch {
		case readErr != nil:
			logger.Info("search index has no version file, will rebuild", "new_version", mappingVersion)
			needsRebuild = true
		case string(existingVersion) != mappingVersion:
			logger.Info("search index mapping version changed, will rebuild",
				"old_version", string(existingVersion),
				"new_version", mappingVersion,
			)
			needsRebuild = true
		default:
			index, err = bleve.Open(indexPath)
			if err != nil {
				logger.Warn("failed to open existing index, will recreate", "path", indexPath, "error", err)
				needsRebuild = true
				index = nil
			}
		}
	}

	if needsRebuild {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
	}

	if index == nil {
		if err := os.MkdirAll(opts.DataPath, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); writeErr != nil {
			logger.Warn("failed to write search version file", "error", writeErr)
		}
		logger.Info("created new search index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened existing search index", "path", indexPath)
	}

	return &BookIndex{index: index, path: indexPath, logger: logger}, nil
}

// Close closes the index.
func (s *BookIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexBook adds or replaces a book.
func (s *BookIndex) IndexBook(_ context.Context, book *domain.Book) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.index.Index(book.ID, newBookDocument(book).toMap()); err != nil {
		return fmt.Errorf("index book %s: %w", book.ID, err)
	}
	return nil
}

// DeleteBook removes a book. Deleting an unknown id is not an error.
func (s *BookIndex) DeleteBook(_ context.Context, bookID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.index.Delete(bookID); err != nil {
		return fmt.Errorf("delete book %s: %w", bookID, err)
	}
	return nil
}

// Count returns the number of indexed books.
func (s *BookIndex) Count() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Reindex drops everything and indexes books in batches.
// It blocks searches and writes until done.
func (s *BookIndex) Reindex(ctx context.Context, books []*domain.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}

	var index bleve.Index
	var err error
	if s.path == "" {
		index, err = bleve.NewMemOnly(buildIndexMapping())
	} else {
		if err = os.RemoveAll(s.path); err != nil {
			return fmt.Errorf("remove index: %w", err)
		}
		index, err = bleve.New(s.path, buildIndexMapping())
	}
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	s.index = index

	for i := 0; i < len(books); i += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(i+batchSize, len(books))

		batch := s.index.NewBatch()
		for _, book := range books[i:end] {
			if err := batch.Index(book.ID, newBookDocument(book).toMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", book.ID, err)
			}
		}
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	s.logger.Info("rebuilt search index", "books", len(books))
	return nil
}
