package store

import (
	"context"

	"github.com/shelfwise/shelfwise-server/internal/domain"
)

// SearchIndexer keeps the search index in step with book writes.
// The database stays the source of truth; indexing failures are logged, not returned to callers.
type SearchIndexer interface {
	IndexBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, bookID string) error
}

// NoopSearchIndexer is used when search is disabled and in tests.
type NoopSearchIndexer struct{}

// IndexBook is a no-op.
func (NoopSearchIndexer) IndexBook(context.Context, *domain.Book) error { return nil }

// DeleteBook is a no-op.
func (NoopSearchIndexer) DeleteBook(context.Context, string) error { return nil }

// NewNoopSearchIndexer creates a no-op indexer.
func NewNoopSearchIndexer() SearchIndexer {
	return NoopSearchIndexer{}
}
