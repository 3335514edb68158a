package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shelfwise/shelfwise-server/internal/domain"
	domainerrors "github.com/shelfwise/shelfwise-server/internal/errors"
	"github.com/shelfwise/shelfwise-server/internal/id"
	"github.com/shelfwise/shelfwise-server/internal/logger"
	"github.com/shelfwise/shelfwise-server/internal/search"
	"github.com/shelfwise/shelfwise-server/internal/store"
	"github.com/shelfwise/shelfwise-server/internal/validation"
)

// BookSearcher runs full-text queries. *search.BookIndex implements it.
type BookSearcher interface {
	Search(ctx context.Context, q string, page store.PageRequest) (*search.Result, error)
}

// Reindexer rebuilds a search index from scratch.
type Reindexer interface {
	Reindex(ctx context.Context, books []*domain.Book) error
}

// BookService orchestrates catalogue operations.
type BookService struct {
	store     store.Store
	indexer   store.SearchIndexer
	searcher  BookSearcher // nil when search is disabled
	validator *validation.Validator
	logger    *logger.Logger
}

// NewBookService creates a new book service. A nil indexer disables index upkeep
// and a nil searcher makes Search report the feature as unavailable.
func NewBookService(
	st store.Store,
	indexer store.SearchIndexer,
	searcher BookSearcher,
	validator *validation.Validator,
	logger *logger.Logger,
) *BookService {
	if indexer == nil {
		indexer = store.NewNoopSearchIndexer()
	}
	return &BookService{
		store:     st,
		indexer:   indexer,
		searcher:  searcher,
		validator: validator,
		logger:    logger,
	}
}

// CreateBookRequest contains a new catalogue entry.
type CreateBookRequest struct {
	Title       string `json:"title,omitempty" validate:"min=2,max=200" msg:"Title must be 2-200 characters" sanitize:"trim,escape" doc:"Book title"`
	Author      string `json:"author,omitempty" validate:"min=2,max=100" msg:"Author must be 2-100 characters" sanitize:"trim,escape" doc:"Author name"`
	Genre       string `json:"genre,omitempty" validate:"min=2,max=50" msg:"Genre must be 2-50 characters" sanitize:"trim,escape" doc:"Genre"`
	Description string `json:"description,omitempty" validate:"min=10,max=1000" msg:"Description must be 10-1000 characters" sanitize:"trim,escape" doc:"Description"`
}

// UpdateBookRequest is a partial update. Absent fields are left unchanged and
// unknown keys are ignored, so a body with none of the four fields reaches the
// "No fields to update" check.
type UpdateBookRequest struct {
	_ struct{} `json:"-" additionalProperties:"true"`

	Title       *string `json:"title,omitempty" validate:"omitempty,min=2,max=200" msg:"Title must be 2-200 characters" sanitize:"trim,escape" doc:"Book title"`
	Author      *string `json:"author,omitempty" validate:"omitempty,min=2,max=100" msg:"Author must be 2-100 characters" sanitize:"trim,escape" doc:"Author name"`
	Genre       *string `json:"genre,omitempty" validate:"omitempty,min=2,max=50" msg:"Genre must be 2-50 characters" sanitize:"trim,escape" doc:"Genre"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=10,max=1000" msg:"Description must be 10-1000 characters" sanitize:"trim,escape" doc:"Description"`
}

func (r UpdateBookRequest) patch() domain.BookPatch {
	return domain.BookPatch{
		Title:       r.Title,
		Author:      r.Author,
		Genre:       r.Genre,
		Description: r.Description,
	}
}

// List returns one page of books with their review stats.
func (s *BookService) List(ctx context.Context, q store.BookQuery) (*store.Page[*domain.BookWithStats], error) {
	page, err := s.store.ListBooks(ctx, q.Normalized())
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return page, nil
}

// Get returns a book with its review stats.
func (s *BookService) Get(ctx context.Context, bookID string) (*domain.BookWithStats, error) {
	book, err := s.store.GetBookWithStats(ctx, bookID)
	if err != nil {
		return nil, bookError(err)
	}
	return book, nil
}

// Create adds a book unless one with the same title, author and genre exists.
func (s *BookService) Create(ctx context.Context, req CreateBookRequest) (*domain.BookWithStats, error) {
	if err := s.validator.Prepare(&req); err != nil {
		return nil, err
	}

	bookID, err := id.Generate(id.PrefixBook)
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}
	book := &domain.Book{
		ID:          bookID,
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Description: req.Description,
	}

	err = s.store.InTx(ctx, func(tx store.Store) error {
		if err := ensureUniqueBook(ctx, tx, book, ""); err != nil {
			return err
		}
		return tx.CreateBook(ctx, book)
	})
	if err != nil {
		return nil, err
	}

	s.index(ctx, book)
	s.logger.Info("book created", "book_id", book.ID)
	return &domain.BookWithStats{Book: *book}, nil
}

// Update applies a partial update. The duplicate check only runs when the whole
// title, author and genre triple is supplied.
func (s *BookService) Update(ctx context.Context, bookID string, req UpdateBookRequest) (*domain.BookWithStats, error) {
	if err := s.validator.Prepare(&req); err != nil {
		return nil, err
	}
	patch := req.patch()
	if patch.IsEmpty() {
		return nil, domainerrors.Validation(domainerrors.MsgNoFieldsToUpdate)
	}

	var updated *domain.Book
	err := s.store.InTx(ctx, func(tx store.Store) error {
		book, err := tx.GetBook(ctx, bookID)
		if err != nil {
			return bookError(err)
		}

		patch.Apply(book)
		if patch.TouchesIdentity() {
			if err := ensureUniqueBook(ctx, tx, book, book.ID); err != nil {
				return err
			}
		}

		if err := tx.UpdateBook(ctx, book); err != nil {
			return bookError(err)
		}
		updated = book
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.index(ctx, updated)
	s.logger.Info("book updated", "book_id", bookID)
	return s.Get(ctx, bookID)
}

// Delete removes a book and its reviews in one transaction.
func (s *BookService) Delete(ctx context.Context, bookID string) error {
	var removed int64
	err := s.store.InTx(ctx, func(tx store.Store) error {
		if _, err := tx.GetBook(ctx, bookID); err != nil {
			return bookError(err)
		}

		n, err := tx.DeleteReviewsForBook(ctx, bookID)
		if err != nil {
			return fmt.Errorf("delete reviews: %w", err)
		}
		removed = n

		if err := tx.DeleteBook(ctx, bookID); err != nil {
			return bookError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.indexer.DeleteBook(ctx, bookID); err != nil {
		s.logger.WithError(err).Warn("failed to remove book from search index", "book_id", bookID)
	}
	s.logger.Info("book deleted", "book_id", bookID, "reviews_removed", removed)
	return nil
}

// Search runs a full-text query and hydrates the hits from the store in
// relevance order. Hits whose rows have since disappeared are skipped.
func (s *BookService) Search(ctx context.Context, q string, page store.PageRequest) (*store.Page[*domain.BookWithStats], error) {
	if s.searcher == nil {
		return nil, domainerrors.Unavailable(domainerrors.MsgSearchUnavailable)
	}
	page = page.Normalize()

	res, err := s.searcher.Search(ctx, q, page)
	if errors.Is(err, search.ErrEmptyQuery) {
		return nil, domainerrors.Validation(domainerrors.MsgSearchQueryRequired)
	}
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}

	byID, err := s.store.GetBooksWithStats(ctx, res.IDs)
	if err != nil {
		return nil, fmt.Errorf("hydrate search hits: %w", err)
	}

	books := make([]*domain.BookWithStats, 0, len(res.IDs))
	for _, bookID := range res.IDs {
		if book, ok := byID[bookID]; ok {
			books = append(books, book)
		}
	}

	return &store.Page[*domain.BookWithStats]{
		Items: books,
		Total: res.Total,
		Page:  page.Page,
		Limit: page.Limit,
	}, nil
}

// Reindex rebuilds the search index from the database.
func (s *BookService) Reindex(ctx context.Context, index Reindexer) error {
	books, err := s.store.ListAllBooks(ctx)
	if err != nil {
		return fmt.Errorf("list books for reindex: %w", err)
	}
	return index.Reindex(ctx, books)
}

func (s *BookService) index(ctx context.Context, book *domain.Book) {
	if err := s.indexer.IndexBook(ctx, book); err != nil {
		s.logger.WithError(err).Warn("failed to index book", "book_id", book.ID)
	}
}

func ensureUniqueBook(ctx context.Context, tx store.Store, book *domain.Book, excludeID string) error {
	dupID, err := tx.FindDuplicateBook(ctx, book.Title, book.Author, book.Genre, excludeID)
	if err != nil {
		return fmt.Errorf("check duplicate book: %w", err)
	}
	if dupID != "" {
		return domainerrors.AlreadyExists(domainerrors.MsgBookExists)
	}
	return nil
}

// bookError maps a missing row to the user-facing 404 and passes everything else through.
func bookError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound(domainerrors.MsgBookNotFound)
	}
	return err
}
