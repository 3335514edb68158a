// Package store defines the persistence interface for the Shelfwise server.
package store

import (
	"context"

	"github.com/shelfwise/shelfwise-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Ping(ctx context.Context) error

	// InTx runs fn against a transactional Store. The transaction commits when
	// fn returns nil and rolls back otherwise. Nested calls reuse the outer transaction.
	InTx(ctx context.Context, fn func(tx Store) error) error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUserPasswordHash(ctx context.Context, id, hash string) error
	SetUserRole(ctx context.Context, id string, role domain.Role) error

	// Books
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	GetBookWithStats(ctx context.Context, id string) (*domain.BookWithStats, error)
	GetBooksWithStats(ctx context.Context, ids []string) (map[string]*domain.BookWithStats, error)
	ListBooks(ctx context.Context, q BookQuery) (*Page[*domain.BookWithStats], error)
	ListAllBooks(ctx context.Context) ([]*domain.Book, error)
	// FindDuplicateBook returns the id of a book with the same title, author
	// and genre, ignoring excludeID. It returns "" when there is none.
	FindDuplicateBook(ctx context.Context, title, author, genre, excludeID string) (string, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id string) error

	// Reviews
	CreateReview(ctx context.Context, review *domain.Review) error
	GetReview(ctx context.Context, id string) (*domain.ReviewWithReviewer, error)
	HasReview(ctx context.Context, userID, bookID string) (bool, error)
	ListReviews(ctx context.Context, bookID string, page PageRequest) (*Page[*domain.ReviewWithReviewer], error)
	DeleteReviewsForBook(ctx context.Context, bookID string) (int64, error)
}
