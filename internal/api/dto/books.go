package dto

import (
	"github.com/shelfwise/shelfwise-server/internal/domain"
	"github.com/shelfwise/shelfwise-server/internal/service"
)

// ListBooksInput holds the book listing query.
type ListBooksInput struct {
	PageQuery
	Genre     string `query:"genre" doc:"Case-insensitive genre substring"`
	Author    string `query:"author" doc:"Case-insensitive author substring"`
	Title     string `query:"title" doc:"Case-insensitive title substring"`
	SortBy    string `query:"sortBy" doc:"title, author, genre, created_at or average_rating (default created_at)"`
	SortOrder string `query:"sortOrder" doc:"ASC or DESC, case-insensitive (default DESC)"`
}

// SearchBooksInput holds a full-text query.
type SearchBooksInput struct {
	PageQuery
	Q string `query:"q" doc:"Search text matched against title, author, genre and description"`
}

// CreateBookInput wraps a new book for huma.
type CreateBookInput struct {
	Body service.CreateBookRequest
}

// UpdateBookInput wraps a partial update for huma.
type UpdateBookInput struct {
	IDParam
	Body service.UpdateBookRequest
}

// BookPagination describes a page of books.
type BookPagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalBooks   int `json:"totalBooks"`
	BooksPerPage int `json:"booksPerPage"`
}

// BookListData is a page of books.
type BookListData struct {
	Books      []*domain.BookWithStats `json:"books"`
	Pagination BookPagination          `json:"pagination"`
}

// BookData wraps a single book.
type BookData struct {
	Book *domain.BookWithStats `json:"book"`
}
