package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfwise/shelfwise-server/internal/api/dto"
	"github.com/shelfwise/shelfwise-server/internal/store"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/books",
		Summary:     "List books",
		Description: "Returns a filtered, sorted page of books with review stats",
		Tags:        []string{tagBooks},
	}, handle(s, s.handleListBooks))

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book with its average rating and review count",
		Tags:        []string{tagBooks},
	}, handle(s, s.handleGetBook))

	adminOnly := huma.Middlewares{s.authenticate, s.requireAdmin}

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/books",
		Summary:       "Create book",
		Description:   "Adds a book. Title, author and genre together must be unique. Admin only.",
		Tags:          []string{tagBooks},
		DefaultStatus: http.StatusCreated,
		Security:      bearerSecurity,
		Middlewares:   adminOnly,
	}, handle(s, s.handleCreateBook))

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPut,
		Path:        "/books/{id}",
		Summary:     "Update book",
		Description: "Changes only the supplied fields. Admin only.",
		Tags:        []string{tagBooks},
		Security:    bearerSecurity,
		Middlewares: adminOnly,
	}, handle(s, s.handleUpdateBook))

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/books/{id}",
		Summary:     "Delete book",
		Description: "Deletes a book together with its reviews. Admin only.",
		Tags:        []string{tagBooks},
		Security:    bearerSecurity,
		Middlewares: adminOnly,
	}, handle(s, s.handleDeleteBook))
}

func (s *Server) handleListBooks(ctx context.Context, input *dto.ListBooksInput) (*dto.Output[dto.BookListData], error) {
	page, err := parsePage(input.PageQuery)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Book.List(ctx, store.BookQuery{
		Genre:       input.Genre,
		Author:      input.Author,
		Title:       input.Title,
		Sort:        store.BookSort(input.SortBy),
		Order:       store.SortOrder(input.SortOrder),
		PageRequest: page,
	})
	if err != nil {
		return nil, err
	}

	return dto.OK(msgBooksRetrieved, newBookListData(result)), nil
}

func (s *Server) handleGetBook(ctx context.Context, input *dto.IDParam) (*dto.Output[dto.BookData], error) {
	book, err := s.services.Book.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return dto.OK(msgBookRetrieved, dto.BookData{Book: book}), nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *dto.CreateBookInput) (*dto.Output[dto.BookData], error) {
	book, err := s.services.Book.Create(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return dto.OK(msgBookCreated, dto.BookData{Book: book}), nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *dto.UpdateBookInput) (*dto.Output[dto.BookData], error) {
	book, err := s.services.Book.Update(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return dto.OK(msgBookUpdated, dto.BookData{Book: book}), nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *dto.IDParam) (*dto.Output[any], error) {
	if err := s.services.Book.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return dto.OK[any](msgBookDeleted, nil), nil
}
