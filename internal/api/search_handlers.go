package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfwise/shelfwise-server/internal/api/dto"
)

// registerSearchRoutes must run before registerBookRoutes; chi prefers the
// static /books/search either way, but keeping the order makes it obvious.
func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/books/search",
		Summary:     "Search books",
		Description: "Full-text search over title, author, genre and description, most relevant first",
		Tags:        []string{tagBooks},
	}, handle(s, s.handleSearchBooks))
}

func (s *Server) handleSearchBooks(ctx context.Context, input *dto.SearchBooksInput) (*dto.Output[dto.BookListData], error) {
	page, err := parsePage(input.PageQuery)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Book.Search(ctx, input.Q, page)
	if err != nil {
		return nil, err
	}

	return dto.OK(msgBooksRetrieved, newBookListData(result)), nil
}
