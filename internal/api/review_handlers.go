package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfwise/shelfwise-server/internal/api/dto"
)

func (s *Server) registerReviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listReviews",
		Method:      http.MethodGet,
		Path:        "/books/{id}/reviews",
		Summary:     "List reviews",
		Description: "Returns a book's reviews, newest first, with reviewer names",
		Tags:        []string{tagReviews},
	}, handle(s, s.handleListReviews))

	huma.Register(s.api, huma.Operation{
		OperationID:   "createReview",
		Method:        http.MethodPost,
		Path:          "/books/{id}/reviews",
		Summary:       "Add review",
		Description:   "Adds the caller's review. Each user may review a book once.",
		Tags:          []string{tagReviews},
		DefaultStatus: http.StatusCreated,
		Security:      bearerSecurity,
		Middlewares:   huma.Middlewares{s.authenticate},
	}, handle(s, s.handleCreateReview))
}

func (s *Server) handleListReviews(ctx context.Context, input *dto.ListReviewsInput) (*dto.Output[dto.ReviewListData], error) {
	page, err := parsePage(input.PageQuery)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Review.List(ctx, input.ID, page)
	if err != nil {
		return nil, err
	}

	return dto.OK(msgReviewsRetrieved, newReviewListData(result)), nil
}

func (s *Server) handleCreateReview(ctx context.Context, input *dto.CreateReviewInput) (*dto.Output[dto.ReviewData], error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	review, err := s.services.Review.Create(ctx, user, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return dto.OK(msgReviewAdded, dto.ReviewData{Review: review}), nil
}
