package dto

import (
	"github.com/shelfwise/shelfwise-server/internal/domain"
	"github.com/shelfwise/shelfwise-server/internal/service"
)

// ListReviewsInput selects a page of a book's reviews.
type ListReviewsInput struct {
	IDParam
	PageQuery
}

// CreateReviewInput wraps a new review for huma.
type CreateReviewInput struct {
	IDParam
	Body service.CreateReviewRequest
}

// ReviewPagination describes a page of reviews.
type ReviewPagination struct {
	CurrentPage    int `json:"currentPage"`
	TotalPages     int `json:"totalPages"`
	TotalReviews   int `json:"totalReviews"`
	ReviewsPerPage int `json:"reviewsPerPage"`
}

// ReviewListData is a page of reviews.
type ReviewListData struct {
	Reviews    []*domain.ReviewWithReviewer `json:"reviews"`
	Pagination ReviewPagination             `json:"pagination"`
}

// ReviewData wraps a single review.
type ReviewData struct {
	Review *domain.ReviewWithReviewer `json:"review"`
}
