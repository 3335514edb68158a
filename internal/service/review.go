package service

import (
	"context"
	"fmt"

	"github.com/shelfwise/shelfwise-server/internal/domain"
	domainerrors "github.com/shelfwise/shelfwise-server/internal/errors"
	"github.com/shelfwise/shelfwise-server/internal/id"
	"github.com/shelfwise/shelfwise-server/internal/logger"
	"github.com/shelfwise/shelfwise-server/internal/store"
	"github.com/shelfwise/shelfwise-server/internal/validation"
)

// ReviewService manages book reviews. A user reviews a book at most once.
type ReviewService struct {
	store     store.Store
	validator *validation.Validator
	logger    *logger.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(store store.Store, validator *validation.Validator, logger *logger.Logger) *ReviewService {
	return &ReviewService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateReviewRequest contains a rating and comment.
type CreateReviewRequest struct {
	Rating  int    `json:"rating,omitempty" validate:"gte=1,lte=5" msg:"Rating must be between 1 and 5" doc:"Rating from 1 to 5"`
	Comment string `json:"comment,omitempty" validate:"min=10,max=1000" msg:"Comment must be between 10 and 1000 characters" sanitize:"trim,escape" doc:"Review text"`
}

// List returns a page of a book's reviews, newest first.
func (s *ReviewService) List(ctx context.Context, bookID string, page store.PageRequest) (*store.Page[*domain.ReviewWithReviewer], error) {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, bookError(err)
	}

	reviews, err := s.store.ListReviews(ctx, bookID, page.Normalize())
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// Create adds the user's review of a book. The book must exist and the user
// must not have reviewed it already; unique_user_book_review backs up the check.
func (s *ReviewService) Create(ctx context.Context, user *domain.User, bookID string, req CreateReviewRequest) (*domain.ReviewWithReviewer, error) {
	if err := s.validator.Prepare(&req); err != nil {
		return nil, err
	}

	reviewID, err := id.Generate(id.PrefixReview)
	if err != nil {
		return nil, fmt.Errorf("generate review ID: %w", err)
	}

	var created *domain.ReviewWithReviewer
	err = s.store.InTx(ctx, func(tx store.Store) error {
		if _, err := tx.GetBook(ctx, bookID); err != nil {
			return bookError(err)
		}

		exists, err := tx.HasReview(ctx, user.ID, bookID)
		if err != nil {
			return fmt.Errorf("check existing review: %w", err)
		}
		if exists {
			return domainerrors.AlreadyExists(domainerrors.MsgReviewExists)
		}

		review := &domain.Review{
			ID:      reviewID,
			UserID:  user.ID,
			BookID:  bookID,
			Rating:  req.Rating,
			Comment: req.Comment,
		}
		if err := tx.CreateReview(ctx, review); err != nil {
			return err
		}

		created, err = tx.GetReview(ctx, review.ID)
		if err != nil {
			// A missing row here is a server fault, not a client 404.
			return domainerrors.Wrap(err, domainerrors.CodeInternal, "read back review")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("review added", "review_id", created.ID, "book_id", bookID, "user_id", user.ID)
	return created, nil
}
