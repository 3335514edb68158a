package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shelfwise/shelfwise-server/internal/domain"
	"github.com/shelfwise/shelfwise-server/internal/store"
)

const reviewWithReviewerSelect = `
	SELECT r.id, r.user_id, r.book_id, r.rating, r.comment, r.created_at, u.name
	FROM reviews r
	JOIN users u ON u.id = r.user_id`

func scanReview(scanner rowScanner) (*domain.ReviewWithReviewer, error) {
	var (
		r         domain.ReviewWithReviewer
		createdAt dbTime
	)
	err := scanner.Scan(&r.ID, &r.UserID, &r.BookID, &r.Rating, &r.Comment, &createdAt, &r.ReviewerName)
	if err != nil {
		return nil, err
	}
	r.CreatedAt = createdAt.Time
	return &r, nil
}

// CreateReview inserts a review. A second review by the same user for the same
// book surfaces as a unique violation on unique_user_book_review.
func (s *Store) CreateReview(ctx context.Context, review *domain.Review) error {
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now()
	}

	_, err := s.exec(ctx, `
		INSERT INTO reviews (id, user_id, book_id, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		review.ID, review.UserID, review.BookID, review.Rating, review.Comment, formatTime(review.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// GetReview retrieves a review joined with the reviewer's name.
func (s *Store) GetReview(ctx context.Context, id string) (*domain.ReviewWithReviewer, error) {
	r, err := scanReview(s.queryRow(ctx, reviewWithReviewerSelect+` WHERE r.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("review not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	return r, nil
}

// HasReview reports whether the user already reviewed the book.
func (s *Store) HasReview(ctx context.Context, userID, bookID string) (bool, error) {
	var one int
	err := s.queryRow(ctx, `SELECT 1 FROM reviews WHERE user_id = ? AND book_id = ?`, userID, bookID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check review: %w", err)
	}
	return true, nil
}

// ListReviews returns a page of a book's reviews, newest first.
func (s *Store) ListReviews(ctx context.Context, bookID string, page store.PageRequest) (*store.Page[*domain.ReviewWithReviewer], error) {
	page = page.Normalize()

	var total int
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE book_id = ?`, bookID).Scan(&total); err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	rows, err := s.query(ctx, reviewWithReviewerSelect+`
		WHERE r.book_id = ?
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT ? OFFSET ?`,
		bookID, page.Limit, page.Offset(),
	)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*domain.ReviewWithReviewer, 0, page.Limit)
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return &store.Page[*domain.ReviewWithReviewer]{
		Items: reviews,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
	}, nil
}

// DeleteReviewsForBook removes every review of a book and returns how many were deleted.
func (s *Store) DeleteReviewsForBook(ctx context.Context, bookID string) (int64, error) {
	res, err := s.exec(ctx, `DELETE FROM reviews WHERE book_id = ?`, bookID)
	if err != nil {
		return 0, fmt.Errorf("delete reviews: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete reviews: %w", err)
	}
	return n, nil
}
