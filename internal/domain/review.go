package domain

import "time"

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user's rating and comment for a book. One per (user, book).
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	BookID    string    `json:"book_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewWithReviewer is a review joined with the reviewing user's display name.
type ReviewWithReviewer struct {
	Review
	ReviewerName string `json:"reviewer_name"`
}
