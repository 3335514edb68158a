package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/shelfwise/shelfwise-server/internal/domain"
)

func makeTestUser(id, email string) *domain.User {
	return &domain.User{
		ID:           id,
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		Role:         domain.RoleUser,
	}
}

func makeTestBook(id, title, author, genre string) *domain.Book {
	return &domain.Book{
		ID:          id,
		Title:       title,
		Author:      author,
		Genre:       genre,
		Description: "A description long enough to pass validation.",
	}
}

func makeTestReview(id, userID, bookID string, rating int) *domain.Review {
	return &domain.Review{
		ID:      id,
		UserID:  userID,
		BookID:  bookID,
		Rating:  rating,
		Comment: "A thoughtful comment about the book.",
	}
}

// seedBooks inserts n books with strictly increasing created_at so default ordering is predictable.
func seedBooks(t *testing.T, s *Store, n int) []*domain.Book {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	books := make([]*domain.Book, n)
	for i := range n {
		b := makeTestBook(
			bookID(i),
			"Title "+string(rune('A'+i%26))+string(rune('a'+i/26)),
			"Author",
			"Genre",
		)
		b.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := s.CreateBook(ctx, b); err != nil {
			t.Fatalf("CreateBook %d: %v", i, err)
		}
		books[i] = b
	}
	return books
}

func bookID(i int) string {
	return "book-" + string(rune('a'+i/26)) + string(rune('a'+i%26))
}
