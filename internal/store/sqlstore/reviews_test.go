package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/shelfwise-server/internal/store"
)

func setupReviewFixtures(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.CreateBook(ctx, makeTestBook("book-1", "Dune", "Frank Herbert", "Sci-Fi")))
	u := makeTestUser("user-1", "reader@example.com")
	u.Name = "Reader One"
	require.NoError(t, s.CreateUser(ctx, u))
}

func TestCreateAndGetReview(t *testing.T) {
	s := newTestStore(t)
	setupReviewFixtures(t, s)
	ctx := context.Background()

	require.NoError(t, s.CreateReview(ctx, makeTestReview("review-1", "user-1", "book-1", 5)))

	got, err := s.GetReview(ctx, "review-1")
	require.NoError(t, err)
	assert.Equal(t, "Reader One", got.ReviewerName)
	assert.Equal(t, 5, got.Rating)
	assert.Equal(t, "book-1", got.BookID)

	has, err := s.HasReview(ctx, "user-1", "book-1")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = s.HasReview(ctx, "user-1", "book-other")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCreateReview_Duplicate(t *testing.T) {
	s := newTestStore(t)
	setupReviewFixtures(t, s)
	ctx := context.Background()

	require.NoError(t, s.CreateReview(ctx, makeTestReview("review-1", "user-1", "book-1", 5)))

	err := s.CreateReview(ctx, makeTestReview("review-2", "user-1", "book-1", 3))
	var storeErr *store.Error
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, store.KindUniqueViolation, storeErr.Kind)
	assert.Equal(t, store.ConstraintUserReview, storeErr.Constraint)
}

func TestCreateReview_MissingBook(t *testing.T) {
	s := newTestStore(t)
	setupReviewFixtures(t, s)

	err := s.CreateReview(context.Background(), makeTestReview("review-1", "user-1", "book-missing", 5))
	var storeErr *store.Error
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, store.KindForeignKeyViolation, storeErr.Kind)
}

func TestListReviews_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	setupReviewFixtures(t, s)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"user-2", "user-3", "user-4"} {
		require.NoError(t, s.CreateUser(ctx, makeTestUser(id, id+"@example.com")))
		r := makeTestReview("review-"+id, id, "book-1", 3)
		r.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, s.CreateReview(ctx, r))
	}

	page, err := s.ListReviews(ctx, "book-1", store.PageRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages())
	require.Len(t, page.Items, 2)
	assert.Equal(t, "review-user-4", page.Items[0].ID)
	assert.Equal(t, "review-user-3", page.Items[1].ID)

	page, err = s.ListReviews(ctx, "book-1", store.PageRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "review-user-2", page.Items[0].ID)
}
