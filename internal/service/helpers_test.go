package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shelfwise/shelfwise-server/internal/auth"
	"github.com/shelfwise/shelfwise-server/internal/domain"
	domainerrors "github.com/shelfwise/shelfwise-server/internal/errors"
	"github.com/shelfwise/shelfwise-server/internal/logger"
	"github.com/shelfwise/shelfwise-server/internal/search"
	"github.com/shelfwise/shelfwise-server/internal/store/sqlstore"
	"github.com/shelfwise/shelfwise-server/internal/validation"
)

type testEnv struct {
	store   *sqlstore.Store
	tokens  *auth.TokenService
	index   *search.BookIndex
	auth    *AuthService
	books   *BookService
	reviews *ReviewService
}

// setupTestEnv wires every service against a fresh SQLite file and an in-memory index.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.Nop()
	st, err := sqlstore.Open(context.Background(), sqlstore.SQLite,
		filepath.Join(t.TempDir(), "test.db"), sqlstore.Options{}, log.Logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokens, err := auth.TokenServiceFromSecret("test-secret", time.Hour)
	require.NoError(t, err)

	index, err := search.NewBookIndex(search.Options{Logger: log.Logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	v := validation.New()
	return &testEnv{
		store:   st,
		tokens:  tokens,
		index:   index,
		auth:    NewAuthService(st, tokens, v, log),
		books:   NewBookService(st, index, index, v, log),
		reviews: NewReviewService(st, v, log),
	}
}

func (e *testEnv) registerUser(t *testing.T, name, email string) *domain.User {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), RegisterRequest{Name: name, Email: email, Password: "secret123"})
	require.NoError(t, err)
	return resp.User
}

func (e *testEnv) createBook(t *testing.T, title, author, genre string) *domain.BookWithStats {
	t.Helper()
	book, err := e.books.Create(context.Background(), CreateBookRequest{
		Title:       title,
		Author:      author,
		Genre:       genre,
		Description: "A description that is long enough.",
	})
	require.NoError(t, err)
	return book
}

func requireCode(t *testing.T, err error, code domainerrors.Code) *domainerrors.Error {
	t.Helper()
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, code, domainErr.Code, "message: %s", domainErr.Message)
	return domainErr
}

func strPtr(s string) *string { return &s }
