package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/shelfwise-server/internal/api/dto"
	"github.com/shelfwise/shelfwise-server/internal/auth"
	domainerrors "github.com/shelfwise/shelfwise-server/internal/errors"
	"github.com/shelfwise/shelfwise-server/internal/logger"
	"github.com/shelfwise/shelfwise-server/internal/store"
	"github.com/shelfwise/shelfwise-server/internal/validation"
)

func TestClassifyError(t *testing.T) {
	cause := errors.New("driver says no")

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"email unique", store.Violation(store.KindUniqueViolation, store.ConstraintUserEmail, cause), 409, "User with this email already exists"},
		{"book unique", store.Violation(store.KindUniqueViolation, store.ConstraintBookCombo, cause), 409, "A book with the same title, author, and genre already exists."},
		{"review unique", store.Violation(store.KindUniqueViolation, store.ConstraintUserReview, cause), 409, "You have already reviewed this book"},
		{"other unique", store.Violation(store.KindUniqueViolation, "", cause), 409, "Resource already exists"},
		{"foreign key", store.Violation(store.KindForeignKeyViolation, "", cause), 400, "Referenced record does not exist"},
		{"not null", store.Violation(store.KindNotNullViolation, "", cause), 400, "Required field is missing"},
		{"store not found", fmt.Errorf("get: %w", store.ErrNotFound.WithMessage("book not found")), 404, "book not found"},
		{"invalid token", fmt.Errorf("verify: %w", auth.ErrInvalidToken), 401, "Invalid token"},
		{"domain error", domainerrors.Forbidden("Admin access required"), 403, "Admin access required"},
		{"domain unavailable", domainerrors.Unavailable("Search is not enabled"), 503, "Search is not enabled"},
		{"domain internal hides message", domainerrors.Wrap(cause, domainerrors.CodeInternal, "read back review"), 500, "Server error"},
		{"huma status error", huma.Error409Conflict("taken"), 409, "taken"},
		{"huma 5xx hides message", huma.Error502BadGateway("upstream exploded"), 502, "Server error"},
		{"unknown", cause, 500, "Server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(tt.err)
			assert.Equal(t, tt.status, got.GetStatus())
			assert.Equal(t, tt.message, got.Message)
			assert.False(t, got.Success)
		})
	}
}

func TestClassifyError_ValidationDetails(t *testing.T) {
	details := []validation.FieldError{{Field: "page", Message: "Page must be a positive integer"}}
	got := classifyError(domainerrors.ValidationWithDetails("Validation failed", details))

	assert.Equal(t, http.StatusBadRequest, got.GetStatus())
	assert.Equal(t, details, got.Errors)
}

func TestNewHumaError(t *testing.T) {
	err := newHumaError(http.StatusUnprocessableEntity, "validation failed",
		&huma.ErrorDetail{Location: "body.rating", Message: "expected integer"},
		&huma.ErrorDetail{Location: "body", Message: "expected object"},
		errors.New("plain"),
	)
	apiErr := err.(*APIError)
	assert.Equal(t, http.StatusBadRequest, apiErr.GetStatus())
	assert.Equal(t, "Validation failed", apiErr.Message)
	assert.Equal(t, []validation.FieldError{
		{Field: "rating", Message: "expected integer"},
		{Field: "body", Message: "expected object"},
		{Field: "body", Message: "plain"},
	}, apiErr.Errors)

	apiErr = newHumaError(http.StatusInternalServerError, "stack trace here").(*APIError)
	assert.Equal(t, "Server error", apiErr.Message)

	apiErr = newHumaError(http.StatusRequestEntityTooLarge, "request body is too large").(*APIError)
	assert.Equal(t, http.StatusRequestEntityTooLarge, apiErr.GetStatus())
	assert.Equal(t, "request body is too large", apiErr.Message)
	assert.Nil(t, apiErr.Errors)
}

func TestErrorChain(t *testing.T) {
	base := errors.New("disk full")
	wrapped := fmt.Errorf("create book: %w", base)

	chain := errorChain(wrapped)
	require.Len(t, chain, 2)
	assert.Contains(t, chain[0], "create book: disk full")
	assert.Equal(t, "*errors.errorString: disk full", chain[1])
}

func TestNormalizeError_LogLevel(t *testing.T) {
	var buf bytes.Buffer
	s := &Server{
		cfg:    Config{Environment: "production"},
		logger: logger.New(logger.Config{Level: slog.LevelInfo, Format: "json", Writer: &buf}),
	}
	ctx := context.WithValue(context.Background(), contextKeyRequestInfo, requestInfo{Method: "GET", Path: "/books"})

	apiErr := s.normalizeError(ctx, domainerrors.NotFound("Book not found"))
	assert.Nil(t, apiErr.Stack)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"path":"/books"`)

	buf.Reset()
	s.normalizeError(ctx, errors.New("boom"))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}

func TestParsePage(t *testing.T) {
	page, err := parsePage(dto.PageQuery{})
	require.NoError(t, err)
	assert.Equal(t, store.PageRequest{Page: 1, Limit: 10}, page)

	page, err = parsePage(dto.PageQuery{Page: " 3 ", Limit: "100"})
	require.NoError(t, err)
	assert.Equal(t, store.PageRequest{Page: 3, Limit: 100}, page)

	_, err = parsePage(dto.PageQuery{Page: "-1", Limit: "x"})
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, []validation.FieldError{
		{Field: "page", Message: "Page must be a positive integer"},
		{Field: "limit", Message: "Limit must be between 1 and 100"},
	}, domainErr.Details)
}

func TestParsePage_OffsetOverflow(t *testing.T) {
	maxPage := math.MaxInt / 10

	page, err := parsePage(dto.PageQuery{Page: strconv.Itoa(maxPage), Limit: "10"})
	require.NoError(t, err)
	assert.Equal(t, maxPage, page.Page)

	for _, raw := range []string{strconv.Itoa(maxPage + 1), strconv.Itoa(math.MaxInt)} {
		_, err = parsePage(dto.PageQuery{Page: raw, Limit: "10"})
		var domainErr *domainerrors.Error
		require.ErrorAs(t, err, &domainErr, raw)
		assert.Equal(t, []validation.FieldError{
			{Field: "page", Message: "Page must be a positive integer"},
		}, domainErr.Details)
	}
}
