package api

import (
	"math"
	"strconv"
	"strings"

	"github.com/shelfwise/shelfwise-server/internal/api/dto"
	"github.com/shelfwise/shelfwise-server/internal/domain"
	domainerrors "github.com/shelfwise/shelfwise-server/internal/errors"
	"github.com/shelfwise/shelfwise-server/internal/store"
	"github.com/shelfwise/shelfwise-server/internal/validation"
)

// parsePage reads page and limit. Absent values take the defaults; present
// ones must be in range.
func parsePage(q dto.PageQuery) (store.PageRequest, error) {
	req := store.PageRequest{Page: 1, Limit: store.DefaultPageSize}
	var fieldErrs []validation.FieldError

	if raw := strings.TrimSpace(q.Page); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			fieldErrs = append(fieldErrs, validation.FieldError{Field: "page", Message: msgPageInvalid})
		} else {
			req.Page = page
		}
	}

	if raw := strings.TrimSpace(q.Limit); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > store.MaxPageSize {
			fieldErrs = append(fieldErrs, validation.FieldError{Field: "limit", Message: msgLimitOutOfRange})
		} else {
			req.Limit = limit
		}
	}

	// The end of the requested window, page*limit, has to fit in an int.
	if len(fieldErrs) == 0 && req.Page > math.MaxInt/req.Limit {
		fieldErrs = append(fieldErrs, validation.FieldError{Field: "page", Message: msgPageInvalid})
	}

	if len(fieldErrs) > 0 {
		return req, domainerrors.ValidationWithDetails(domainerrors.MsgValidationFailed, fieldErrs)
	}
	return req, nil
}

func newBookListData(page *store.Page[*domain.BookWithStats]) dto.BookListData {
	books := page.Items
	if books == nil {
		books = []*domain.BookWithStats{}
	}
	return dto.BookListData{
		Books: books,
		Pagination: dto.BookPagination{
			CurrentPage:  page.Page,
			TotalPages:   page.TotalPages(),
			TotalBooks:   page.Total,
			BooksPerPage: page.Limit,
		},
	}
}

func newReviewListData(page *store.Page[*domain.ReviewWithReviewer]) dto.ReviewListData {
	reviews := page.Items
	if reviews == nil {
		reviews = []*domain.ReviewWithReviewer{}
	}
	return dto.ReviewListData{
		Reviews: reviews,
		Pagination: dto.ReviewPagination{
			CurrentPage:    page.Page,
			TotalPages:     page.TotalPages(),
			TotalReviews:   page.Total,
			ReviewsPerPage: page.Limit,
		},
	}
}
