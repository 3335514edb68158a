package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfwise/shelfwise-server/internal/auth"
	domainerrors "github.com/shelfwise/shelfwise-server/internal/errors"
	"github.com/shelfwise/shelfwise-server/internal/store"
	"github.com/shelfwise/shelfwise-server/internal/validation"
)

// APIError is the failure envelope. It implements huma.StatusError so huma
// writes it as the response body.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Success bool     `json:"success" doc:"Always false for errors"`
	Message string   `json:"message" doc:"Human-readable error message"`
	Errors  any      `json:"errors,omitempty" doc:"Per-field validation failures"`
	Stack   []string `json:"stack,omitempty" doc:"Error chain, outside production only"`

	cause    error // what huma reported, for errors huma builds itself
	reported bool  // logged and stack attached
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

func newAPIError(status int, message string) *APIError {
	return &APIError{status: status, Message: message}
}

var registerErrorHandlerOnce sync.Once

// RegisterErrorHandler makes huma's own errors (decode failures, schema
// violations) use the failure envelope. Schema violations become the same
// 400 "Validation failed" that handler-side validation produces.
func RegisterErrorHandler() {
	registerErrorHandlerOnce.Do(func() {
		huma.NewError = newHumaError
	})
}

func newHumaError(status int, message string, errs ...error) huma.StatusError {
	var apiErr *APIError
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		apiErr = newAPIError(http.StatusBadRequest, domainerrors.MsgValidationFailed)
		if details := humaFieldErrors(errs); len(details) > 0 {
			apiErr.Errors = details
		}
	case status >= http.StatusInternalServerError:
		apiErr = newAPIError(status, domainerrors.MsgServerError)
	default:
		apiErr = newAPIError(status, message)
	}
	apiErr.cause = humaCause(message, errs)
	return apiErr
}

// humaCause keeps huma's own message and details for logging and the stack.
func humaCause(message string, errs []error) error {
	cause := errors.New(message)
	for _, err := range errs {
		if err != nil {
			cause = fmt.Errorf("%w; %w", cause, err)
		}
	}
	return cause
}

// reportHumaErrors is a huma transformer. Errors that huma raised on its own
// (body decoding, schema checks) never pass through handle, so they get
// logged and their stack attached here.
func (s *Server) reportHumaErrors(ctx huma.Context, _ string, v any) (any, error) {
	apiErr, ok := v.(*APIError)
	if !ok || apiErr.reported {
		return v, nil
	}
	cause := apiErr.cause
	if cause == nil {
		cause = apiErr
	}
	s.report(ctx.Context(), apiErr, cause)
	return apiErr, nil
}

// humaFieldErrors converts huma error details such as {location: "body.email"}
// into field errors keyed by the bare field name.
func humaFieldErrors(errs []error) []validation.FieldError {
	out := make([]validation.FieldError, 0, len(errs))
	for _, err := range errs {
		if err == nil {
			continue
		}
		var detailer huma.ErrorDetailer
		if !errors.As(err, &detailer) {
			out = append(out, validation.FieldError{Field: "body", Message: err.Error()})
			continue
		}
		detail := detailer.ErrorDetail()
		field := detail.Location
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		out = append(out, validation.FieldError{Field: field, Message: detail.Message})
	}
	return out
}

// normalizeError is the single place errors become responses. It classifies
// err, attaches the chain outside production and logs it.
func (s *Server) normalizeError(ctx context.Context, err error) *APIError {
	apiErr := classifyError(err)
	s.report(ctx, apiErr, err)
	return apiErr
}

func (s *Server) report(ctx context.Context, apiErr *APIError, err error) {
	if !s.cfg.production() {
		apiErr.Stack = errorChain(err)
	}
	s.logError(ctx, apiErr, err)
	apiErr.reported = true
}

//nolint:gocyclo // One case per error family keeps the mapping in one place.
func classifyError(err error) *APIError {
	var (
		apiErr    *APIError
		domainErr *domainerrors.Error
		storeErr  *store.Error
		statusErr huma.StatusError
	)

	switch {
	case errors.As(err, &apiErr):
		return &APIError{status: apiErr.status, Message: apiErr.Message, Errors: apiErr.Errors}

	case errors.As(err, &domainErr):
		status := domainErr.HTTPStatus()
		if status == http.StatusInternalServerError {
			return newAPIError(status, domainerrors.MsgServerError)
		}
		out := newAPIError(status, domainErr.Message)
		out.Errors = domainErr.Details
		return out

	case errors.As(err, &storeErr):
		switch storeErr.Kind {
		case store.KindUniqueViolation:
			return newAPIError(http.StatusConflict, uniqueViolationMessage(storeErr.Constraint))
		case store.KindForeignKeyViolation:
			return newAPIError(http.StatusBadRequest, domainerrors.MsgReferenceMissing)
		case store.KindNotNullViolation:
			return newAPIError(http.StatusBadRequest, domainerrors.MsgRequiredMissing)
		case store.KindNotFound:
			return newAPIError(http.StatusNotFound, storeErr.Message)
		}

	case errors.Is(err, auth.ErrInvalidToken):
		return newAPIError(http.StatusUnauthorized, domainerrors.MsgInvalidToken)

	case errors.As(err, &statusErr):
		if statusErr.GetStatus() >= http.StatusInternalServerError {
			return newAPIError(statusErr.GetStatus(), domainerrors.MsgServerError)
		}
		return newAPIError(statusErr.GetStatus(), statusErr.Error())
	}

	return newAPIError(http.StatusInternalServerError, domainerrors.MsgServerError)
}

func uniqueViolationMessage(constraint string) string {
	switch constraint {
	case store.ConstraintUserEmail:
		return domainerrors.MsgUserExists
	case store.ConstraintBookCombo:
		return domainerrors.MsgBookExists
	case store.ConstraintUserReview:
		return domainerrors.MsgReviewExists
	default:
		return domainerrors.MsgResourceExists
	}
}

// errorChain lists err and every error it wraps, outermost first.
func errorChain(err error) []string {
	var chain []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		chain = append(chain, fmt.Sprintf("%T: %s", e, e.Error()))
	}
	return chain
}

func (s *Server) logError(ctx context.Context, apiErr *APIError, err error) {
	info := requestInfoFrom(ctx)
	args := []any{
		"status", apiErr.status,
		"method", info.Method,
		"path", info.Path,
		"request_id", requestID(ctx),
		"error", err.Error(),
	}
	if user := userFromContext(ctx); user != nil {
		args = append(args, "user_id", user.ID)
	}

	if apiErr.status >= http.StatusInternalServerError {
		s.logger.Error("request failed", args...)
		return
	}
	s.logger.Warn("request rejected", args...)
}

// handle funnels every handler error through normalizeError.
func handle[I, O any](s *Server, fn func(context.Context, *I) (*O, error)) func(context.Context, *I) (*O, error) {
	return func(ctx context.Context, input *I) (*O, error) {
		out, err := fn(ctx, input)
		if err != nil {
			return nil, s.normalizeError(ctx, err)
		}
		return out, nil
	}
}
