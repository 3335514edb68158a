package api

import (
	"context"
	"encoding/json"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfwise/shelfwise-server/internal/auth"
	"github.com/shelfwise/shelfwise-server/internal/domain"
	domainerrors "github.com/shelfwise/shelfwise-server/internal/errors"
)

const contextKeyUser contextKey = "user"

// bearerSecurity marks an operation as requiring a token in the OpenAPI document.
var bearerSecurity = []map[string][]string{{"bearer": {}}}

func userFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(contextKeyUser).(*domain.User)
	return user
}

// CurrentUser returns the authenticated user, or a 401 if the operation ran
// without the authenticate middleware.
func CurrentUser(ctx context.Context) (*domain.User, error) {
	user := userFromContext(ctx)
	if user == nil {
		return nil, domainerrors.Unauthorized(domainerrors.MsgAccessTokenRequired)
	}
	return user, nil
}

// authenticate resolves the bearer token to a user and stores it in the context.
func (s *Server) authenticate(ctx huma.Context, next func(huma.Context)) {
	token, ok := auth.ExtractBearer(ctx.Header("Authorization"))
	if !ok {
		s.writeError(ctx, domainerrors.Unauthorized(domainerrors.MsgAccessTokenRequired))
		return
	}

	user, err := s.services.Auth.UserFromToken(ctx.Context(), token)
	if err != nil {
		s.writeError(ctx, err)
		return
	}

	next(huma.WithValue(ctx, contextKeyUser, user))
}

// requireAdmin must run after authenticate.
func (s *Server) requireAdmin(ctx huma.Context, next func(huma.Context)) {
	user := userFromContext(ctx.Context())
	if user == nil {
		s.writeError(ctx, domainerrors.Unauthorized(domainerrors.MsgAccessTokenRequired))
		return
	}
	if !user.IsAdmin() {
		s.writeError(ctx, domainerrors.Forbidden(domainerrors.MsgAdminRequired))
		return
	}
	next(ctx)
}

// writeError renders err from inside a huma middleware, where returning an
// error is not an option.
func (s *Server) writeError(ctx huma.Context, err error) {
	apiErr := s.normalizeError(ctx.Context(), err)
	ctx.SetHeader("Content-Type", "application/json; charset=utf-8")
	ctx.SetStatus(apiErr.GetStatus())
	if encErr := json.NewEncoder(ctx.BodyWriter()).Encode(apiErr); encErr != nil {
		s.logger.Error("failed to encode error response", "error", encErr)
	}
}
