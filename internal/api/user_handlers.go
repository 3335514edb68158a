package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfwise/shelfwise-server/internal/api/dto"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/users/me",
		Summary:     "Get current user",
		Description: "Returns the account the access token belongs to",
		Tags:        []string{tagUsers},
		Security:    bearerSecurity,
		Middlewares: huma.Middlewares{s.authenticate},
	}, handle(s, s.handleGetCurrentUser))
}

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*dto.Output[dto.MeData], error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return dto.OK(msgUserRetrieved, dto.MeData{User: dto.NewUserResponse(user)}), nil
}
