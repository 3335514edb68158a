package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfwise/shelfwise-server/internal/api/dto"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/auth/register",
		Summary:       "Register",
		Description:   "Creates a user account and returns an access token",
		Tags:          []string{tagAuth},
		DefaultStatus: http.StatusCreated,
	}, handle(s, s.handleRegister))

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Login",
		Description: "Authenticates with email and password and returns an access token",
		Tags:        []string{tagAuth},
	}, handle(s, s.handleLogin))
}

func (s *Server) handleRegister(ctx context.Context, input *dto.RegisterInput) (*dto.Output[dto.AuthData], error) {
	resp, err := s.services.Auth.Register(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return dto.OK(msgUserRegistered, dto.AuthData{
		User:  dto.NewUserResponse(resp.User),
		Token: resp.Token,
	}), nil
}

func (s *Server) handleLogin(ctx context.Context, input *dto.LoginInput) (*dto.Output[dto.AuthData], error) {
	resp, err := s.services.Auth.Login(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return dto.OK(msgLoginSuccessful, dto.AuthData{
		User:  dto.NewUserResponse(resp.User),
		Token: resp.Token,
	}), nil
}
