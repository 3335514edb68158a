package dto

import (
	"github.com/shelfwise/shelfwise-server/internal/domain"
	"github.com/shelfwise/shelfwise-server/internal/service"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	ID    string      `json:"id" doc:"User ID"`
	Name  string      `json:"name" doc:"Display name"`
	Email string      `json:"email" doc:"Email address"`
	Role  domain.Role `json:"role" enum:"user,admin" doc:"Permission level"`
}

// NewUserResponse converts a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// RegisterInput wraps the register request for huma.
type RegisterInput struct {
	Body service.RegisterRequest
}

// LoginInput wraps the login request for huma.
type LoginInput struct {
	Body service.LoginRequest
}

// AuthData is returned by register and login.
type AuthData struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token" doc:"PASETO access token for the Authorization header"`
}

// MeData wraps the current user.
type MeData struct {
	User UserResponse `json:"user"`
}
