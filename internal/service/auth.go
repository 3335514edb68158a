// Package service holds the business rules behind the HTTP handlers: accounts,
// the book catalogue and reviews. Handlers stay thin and services return domain errors.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shelfwise/shelfwise-server/internal/auth"
	"github.com/shelfwise/shelfwise-server/internal/domain"
	domainerrors "github.com/shelfwise/shelfwise-server/internal/errors"
	"github.com/shelfwise/shelfwise-server/internal/id"
	"github.com/shelfwise/shelfwise-server/internal/logger"
	"github.com/shelfwise/shelfwise-server/internal/store"
	"github.com/shelfwise/shelfwise-server/internal/validation"
)

// AuthService handles registration, login and token resolution.
type AuthService struct {
	store     store.Store
	tokens    *auth.TokenService
	validator *validation.Validator
	logger    *logger.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Store,
	tokens *auth.TokenService,
	validator *validation.Validator,
	logger *logger.Logger,
) *AuthService {
	return &AuthService{
		store:     store,
		tokens:    tokens,
		validator: validator,
		logger:    logger,
	}
}

// RegisterRequest contains the data for open registration.
type RegisterRequest struct {
	Name     string `json:"name,omitempty" validate:"min=3,max=100" msg:"Name must be at least 3 characters" sanitize:"trim,escape" doc:"Display name"`
	Email    string `json:"email,omitempty" validate:"email,max=254" msg:"Please provide a valid email" sanitize:"email" doc:"Email address"`
	Password string `json:"password,omitempty" validate:"min=6,max=1024" msg:"Password must be at least 6 characters" doc:"Password"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email,omitempty" validate:"email" msg:"Please provide a valid email" sanitize:"email" doc:"Email address"`
	Password string `json:"password,omitempty" validate:"required" msg:"Password is required" doc:"Password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  *domain.User
	Token string
}

// Register creates a user with the default role and issues a token.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := s.validator.Prepare(&req); err != nil {
		return nil, err
	}

	// Fast path for the common case; users_email_key still catches a concurrent signup.
	_, err := s.store.GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, domainerrors.AlreadyExists(domainerrors.MsgUserExists)
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		ID:           userID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         domain.RoleUser,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return &AuthResponse{User: user, Token: token}, nil
}

// Login verifies credentials. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Prepare(&req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.InvalidCredentials(domainerrors.MsgInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials(domainerrors.MsgInvalidCredentials)
	}

	if auth.NeedsRehash(user.PasswordHash) {
		s.upgradeHash(ctx, user, req.Password)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AuthResponse{User: user, Token: token}, nil
}

// upgradeHash replaces a legacy bcrypt hash after a successful login.
// Failure only means the upgrade is retried on the next login.
func (s *AuthService) upgradeHash(ctx context.Context, user *domain.User, password string) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.WithError(err).Warn("failed to rehash password", "user_id", user.ID)
		return
	}
	if err := s.store.UpdateUserPasswordHash(ctx, user.ID, hash); err != nil {
		s.logger.WithError(err).Warn("failed to store upgraded password hash", "user_id", user.ID)
		return
	}
	user.PasswordHash = hash
	s.logger.Info("upgraded legacy password hash", "user_id", user.ID)
}

// UserFromToken verifies an access token and loads its user fresh from the store.
func (s *AuthService) UserFromToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domainerrors.Unauthorized(domainerrors.MsgInvalidToken).WithCause(err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.Unauthorized(domainerrors.MsgUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
