package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shelfwise/shelfwise-server/internal/domain"
	"github.com/shelfwise/shelfwise-server/internal/store"
)

// userColumns must match the scan order in scanUser.
const userColumns = `id, name, email, password_hash, role, created_at`

func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		u         domain.User
		role      string
		createdAt dbTime
	)
	if err := scanner.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &createdAt); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	u.CreatedAt = createdAt.Time
	return &u, nil
}

// CreateUser inserts a user. A taken email surfaces as a unique violation on users_email_key.
// CreatedAt is filled in when zero.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now()
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	_, err := s.exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash, string(user.Role), formatTime(user.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(s.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail looks up a user by email. Emails are stored normalized, so the match is exact.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(s.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// UpdateUserPasswordHash replaces a user's stored hash, used when upgrading legacy bcrypt hashes.
func (s *Store) UpdateUserPasswordHash(ctx context.Context, id, hash string) error {
	res, err := s.exec(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	return requireAffected(res, "user not found")
}

// SetUserRole changes a user's role.
func (s *Store) SetUserRole(ctx context.Context, id string, role domain.Role) error {
	res, err := s.exec(ctx, `UPDATE users SET role = ? WHERE id = ?`, string(role), id)
	if err != nil {
		return fmt.Errorf("set user role: %w", err)
	}
	return requireAffected(res, "user not found")
}
