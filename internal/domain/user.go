// Package domain contains the core entities of the Shelfwise book-review service.
package domain

import "time"

// Role represents the user's permission level.
type Role string

const (
	// RoleUser can read books and write reviews.
	RoleUser Role = "user"
	// RoleAdmin can additionally create, update and delete books.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a registered account. Users are created at registration and never
// modified through the API.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin returns true if the user may manage books.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
