package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/shelfwise-server/internal/auth"
	"github.com/shelfwise/shelfwise-server/internal/domain"
)

func TestRegister(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/auth/register", map[string]any{
		"name":     "  Jane Reader ",
		"email":    "Jane@Example.COM",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	body := decode(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User registered successfully", body["message"])

	data := body["data"].(map[string]any)
	user := data["user"].(map[string]any)
	assert.Equal(t, "Jane Reader", user["name"])
	assert.Equal(t, "jane@example.com", user["email"])
	assert.Equal(t, "user", user["role"])
	assert.NotEmpty(t, user["id"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")
	assert.NotEmpty(t, data["token"])
}

func TestRegister_EscapesName(t *testing.T) {
	ts := setupTestServer(t)

	user, _ := ts.registerUser(t, "<b>Bold</b>", "bold@example.com")
	assert.Equal(t, "&lt;b&gt;Bold&lt;&#x2F;b&gt;", user["name"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "First User", "dup@example.com")

	resp := ts.api.Post("/auth/register", map[string]any{
		"name":     "Second User",
		"email":    "DUP@example.com",
		"password": "secret123",
	})
	assertFailure(t, resp, http.StatusConflict, "User with this email already exists")
}

func TestRegister_Validation(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/auth/register", map[string]any{
		"name":     "Jo",
		"email":    "not-an-email",
		"password": "123",
	})
	body := assertFailure(t, resp, http.StatusBadRequest, "Validation failed")
	assert.Equal(t, map[string]string{
		"name":     "Name must be at least 3 characters",
		"email":    "Please provide a valid email",
		"password": "Password must be at least 6 characters",
	}, fieldMessages(t, body))
}

func TestRegister_MalformedBody(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/auth/register", map[string]any{
		"name":     "Jane Reader",
		"email":    "jane@example.com",
		"password": 123456,
	})
	body := assertFailure(t, resp, http.StatusBadRequest, "Validation failed")
	assert.Contains(t, fieldMessages(t, body), "password")
}

func TestLogin(t *testing.T) {
	ts := setupTestServer(t)
	registered, _ := ts.registerUser(t, "Jane Reader", "jane@example.com")

	resp := ts.api.Post("/auth/login", map[string]any{
		"email":    " JANE@example.com ",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decode(t, resp)
	assert.Equal(t, "Login successful", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, registered["id"], data["user"].(map[string]any)["id"])

	me := ts.api.Get("/users/me", bearer(data["token"].(string)))
	assert.Equal(t, http.StatusOK, me.Code)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "Jane Reader", "jane@example.com")

	tests := []struct {
		name  string
		email string
	}{
		{"wrong password", "jane@example.com"},
		{"unknown email", "ghost@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/auth/login", map[string]any{
				"email":    tt.email,
				"password": "wrong-password",
			})
			assertFailure(t, resp, http.StatusBadRequest, "Invalid credentials")
		})
	}
}

func TestLogin_Validation(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/auth/login", map[string]any{"email": "nope"})
	body := assertFailure(t, resp, http.StatusBadRequest, "Validation failed")
	assert.Equal(t, map[string]string{
		"email":    "Please provide a valid email",
		"password": "Password is required",
	}, fieldMessages(t, body))
}

func TestMe(t *testing.T) {
	ts := setupTestServer(t)
	user, token := ts.registerUser(t, "Jane Reader", "jane@example.com")

	resp := ts.api.Get("/users/me", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decode(t, resp)
	assert.Equal(t, "User retrieved successfully", body["message"])
	assert.Equal(t, map[string]any{"user": user}, body["data"])
}

func TestMe_Unauthenticated(t *testing.T) {
	ts := setupTestServer(t)

	expired, err := auth.TokenServiceFromSecret(testSecret, time.Hour,
		auth.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }))
	require.NoError(t, err)

	user, _ := ts.registerUser(t, "Jane Reader", "jane@example.com")
	expiredToken, err := expired.Issue(&domain.User{
		ID:    user["id"].(string),
		Email: "jane@example.com",
		Role:  domain.RoleUser,
	})
	require.NoError(t, err)

	orphanToken, err := ts.tokens.Issue(&domain.User{ID: "usr_deleted", Email: "gone@example.com", Role: domain.RoleUser})
	require.NoError(t, err)

	tests := []struct {
		name    string
		headers []any
		message string
	}{
		{"no header", nil, "Access token required"},
		{"wrong scheme", []any{"Authorization: Basic dXNlcjpwYXNz"}, "Access token required"},
		{"empty bearer", []any{"Authorization: Bearer "}, "Access token required"},
		{"garbage token", []any{bearer("not-a-token")}, "Invalid token"},
		{"expired token", []any{bearer(expiredToken)}, "Invalid token"},
		{"user no longer exists", []any{bearer(orphanToken)}, "User not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get("/users/me", tt.headers...)
			assertFailure(t, resp, http.StatusUnauthorized, tt.message)
		})
	}
}
