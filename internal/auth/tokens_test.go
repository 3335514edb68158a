package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/shelfwise-server/internal/domain"
)

func newTestTokenService(t *testing.T, opts ...TokenOption) *TokenService {
	t.Helper()
	svc, err := TokenServiceFromSecret("test-secret", time.Hour, opts...)
	require.NoError(t, err)
	return svc
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := newTestTokenService(t)
	user := &domain.User{ID: "user-abc", Role: domain.RoleAdmin}

	token, err := svc.Issue(user)
	require.NoError(t, err)
	assert.True(t, len(token) > len("v4.local."))
	assert.Equal(t, "v4.local.", token[:9])

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-abc", claims.UserID)
	assert.Equal(t, "user-abc", claims.Subject)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, tokenIssuer, claims.Issuer)
	assert.NotEmpty(t, claims.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.Expiration, 5*time.Second)
}

func TestTokenService_Expired(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	past := newTestTokenService(t, WithClock(func() time.Time { return issuedAt }))
	token, err := past.Issue(&domain.User{ID: "user-abc", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = newTestTokenService(t).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongKey(t *testing.T) {
	token, err := newTestTokenService(t).Issue(&domain.User{ID: "user-abc"})
	require.NoError(t, err)

	other, err := TokenServiceFromSecret("another-secret", time.Hour)
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Garbage(t *testing.T) {
	svc := newTestTokenService(t)
	for _, token := range []string{"", "not-a-token", "v4.local.AAAA", "v4.public.abc"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, token)
	}
}

func TestNewTokenService_Validation(t *testing.T) {
	_, err := NewTokenService(make([]byte, 16), time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(make([]byte, 32), 0)
	assert.Error(t, err)

	_, err = TokenServiceFromSecret("", time.Hour)
	assert.Error(t, err)
}

func TestKeyFromSecret_Deterministic(t *testing.T) {
	a, err := KeyFromSecret("shelfwise")
	require.NoError(t, err)
	b, err := KeyFromSecret("shelfwise")
	require.NoError(t, err)
	c, err := KeyFromSecret("shelfwise2")
	require.NoError(t, err)

	assert.Len(t, a, keyLength)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	first, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, first, keyLength)

	info, err := os.Stat(filepath.Join(dir, keyFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoadOrGenerateKey_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, keyFileName), []byte("short"), 0o600))

	_, err := LoadOrGenerateKey(dir)
	assert.ErrorContains(t, err, "invalid auth key length")
}
