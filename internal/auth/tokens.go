package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/shelfwise/shelfwise-server/internal/domain"
	"github.com/shelfwise/shelfwise-server/internal/id"
)

const (
	tokenIssuer   = "shelfwise-server"
	tokenAudience = "shelfwise-client"
)

// ErrInvalidToken is returned for any token that fails decryption, expiry,
// audience or issuer checks. Callers should not distinguish the cases.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService handles PASETO token generation and verification.
type TokenService struct {
	symmetricKey paseto.V4SymmetricKey
	ttl          time.Duration
	now          func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the clock used for issuing and verifying tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a token service from a 32-byte key.
func NewTokenService(key []byte, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d bytes, got %d", keyLength, len(key))
	}
	if ttl <= 0 {
		return nil, errors.New("token TTL must be positive")
	}

	symmetricKey, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	s := &TokenService{
		symmetricKey: symmetricKey,
		ttl:          ttl,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TokenServiceFromSecret derives the key from secret with KeyFromSecret.
func TokenServiceFromSecret(secret string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	key, err := KeyFromSecret(secret)
	if err != nil {
		return nil, err
	}
	return NewTokenService(key, ttl, opts...)
}

// Issue creates a PASETO v4.local access token for the user.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := s.now()

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(user.ID)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.ttl))

	tokenID, err := id.Generate(id.PrefixToken)
	if err != nil {
		return "", fmt.Errorf("generate token ID: %w", err)
	}
	token.SetJti(tokenID)

	if err := token.Set("user_id", user.ID); err != nil {
		return "", fmt.Errorf("set user_id claim: %w", err)
	}
	if err := token.Set("role", string(user.Role)); err != nil {
		return "", fmt.Errorf("set role claim: %w", err)
	}

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// Verify decrypts and validates a token. Every failure wraps ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*AccessClaims, error) {
	now := s.now()

	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ValidAt(now))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	var claims AccessClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("%w: parse claims: %w", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}

	return &claims, nil
}

// TTL returns the configured access token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
