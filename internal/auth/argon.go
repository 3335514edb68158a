package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordLength bounds what reaches the KDF. /auth/register and
// /auth/login are public, so an unbounded body would be free CPU for anyone.
const maxPasswordLength = 1024

// argonParams are the tunable argon2id inputs recorded in every PHC string.
type argonParams struct {
	memory      uint32 // KiB
	iterations  uint32
	parallelism uint8
	saltLength  int
	keyLength   uint32
}

// currentParams is OWASP's 64 MiB / t=3 argon2id profile. Stored hashes keep
// their own parameters, so raising these only affects new hashes.
var currentParams = argonParams{
	memory:      64 * 1024,
	iterations:  3,
	parallelism: 4,
	saltLength:  16,
	keyLength:   32,
}

// phcHash is a decoded "$argon2id$v=19$m=..,t=..,p=..$salt$key" string.
type phcHash struct {
	params argonParams
	salt   []byte
	key    []byte
}

var b64 = base64.RawStdEncoding

func (h phcHash) String() string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.memory, h.params.iterations, h.params.parallelism,
		b64.EncodeToString(h.salt), b64.EncodeToString(h.key))
}

func derive(password string, salt []byte, p argonParams) []byte {
	return argon2.IDKey([]byte(password), salt, p.iterations, p.memory, p.parallelism, p.keyLength)
}

// HashPassword returns a salted argon2id PHC string for a user's password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	if len(password) > maxPasswordLength {
		return "", errors.New("password exceeds maximum length")
	}

	salt := make([]byte, currentParams.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	return phcHash{
		params: currentParams,
		salt:   salt,
		key:    derive(password, salt, currentParams),
	}.String(), nil
}

// VerifyPassword checks password against a stored hash. Accounts carried
// over from the Node backend still hold bcrypt hashes; those verify here and
// are swapped for argon2id by the login flow (see NeedsRehash).
//
// A stored hash that cannot be parsed counts as a mismatch, so login answers
// "Invalid credentials" rather than exposing a corrupt row.
func VerifyPassword(encodedHash, password string) (bool, error) {
	if len(password) > maxPasswordLength {
		return false, nil
	}

	if isBcryptHash(encodedHash) {
		err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		case err != nil:
			return false, fmt.Errorf("verify bcrypt hash: %w", err)
		}
		return true, nil
	}

	stored, err := parsePHC(encodedHash)
	if err != nil {
		return false, nil //nolint:nilerr // unparseable hash is a failed login
	}

	candidate := derive(password, stored.salt, stored.params)
	return subtle.ConstantTimeCompare(stored.key, candidate) == 1, nil
}

// NeedsRehash reports whether a stored hash is a legacy bcrypt hash.
func NeedsRehash(encodedHash string) bool {
	return isBcryptHash(encodedHash)
}

func isBcryptHash(encodedHash string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(encodedHash, prefix) {
			return true
		}
	}
	return false
}

// parsePHC decodes an argon2id PHC string produced by HashPassword.
func parsePHC(encoded string) (*phcHash, error) {
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" {
		return nil, errors.New("invalid hash format")
	}
	if fields[1] != "argon2id" {
		return nil, fmt.Errorf("unsupported algorithm: %s", fields[1])
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil {
		return nil, fmt.Errorf("invalid version: %w", err)
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("incompatible version: %d", version)
	}

	h := &phcHash{}
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d",
		&h.params.memory, &h.params.iterations, &h.params.parallelism); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	var err error
	if h.salt, err = b64.DecodeString(fields[4]); err != nil {
		return nil, fmt.Errorf("invalid salt encoding: %w", err)
	}
	if h.key, err = b64.DecodeString(fields[5]); err != nil {
		return nil, fmt.Errorf("invalid key encoding: %w", err)
	}
	if len(h.key) == 0 {
		return nil, errors.New("empty key")
	}
	h.params.saltLength = len(h.salt)
	h.params.keyLength = uint32(len(h.key)) //nolint:gosec // decoded from a short base64 field
	return h, nil
}
