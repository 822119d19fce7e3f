package driven

import "github.com/clinicode-labs/clinicode-core/internal/core/domain"

// AuthAdapter handles credential hashing and token signing.
type AuthAdapter interface {
	// HashAPIKey generates a bcrypt hash from a plaintext API key.
	HashAPIKey(key string) (string, error)

	// VerifyAPIKey checks a plaintext API key against a bcrypt hash.
	VerifyAPIKey(key, hash string) bool

	// GenerateToken creates a signed JWT from domain claims.
	GenerateToken(claims *domain.TokenClaims) (string, error)

	// ParseToken validates a JWT and extracts domain claims.
	ParseToken(token string) (*domain.TokenClaims, error)
}
