package driving

import (
	"context"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
)

// AuthService issues and validates API access tokens.
type AuthService interface {
	// IssueToken exchanges a client id and API key for a signed token.
	IssueToken(ctx context.Context, clientID, apiKey string) (string, error)

	// ValidateToken parses and validates a token.
	ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error)
}
