package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
	"github.com/clinicode-labs/clinicode-core/internal/core/ports/driven"
	"github.com/clinicode-labs/clinicode-core/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

type authService struct {
	adapter    driven.AuthAdapter
	apiKeyHash string
	tokenTTL   time.Duration
}

// NewAuthService creates an AuthService verifying clients against a
// single bcrypt-hashed API key. An empty hash disables token issuance.
func NewAuthService(adapter driven.AuthAdapter, apiKeyHash string, tokenTTL time.Duration) driving.AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{
		adapter:    adapter,
		apiKeyHash: apiKeyHash,
		tokenTTL:   tokenTTL,
	}
}

// IssueToken exchanges a valid API key for a signed token.
func (s *authService) IssueToken(_ context.Context, clientID, apiKey string) (string, error) {
	if s.apiKeyHash == "" {
		return "", fmt.Errorf("%w: no API key configured", domain.ErrUnauthorized)
	}
	if clientID == "" {
		return "", fmt.Errorf("%w: missing client id", domain.ErrInvalidInput)
	}
	if !s.adapter.VerifyAPIKey(apiKey, s.apiKeyHash) {
		return "", domain.ErrUnauthorized
	}

	now := time.Now()
	return s.adapter.GenerateToken(&domain.TokenClaims{
		ClientID:  clientID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.tokenTTL).Unix(),
	})
}

// ValidateToken parses a token and maps JWT failures onto domain errors.
func (s *authService) ValidateToken(_ context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := s.adapter.ParseToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
