package domain

// TokenClaims carries the identity embedded in an access token.
type TokenClaims struct {
	ClientID  string `json:"client_id"`
	IssuedAt  int64  `json:"issued_at"`
	ExpiresAt int64  `json:"expires_at"`
}
