package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService abstracts session token issuance. The resolved account is
// handed to this collaborator after authentication; everything beyond signing
// and validating tokens is outside this core.
type TokenService interface {
	// GenerateAccessToken signs a short-lived access token for the account.
	GenerateAccessToken(accountID uuid.UUID, provider string) (string, error)

	// ValidateToken checks a token string against the access secret.
	ValidateToken(tokenString string) (*jwt.Token, error)

	// GetAccessTokenDuration returns the configured access token lifetime.
	GetAccessTokenDuration() time.Duration
}
