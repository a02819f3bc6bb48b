package learner

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/at-ishikawa/langtutor/internal/config"
)

const tokenIssuer = "langtutor"

// TokenIssuer mints session tokens handed back on login.
// Tokens are opaque to the rest of the system and are not verified on later requests.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(cfg config.AuthConfig) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(cfg.TokenSecret),
		ttl:    cfg.TokenTTL,
	}
}

// Issue returns a signed token for username. Every call yields a distinct token.
func (issuer *TokenIssuer) Issue(username string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:   tokenIssuer,
		Subject:  username,
		ID:       uuid.NewString(),
		IssuedAt: jwt.NewNumericDate(now),
	}
	if issuer.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(issuer.ttl))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(issuer.secret)
	if err != nil {
		return "", fmt.Errorf("jwt.SignedString > %w", err)
	}
	return token, nil
}
