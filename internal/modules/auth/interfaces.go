package auth

import (
	"context"
	"time"

	"careboard/internal/domain"
)

// RVPRepository reads the regional vice president roster.
type RVPRepository interface {
	All(ctx context.Context) ([]domain.RVP, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	GenerateToken(email, role string, now time.Time) (string, time.Time, error)
}
