package auth

import (
	"context"
	"time"

	"careboard/internal/pkg/jwt"
	"careboard/internal/pkg/validator"
)

type Service struct {
	directory *Directory
	tokens    TokenIssuer
}

func NewService(directory *Directory, tokens TokenIssuer) *Service {
	return &Service{directory: directory, tokens: tokens}
}

// Login opens a dashboard session for email. There is no password check;
// the caller is expected to sit behind the company SSO proxy.
func (s *Service) Login(ctx context.Context, email string, now time.Time) (*SessionResponse, error) {
	email = NormalizeEmail(email)
	if !validator.Var(email, "required,email") {
		return nil, ErrInvalidEmail
	}

	role := jwt.RoleUser
	isRVP, err := s.directory.IsRVP(ctx, email)
	if err != nil {
		return nil, err
	}
	if isRVP {
		role = jwt.RoleRVP
	}

	token, expires, err := s.tokens.GenerateToken(email, role, now)
	if err != nil {
		return nil, err
	}
	return &SessionResponse{Token: token, ExpiresAt: expires, Email: email, Role: role}, nil
}
