package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"kova-store/internal/domain"
	"kova-store/internal/repository"
)

// ErrUnauthorized is returned for any bearer token that does not resolve to a user.
var ErrUnauthorized = errors.New("unauthorized")

// AccessGuard resolves bearer tokens to users. It performs no role checks.
type AccessGuard struct {
	users  repository.UserRepository
	tokens *JWTService
}

func NewAccessGuard(users repository.UserRepository, tokens *JWTService) *AccessGuard {
	return &AccessGuard{users: users, tokens: tokens}
}

func (g *AccessGuard) Authenticate(ctx context.Context, token string) (domain.User, error) {
	subject, err := g.tokens.Decode(token)
	if err != nil {
		return domain.User{}, ErrUnauthorized
	}
	user, err := g.users.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUnauthorized
		}
		return domain.User{}, err
	}
	return user, nil
}
