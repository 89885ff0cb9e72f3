package auth

import (
	"context"
	"fmt"
)

// Guard resolves bearer tokens to active user accounts.
//
// It is a pure function of (token, current credential-store state): no
// side effects, no caching. Every protected API request passes through
// Authenticate before touching sensor data.
type Guard struct {
	users  UserRepository
	secret string
}

// NewGuard creates a Guard backed by the given user repository.
func NewGuard(users UserRepository, secret string) *Guard {
	return &Guard{users: users, secret: secret}
}

// Authenticate validates a bearer token and resolves it to an active user.
//
// Failure modes:
//   - ErrTokenInvalid / ErrTokenExpired: signature, structure, or expiry
//   - ErrUserNotFound: token subject no longer exists
//   - ErrUserInactive: account has been deactivated
//
// Callers should surface all of these uniformly as "unauthorised" so the
// response does not leak which check failed.
func (g *Guard) Authenticate(ctx context.Context, token string) (*User, error) {
	claims, err := ParseToken(token, g.secret)
	if err != nil {
		return nil, err
	}

	user, err := g.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrUserInactive, user.Username)
	}

	return user, nil
}

// Login verifies a username/password pair and issues a bearer token.
//
// Lookup failure and password mismatch both collapse to
// ErrInvalidCredentials so callers cannot enumerate usernames.
func (g *Guard) Login(ctx context.Context, username, password string, ttlMinutes int) (string, error) {
	user, err := g.users.GetByUsername(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", ErrInvalidCredentials
	}

	token, err := IssueToken(user.Username, g.secret, ttlMinutes)
	if err != nil {
		return "", fmt.Errorf("issuing token: %w", err)
	}
	return token, nil
}
