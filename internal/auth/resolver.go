// Package auth turns a bearer credential into a verified athlete id.
package auth

import (
	"context"
	"errors"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

var _ Resolver = (*RedisResolver)(nil)
var _ Resolver = (*JWTResolver)(nil)

type Resolver interface {
	// ResolveUser returns ErrUnauthorized (possibly wrapped) for an unknown,
	// expired or malformed credential. Any other error is an infrastructure failure.
	ResolveUser(ctx context.Context, credential string) (string, error)
}

type userIDKey struct{}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the id put there by the auth middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey{}).(string)
	return userID, ok && userID != ""
}
