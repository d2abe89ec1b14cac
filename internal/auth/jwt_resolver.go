package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTResolver accepts HS256 tokens carrying the athlete id in the sub claim.
// An exp claim is required.
type JWTResolver struct {
	secret []byte
	// ability to inject the clock (for unit testing)
	Now func() time.Time
}

func NewJWTResolver(secret string) (*JWTResolver, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTResolver{
		secret: []byte(secret),
		Now:    time.Now,
	}, nil
}

func (r *JWTResolver) ResolveUser(_ context.Context, credential string) (string, error) {
	if credential == "" {
		return "", ErrUnauthorized
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(credential, &claims, func(token *jwt.Token) (any, error) {
		return r.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(r.Now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrUnauthorized)
	}
	return claims.Subject, nil
}

// Sign issues a token for userID valid for ttl, the counterpart of ResolveUser.
func (r *JWTResolver) Sign(userID string, ttl time.Duration) (string, error) {
	now := r.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(r.secret)
}
