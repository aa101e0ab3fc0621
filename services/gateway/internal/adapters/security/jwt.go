package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/homeroot/mesh/platform/identity"
)

// TokenCodec signs and verifies the compact HMAC tokens issued to end users.
// A single static shared secret is assumed; key rotation is out of scope.
// Keys live at adapter level so the application layer stays crypto-library
// agnostic.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec builds a codec from the configured signing secret.
func NewTokenCodec(secret string) (*TokenCodec, error) {
	if len(secret) < 32 {
		return nil, errors.New("jwt signing secret must be at least 32 bytes")
	}
	return &TokenCodec{secret: []byte(secret)}, nil
}

type tokenClaims struct {
	Roles  string `json:"roles"`
	UserID int64  `json:"userId"`
	jwt.RegisteredClaims
}

// Issue serializes the principal plus an expiry of now+ttl. The numeric id
// travels as its own claim, separate from the subject, so downstream
// authorization can compare ids without a username string comparison.
func (c *TokenCodec) Issue(p identity.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, tokenClaims{
		Roles:  identity.JoinRoles(p.Roles),
		UserID: p.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(c.secret)
}

// Decode verifies signature and expiry and rebuilds the principal. Any
// signature mismatch, malformed structure, expired token, or missing subject
// is an error; nothing partial ever escapes this boundary.
func (c *TokenCodec) Decode(raw string) (identity.Principal, error) {
	parsed, err := jwt.ParseWithClaims(raw, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return identity.Principal{}, err
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return identity.Principal{}, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return identity.Principal{}, errors.New("token missing subject")
	}

	return identity.Principal{
		ID:       claims.UserID,
		Username: claims.Subject,
		Roles:    identity.ParseRoles(claims.Roles),
	}, nil
}
