package ports

import (
	"time"

	"github.com/homeroot/mesh/platform/identity"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenCodec serializes a principal into a signed, expiring token and back.
// Decode must reject any malformed, unsigned, or expired token with an
// error; callers treat that error as "no identity", never as partial trust.
type TokenCodec interface {
	Issue(p identity.Principal, ttl time.Duration) (string, error)
	Decode(raw string) (identity.Principal, error)
}
