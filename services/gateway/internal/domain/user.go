package domain

import (
	"time"

	"github.com/homeroot/mesh/platform/identity"
)

// User is the account record owned by the gateway. The Token field is
// transient: it carries a freshly issued token on login/signup responses and
// is never persisted.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	FullName     string
	Role         identity.Role
	CreatedAt    time.Time

	Token string
}

// Principal builds the request identity for this account.
func (u User) Principal() identity.Principal {
	return identity.Principal{
		ID:       u.ID,
		Username: u.Username,
		Roles:    []identity.Role{u.Role},
	}
}
