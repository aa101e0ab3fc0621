package ports

import (
	"context"

	"github.com/homeroot/mesh/platform/identity"
	"github.com/homeroot/mesh/services/gateway/internal/domain"
)

// UserRepository is the credential store behind the authenticator and the
// user administration flows. Lookups are simple point reads; no call spans
// multiple entities in one transaction.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateRole(ctx context.Context, username string, role identity.Role) error
	UpdateNameAndRole(ctx context.Context, id int64, fullName string, role identity.Role) (domain.User, error)
	Delete(ctx context.Context, id int64) error
	CountByRole(ctx context.Context, role identity.Role) (int64, error)
}
