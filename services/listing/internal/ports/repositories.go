package ports

import (
	"context"

	"github.com/homeroot/mesh/services/listing/internal/domain"
)

// ListingRepository is the persistence boundary for listings.
type ListingRepository interface {
	Create(ctx context.Context, listing domain.Listing) (domain.Listing, error)
	Update(ctx context.Context, listing domain.Listing) (domain.Listing, error)
	GetByID(ctx context.Context, id int64) (domain.Listing, error)
	List(ctx context.Context) ([]domain.Listing, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Listing, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (domain.Listing, error)
	Delete(ctx context.Context, id int64) error
}
