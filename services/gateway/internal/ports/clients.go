package ports

import (
	"context"
	"time"
)

// Listing is the wire shape exchanged with the listing service.
type Listing struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Picture   string    `json:"picture,omitempty"`
	Price     float64   `json:"price"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Purchase is the wire shape exchanged with the purchase service.
type Purchase struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ListingID   int64     `json:"listing_id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// ListingClient is the outbound dependency on the listing service. Identity
// propagation and the peer credential are the transport's concern; the
// context carries the active principal. ListAll is the one call wrapped by
// the circuit breaker: a degraded empty result is an acceptable catalog
// answer, while a silently-dropped mutation would not be.
type ListingClient interface {
	Save(ctx context.Context, listing Listing) (Listing, error)
	Delete(ctx context.Context, listingID int64) error
	GetByID(ctx context.Context, listingID int64) (Listing, error)
	ListAll(ctx context.Context) ([]Listing, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Listing, error)
}

// PurchaseClient is the outbound dependency on the purchase service. Both
// calls are unwrapped: failures must stay visible to the caller.
type PurchaseClient interface {
	Save(ctx context.Context, purchase Purchase) (Purchase, error)
	ListOfUser(ctx context.Context, userID int64) ([]Purchase, error)
}
