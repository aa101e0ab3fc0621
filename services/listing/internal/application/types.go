package application

import (
	"time"

	"github.com/homeroot/mesh/services/listing/internal/domain"
)

// SaveListingRequest creates a listing when ID is zero, otherwise updates
// the listing with that id.
type SaveListingRequest struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Picture string  `json:"picture"`
	Price   float64 `json:"price"`
}

type ListingResponse struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Picture   string    `json:"picture,omitempty"`
	Price     float64   `json:"price"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toListingResponse(l domain.Listing) ListingResponse {
	return ListingResponse{
		ID:        l.ID,
		OwnerID:   l.OwnerID,
		Name:      l.Name,
		Address:   l.Address,
		Picture:   l.Picture,
		Price:     l.Price,
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt,
	}
}
