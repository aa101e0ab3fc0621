package domain

import (
	"fmt"
	"strings"
	"time"
)

// Purchase records that a user bought a listing. The row is the source of
// truth for the buyer's history; the listing's SOLD status is maintained in
// the listing service and may lag behind when that service is unreachable.
type Purchase struct {
	ID          int64
	UserID      int64
	ListingID   int64
	Title       string
	Price       float64
	PurchasedAt time.Time
}

func (p Purchase) Validate() error {
	if p.ListingID <= 0 {
		return fmt.Errorf("%w: listing id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return nil
}
