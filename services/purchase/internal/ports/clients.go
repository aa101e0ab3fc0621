package ports

import "context"

// ListingStatusClient marks listings sold in the listing service. The call
// is deliberately not wrapped in any fallback: a failure here must surface
// to the caller so the inconsistency is visible.
type ListingStatusClient interface {
	MarkSold(ctx context.Context, listingID int64) error
}
