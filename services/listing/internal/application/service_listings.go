package application

import (
	"context"

	"github.com/homeroot/mesh/platform/identity"
	"github.com/homeroot/mesh/services/listing/internal/domain"
)

// Save creates a new listing or updates an existing one. Creation stamps the
// caller as owner and always starts the listing AVAILABLE, ignoring anything
// the wire said about owner or status. Updates check existence before
// ownership so a missing listing reads as not-found, never as forbidden.
func (s *Service) Save(ctx context.Context, p identity.Principal, req SaveListingRequest) (ListingResponse, bool, error) {
	if p.Anonymous() {
		return ListingResponse{}, false, domain.ErrUnauthorized
	}

	listing := domain.Listing{
		ID:      req.ID,
		Name:    req.Name,
		Address: req.Address,
		Picture: req.Picture,
		Price:   req.Price,
	}
	if err := listing.Validate(); err != nil {
		return ListingResponse{}, false, err
	}

	if req.ID == 0 {
		listing.OwnerID = p.ID
		listing.Status = domain.StatusAvailable
		listing.CreatedAt = s.nowFn()
		created, err := s.listings.Create(ctx, listing)
		if err != nil {
			return ListingResponse{}, false, err
		}
		s.logger.InfoContext(ctx, "listing created",
			"operation", "save_listing",
			"outcome", "success",
			"listing_id", created.ID,
			"owner_id", created.OwnerID,
		)
		return toListingResponse(created), true, nil
	}

	existing, err := s.listings.GetByID(ctx, req.ID)
	if err != nil {
		return ListingResponse{}, false, err
	}
	if !identity.CanMutate(p, existing.OwnerID) {
		s.logger.WarnContext(ctx, "listing update denied",
			"operation", "save_listing",
			"outcome", "forbidden",
			"listing_id", existing.ID,
			"actor_id", p.ID,
		)
		return ListingResponse{}, false, domain.ErrForbidden
	}

	existing.Name = listing.Name
	existing.Address = listing.Address
	existing.Picture = listing.Picture
	existing.Price = listing.Price
	updated, err := s.listings.Update(ctx, existing)
	if err != nil {
		return ListingResponse{}, false, err
	}
	return toListingResponse(updated), false, nil
}

// Delete removes a listing. Existence is checked first for the same reason
// as Save: the caller learns not-found before any permission verdict.
func (s *Service) Delete(ctx context.Context, p identity.Principal, listingID int64) error {
	if p.Anonymous() {
		return domain.ErrUnauthorized
	}
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if !identity.CanMutate(p, listing.OwnerID) {
		s.logger.WarnContext(ctx, "listing delete denied",
			"operation", "delete_listing",
			"outcome", "forbidden",
			"listing_id", listingID,
			"actor_id", p.ID,
		)
		return domain.ErrForbidden
	}
	return s.listings.Delete(ctx, listingID)
}

// List returns the full catalog. Reads are public.
func (s *Service) List(ctx context.Context) ([]ListingResponse, error) {
	listings, err := s.listings.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, listingID int64) (ListingResponse, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return ListingResponse{}, err
	}
	return toListingResponse(listing), nil
}

// ListByOwner returns one user's listings. Only the owner themselves or an
// admin may ask.
func (s *Service) ListByOwner(ctx context.Context, p identity.Principal, ownerID int64) ([]ListingResponse, error) {
	if p.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	if !p.IsAdmin() && p.ID != ownerID {
		return nil, domain.ErrForbidden
	}
	listings, err := s.listings.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return out, nil
}

// UpdateStatus flips a listing's lifecycle state. The caller here is a peer
// service authenticated by its basic-auth credential, not an end user, so no
// ownership check applies.
func (s *Service) UpdateStatus(ctx context.Context, listingID int64, status domain.Status) (ListingResponse, error) {
	updated, err := s.listings.UpdateStatus(ctx, listingID, status)
	if err != nil {
		return ListingResponse{}, err
	}
	s.logger.InfoContext(ctx, "listing status updated",
		"operation", "update_listing_status",
		"outcome", "success",
		"listing_id", listingID,
		"status", string(status),
	)
	return toListingResponse(updated), nil
}
