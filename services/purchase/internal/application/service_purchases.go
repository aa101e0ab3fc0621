package application

import (
	"context"
	"fmt"
	"time"

	"github.com/homeroot/mesh/platform/identity"
	"github.com/homeroot/mesh/services/purchase/internal/domain"
)

type SavePurchaseRequest struct {
	ListingID int64   `json:"listing_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
}

type PurchaseResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ListingID   int64     `json:"listing_id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	PurchasedAt time.Time `json:"purchased_at"`
}

func toPurchaseResponse(p domain.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		ListingID:   p.ListingID,
		Title:       p.Title,
		Price:       p.Price,
		PurchasedAt: p.PurchasedAt,
	}
}

// Save records a purchase for the caller and then marks the listing SOLD in
// the listing service. The purchase row is kept even when the second step
// fails: the caller gets an explicit error, and the failure is logged so the
// listing status can be reconciled by hand. Rolling back the purchase would
// hide a sale that already happened.
func (s *Service) Save(ctx context.Context, p identity.Principal, req SavePurchaseRequest) (PurchaseResponse, error) {
	if p.Anonymous() {
		return PurchaseResponse{}, domain.ErrUnauthorized
	}

	purchase := domain.Purchase{
		UserID:      p.ID,
		ListingID:   req.ListingID,
		Title:       req.Title,
		Price:       req.Price,
		PurchasedAt: s.nowFn(),
	}
	if err := purchase.Validate(); err != nil {
		return PurchaseResponse{}, err
	}

	saved, err := s.purchases.Create(ctx, purchase)
	if err != nil {
		return PurchaseResponse{}, err
	}
	s.logger.InfoContext(ctx, "purchase recorded",
		"operation", "save_purchase",
		"outcome", "success",
		"purchase_id", saved.ID,
		"listing_id", saved.ListingID,
		"user_id", saved.UserID,
	)

	if err := s.listings.MarkSold(ctx, saved.ListingID); err != nil {
		s.logger.ErrorContext(ctx, "listing not marked sold, needs reconciliation",
			"operation", "save_purchase",
			"outcome", "partial_failure",
			"purchase_id", saved.ID,
			"listing_id", saved.ListingID,
			"error", err.Error(),
		)
		return toPurchaseResponse(saved), fmt.Errorf("%w: purchase %d recorded but listing %d not marked sold",
			domain.ErrPeerUnavailable, saved.ID, saved.ListingID)
	}

	return toPurchaseResponse(saved), nil
}

// ListOfUser returns one user's purchase history. Only that user or an
// admin may ask.
func (s *Service) ListOfUser(ctx context.Context, p identity.Principal, userID int64) ([]PurchaseResponse, error) {
	if p.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	if !p.IsAdmin() && p.ID != userID {
		return nil, domain.ErrForbidden
	}
	purchases, err := s.purchases.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]PurchaseResponse, 0, len(purchases))
	for _, rec := range purchases {
		out = append(out, toPurchaseResponse(rec))
	}
	return out, nil
}
