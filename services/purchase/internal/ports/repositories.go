package ports

import (
	"context"

	"github.com/homeroot/mesh/services/purchase/internal/domain"
)

// PurchaseRepository is the persistence boundary for purchase records.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase domain.Purchase) (domain.Purchase, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Purchase, error)
}
