package application

import (
	"log/slog"
	"time"

	"github.com/homeroot/mesh/services/purchase/internal/ports"
)

// Service implements the purchase use-cases.
type Service struct {
	purchases ports.PurchaseRepository
	listings  ports.ListingStatusClient
	logger    *slog.Logger
	nowFn     func() time.Time
}

type Dependencies struct {
	Purchases ports.PurchaseRepository
	Listings  ports.ListingStatusClient
	Logger    *slog.Logger
	NowFn     func() time.Time
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nowFn := deps.NowFn
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		purchases: deps.Purchases,
		listings:  deps.Listings,
		logger:    logger,
		nowFn:     nowFn,
	}
}
