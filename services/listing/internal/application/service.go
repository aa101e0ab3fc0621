package application

import (
	"log/slog"
	"time"

	"github.com/homeroot/mesh/services/listing/internal/ports"
)

// Service implements the listing catalog use-cases. Authorization decisions
// are made here against the principal propagated by the gateway.
type Service struct {
	listings ports.ListingRepository
	logger   *slog.Logger
	nowFn    func() time.Time
}

type Dependencies struct {
	Listings ports.ListingRepository
	Logger   *slog.Logger
	NowFn    func() time.Time
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
		listings: deps.Listings,
		logger:   logger,
		nowFn:    nowFn,
	}
}
