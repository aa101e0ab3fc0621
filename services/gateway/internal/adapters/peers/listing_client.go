package peers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/homeroot/mesh/platform/resilience"
	"github.com/homeroot/mesh/services/gateway/internal/domain"
	"github.com/homeroot/mesh/services/gateway/internal/ports"
)

// ListingClient calls the listing service. Only the full-catalog read is
// wrapped by the circuit breaker: an empty catalog is an acceptable degraded
// answer, while a silently-dropped create/update/delete would be worse than
// a visible error, so mutations are never wrapped.
type ListingClient struct {
	client  *Client
	breaker *resilience.Breaker
	logger  *slog.Logger
}

func NewListingClient(client *Client, breaker *resilience.Breaker, logger *slog.Logger) *ListingClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListingClient{client: client, breaker: breaker, logger: logger}
}

func (c *ListingClient) Save(ctx context.Context, listing ports.Listing) (ports.Listing, error) {
	var saved ports.Listing
	if err := c.client.do(ctx, http.MethodPost, "/api/listings", nil, listing, &saved); err != nil {
		return ports.Listing{}, c.mapError(err)
	}
	return saved, nil
}

func (c *ListingClient) Delete(ctx context.Context, listingID int64) error {
	path := fmt.Sprintf("/api/listings/%d", listingID)
	if err := c.client.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return c.mapError(err)
	}
	return nil
}

func (c *ListingClient) GetByID(ctx context.Context, listingID int64) (ports.Listing, error) {
	var listing ports.Listing
	path := fmt.Sprintf("/api/listings/%d", listingID)
	if err := c.client.do(ctx, http.MethodGet, path, nil, nil, &listing); err != nil {
		return ports.Listing{}, c.mapError(err)
	}
	return listing, nil
}

// ListAll fetches the full catalog through the breaker. When the breaker is
// open, or the call fails, the fallback empty slice is returned immediately:
// callers treat it as "temporarily degraded", not an error, and it is logged
// distinctly from a hard failure.
func (c *ListingClient) ListAll(ctx context.Context) ([]ports.Listing, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "catalog read degraded, breaker open",
			"operation", "list_listings",
			"outcome", "degraded",
			"breaker", c.breaker.Name(),
			"breaker_state", string(c.breaker.State()),
		)
		return []ports.Listing{}, nil
	}

	var listings []ports.Listing
	err := c.client.do(ctx, http.MethodGet, "/api/listings", nil, nil, &listings)
	if err != nil {
		// A timeout or caller cancellation still counts against the breaker;
		// an abandoned call that goes unreported would understate the true
		// failure rate.
		c.breaker.Failure()
		c.logger.WarnContext(ctx, "catalog read failed, serving fallback",
			"operation", "list_listings",
			"outcome", "degraded",
			"breaker", c.breaker.Name(),
			"breaker_state", string(c.breaker.State()),
			"error", err.Error(),
		)
		return []ports.Listing{}, nil
	}

	c.breaker.Success()
	if listings == nil {
		listings = []ports.Listing{}
	}
	return listings, nil
}

func (c *ListingClient) ListByOwner(ctx context.Context, ownerID int64) ([]ports.Listing, error) {
	var listings []ports.Listing
	path := fmt.Sprintf("/api/listings/owner/%d", ownerID)
	if err := c.client.do(ctx, http.MethodGet, path, nil, nil, &listings); err != nil {
		return nil, c.mapError(err)
	}
	return listings, nil
}

// mapError translates peer responses into domain sentinels so the HTTP
// adapter reports forbidden and not-found distinctly instead of collapsing
// everything into a peer failure.
func (c *ListingClient) mapError(err error) error {
	switch statusOf(err) {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %v", domain.ErrForbidden, err)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrPeerUnavailable, err)
	}
}
