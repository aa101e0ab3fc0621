package peers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/homeroot/mesh/services/gateway/internal/domain"
	"github.com/homeroot/mesh/services/gateway/internal/ports"
)

// PurchaseClient calls the purchase service. Both operations sit on the
// non-wrapped path: any peer failure is returned to the original caller.
type PurchaseClient struct {
	client *Client
}

func NewPurchaseClient(client *Client) *PurchaseClient {
	return &PurchaseClient{client: client}
}

func (c *PurchaseClient) Save(ctx context.Context, purchase ports.Purchase) (ports.Purchase, error) {
	var saved ports.Purchase
	if err := c.client.do(ctx, http.MethodPost, "/api/purchases", nil, purchase, &saved); err != nil {
		return ports.Purchase{}, c.mapError(err)
	}
	return saved, nil
}

func (c *PurchaseClient) ListOfUser(ctx context.Context, userID int64) ([]ports.Purchase, error) {
	var purchases []ports.Purchase
	path := fmt.Sprintf("/api/purchases/user/%d", userID)
	if err := c.client.do(ctx, http.MethodGet, path, nil, nil, &purchases); err != nil {
		return nil, c.mapError(err)
	}
	return purchases, nil
}

func (c *PurchaseClient) mapError(err error) error {
	switch statusOf(err) {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrPeerUnavailable, err)
	}
}
