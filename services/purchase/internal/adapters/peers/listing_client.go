package peers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/homeroot/mesh/platform/identity"
	"github.com/homeroot/mesh/services/purchase/internal/domain"
)

// Credential is the basic-auth identity this service presents to the
// listing service.
type Credential struct {
	Username string
	Password string
}

// ListingClient flips listing state in the listing service after a sale.
// There is no circuit breaker or fallback on this path: a failed status
// update must be reported, not papered over.
type ListingClient struct {
	baseURL    string
	credential Credential
	httpClient *http.Client
}

func NewListingClient(baseURL string, credential Credential, timeout time.Duration) *ListingClient {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &ListingClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		credential: credential,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *ListingClient) MarkSold(ctx context.Context, listingID int64) error {
	query := url.Values{"status": []string{"SOLD"}}
	target := fmt.Sprintf("%s/api/listings/%d/status?%s", c.baseURL, listingID, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.credential.Username, c.credential.Password)
	identity.AttachHeaders(req.Header, identity.CurrentPrincipal(ctx))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPeerUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	default:
		return fmt.Errorf("%w: listing service returned %d", domain.ErrPeerUnavailable, resp.StatusCode)
	}
}
