// Package peers implements the gateway's outbound HTTP clients for the
// internal listing and purchase services. Every call carries two identity
// layers: the fixed peer basic-auth credential (the actual security
// boundary between services) and, when an end user is active, the
// propagated X-User-ID / X-User-Roles headers derived from the request's
// principal.
package peers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/homeroot/mesh/platform/identity"
)

// Credential is the fixed service-level username/password sent as basic
// auth on every internal call, independent of end-user identity.
type Credential struct {
	Username string
	Password string
}

// Client is the shared transport for one peer service.
type Client struct {
	baseURL    string
	credential Credential
	httpClient *http.Client
}

// NewClient builds a peer transport. The timeout must stay shorter than the
// circuit breaker's failure-counting window, or the breaker cannot tell
// "slow" from "hung forever".
func NewClient(baseURL string, credential Credential, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		credential: credential,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type httpError struct {
	Status int
	Body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("peer returned status %d: %s", e.Status, e.Body)
}

// statusOf extracts the HTTP status from a peer error, 0 for transport
// failures.
func statusOf(err error) int {
	var he *httpError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}

// do issues one request. The active principal is read from ctx and attached
// as propagation headers; an anonymous principal attaches nothing. The
// attachment is one-way and never fails the call itself.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth(c.credential.Username, c.credential.Password)
	identity.AttachHeaders(req.Header, identity.CurrentPrincipal(ctx))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &httpError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(raw))}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	// Peer services wrap payloads in a status envelope.
	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode response payload: %w", err)
	}
	return nil
}
