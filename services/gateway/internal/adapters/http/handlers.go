package http

import (
	"net/http"

	"github.com/homeroot/mesh/platform/identity"
	"github.com/homeroot/mesh/services/gateway/internal/application"
	"github.com/homeroot/mesh/services/gateway/internal/ports"
)

// Handler is the HTTP adapter entrypoint for the gateway. It owns the edge
// concerns: resolving the caller's identity, invoking the local user
// service, and proxying catalog and purchase calls to the peer services.
type Handler struct {
	service   *application.Service
	listings  ports.ListingClient
	purchases ports.PurchaseClient
}

// NewHandler constructs an HTTP handler bound to the application service and
// the outbound peer clients.
func NewHandler(service *application.Service, listings ports.ListingClient, purchases ports.PurchaseClient) *Handler {
	return &Handler{service: service, listings: listings, purchases: purchases}
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ready")
}

// requirePrincipal rejects anonymous callers. Handlers behind it can trust
// that the returned principal carries a real user id.
func requirePrincipal(w http.ResponseWriter, r *http.Request, operation string) (identity.Principal, bool) {
	p := identity.CurrentPrincipal(r.Context())
	if p.Anonymous() {
		writeMissingBearerError(r.Context(), w, operation)
		return identity.Principal{}, false
	}
	return p, true
}
