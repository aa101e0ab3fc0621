package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter registers the listing service routes. Everything under /api sits
// behind peer basic auth; the identity headers middleware then installs the
// end-user principal the gateway propagated.
func NewRouter(handler *Handler, peers []PeerCredential) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/api/listings", func(r chi.Router) {
		r.Use(peerAuthMiddleware(peers))
		r.Use(identityHeadersMiddleware)

		r.Post("/", handler.saveListing)
		r.Get("/", handler.listListings)
		r.Get("/{listingID}", handler.getListing)
		r.Delete("/{listingID}", handler.deleteListing)
		r.Get("/owner/{ownerID}", handler.listByOwner)
		r.Put("/{listingID}/status", handler.updateStatus)
	})

	return r
}
