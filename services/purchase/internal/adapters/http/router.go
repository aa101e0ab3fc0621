package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter registers the purchase service routes behind peer basic auth.
func NewRouter(handler *Handler, peers []PeerCredential) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/api/purchases", func(r chi.Router) {
		r.Use(peerAuthMiddleware(peers))
		r.Use(identityHeadersMiddleware)

		r.Post("/", handler.savePurchase)
		r.Get("/user/{userID}", handler.listOfUser)
	})

	return r
}
