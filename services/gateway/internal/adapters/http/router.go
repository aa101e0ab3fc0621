package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter registers the gateway's public routes. The middleware stack is
// one ordered list: request id, panic recovery, access logging, then
// identity resolution. Identity resolution never rejects a request; each
// group below decides what an anonymous caller may do.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)
	r.Use(handler.identityMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/sign-up", handler.signUp)
		r.Post("/sign-in", handler.signIn)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", handler.currentUser)
		r.Put("/role/{role}", handler.changeOwnRole)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/", handler.listUsers)
			r.Get("/{userID}", handler.getUser)
			r.Put("/{userID}", handler.updateUser)
			r.Delete("/{userID}", handler.deleteUser)
		})
	})

	r.Route("/api/listings", func(r chi.Router) {
		r.Get("/", handler.listListings)
		r.Get("/mine", handler.myListings)
		r.Get("/{listingID}", handler.getListing)
		r.Post("/", handler.saveListing)
		r.Delete("/{listingID}", handler.deleteListing)
	})

	r.Route("/api/purchases", func(r chi.Router) {
		r.Post("/", handler.savePurchase)
		r.Get("/mine", handler.myPurchases)
	})

	return r
}
