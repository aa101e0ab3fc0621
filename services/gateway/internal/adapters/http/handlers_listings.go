package http

import (
	"net/http"

	"github.com/homeroot/mesh/services/gateway/internal/ports"
)

type saveListingRequest struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Picture string  `json:"picture"`
	Price   float64 `json:"price"`
}

func (h *Handler) saveListing(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, "save_listing")
	if !ok {
		return
	}

	var req saveListingRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "save_listing", err)
		return
	}

	// Owner is always the caller; the listing service re-derives it from the
	// propagated identity headers and ignores any owner supplied on the wire.
	listing, err := h.listings.Save(r.Context(), ports.Listing{
		OwnerID: p.ID,
		Name:    req.Name,
		Address: req.Address,
		Picture: req.Picture,
		Price:   req.Price,
	})
	if err != nil {
		writeMappedError(r.Context(), w, "save_listing", err)
		return
	}
	writeSuccess(w, http.StatusCreated, listing)
}

func (h *Handler) deleteListing(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePrincipal(w, r, "delete_listing"); !ok {
		return
	}
	listingID, err := parseIDParam(r, "listingID")
	if err != nil {
		writeValidationError(r.Context(), w, "delete_listing", err)
		return
	}

	if err := h.listings.Delete(r.Context(), listingID); err != nil {
		writeMappedError(r.Context(), w, "delete_listing", err)
		return
	}
	writeMessage(w, http.StatusOK, "listing deleted")
}

// listListings serves the public catalog. The client behind it degrades to
// an empty list when the listing service is down, so this handler only ever
// fails on genuine programming errors.
func (h *Handler) listListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listings.ListAll(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "list_listings", err)
		return
	}
	writeSuccess(w, http.StatusOK, listings)
}

func (h *Handler) getListing(w http.ResponseWriter, r *http.Request) {
	listingID, err := parseIDParam(r, "listingID")
	if err != nil {
		writeValidationError(r.Context(), w, "get_listing", err)
		return
	}

	listing, err := h.listings.GetByID(r.Context(), listingID)
	if err != nil {
		writeMappedError(r.Context(), w, "get_listing", err)
		return
	}
	writeSuccess(w, http.StatusOK, listing)
}

func (h *Handler) myListings(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, "my_listings")
	if !ok {
		return
	}

	listings, err := h.listings.ListByOwner(r.Context(), p.ID)
	if err != nil {
		writeMappedError(r.Context(), w, "my_listings", err)
		return
	}
	writeSuccess(w, http.StatusOK, listings)
}
