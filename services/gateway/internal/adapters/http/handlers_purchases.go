package http

import (
	"net/http"

	"github.com/homeroot/mesh/services/gateway/internal/ports"
)

type savePurchaseRequest struct {
	ListingID int64   `json:"listing_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
}

func (h *Handler) savePurchase(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, "save_purchase")
	if !ok {
		return
	}

	var req savePurchaseRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "save_purchase", err)
		return
	}

	purchase, err := h.purchases.Save(r.Context(), ports.Purchase{
		UserID:    p.ID,
		ListingID: req.ListingID,
		Title:     req.Title,
		Price:     req.Price,
	})
	if err != nil {
		writeMappedError(r.Context(), w, "save_purchase", err)
		return
	}
	writeSuccess(w, http.StatusCreated, purchase)
}

func (h *Handler) myPurchases(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, "my_purchases")
	if !ok {
		return
	}

	purchases, err := h.purchases.ListOfUser(r.Context(), p.ID)
	if err != nil {
		writeMappedError(r.Context(), w, "my_purchases", err)
		return
	}
	writeSuccess(w, http.StatusOK, purchases)
}
