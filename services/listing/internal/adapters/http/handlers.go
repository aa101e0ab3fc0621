package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/homeroot/mesh/platform/identity"
	"github.com/homeroot/mesh/services/listing/internal/application"
	"github.com/homeroot/mesh/services/listing/internal/domain"
)

// Handler is the HTTP adapter entrypoint for the listing service.
type Handler struct {
	service *application.Service
}

func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ready")
}

func (h *Handler) saveListing(w http.ResponseWriter, r *http.Request) {
	var req application.SaveListingRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "save_listing", err)
		return
	}

	p := identity.CurrentPrincipal(r.Context())
	res, created, err := h.service.Save(r.Context(), p, req)
	if err != nil {
		writeMappedError(r.Context(), w, "save_listing", err)
		return
	}
	statusCode := http.StatusOK
	if created {
		statusCode = http.StatusCreated
	}
	writeSuccess(w, statusCode, res)
}

func (h *Handler) deleteListing(w http.ResponseWriter, r *http.Request) {
	listingID, err := parseIDParam(r, "listingID")
	if err != nil {
		writeValidationError(r.Context(), w, "delete_listing", err)
		return
	}

	p := identity.CurrentPrincipal(r.Context())
	if err := h.service.Delete(r.Context(), p, listingID); err != nil {
		writeMappedError(r.Context(), w, "delete_listing", err)
		return
	}
	writeMessage(w, http.StatusOK, "listing deleted")
}

func (h *Handler) listListings(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.List(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "list_listings", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) getListing(w http.ResponseWriter, r *http.Request) {
	listingID, err := parseIDParam(r, "listingID")
	if err != nil {
		writeValidationError(r.Context(), w, "get_listing", err)
		return
	}

	res, err := h.service.GetByID(r.Context(), listingID)
	if err != nil {
		writeMappedError(r.Context(), w, "get_listing", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) listByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := parseIDParam(r, "ownerID")
	if err != nil {
		writeValidationError(r.Context(), w, "list_by_owner", err)
		return
	}

	p := identity.CurrentPrincipal(r.Context())
	res, err := h.service.ListByOwner(r.Context(), p, ownerID)
	if err != nil {
		writeMappedError(r.Context(), w, "list_by_owner", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	listingID, err := parseIDParam(r, "listingID")
	if err != nil {
		writeValidationError(r.Context(), w, "update_listing_status", err)
		return
	}
	status, err := domain.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		writeValidationError(r.Context(), w, "update_listing_status", err)
		return
	}

	res, err := h.service.UpdateStatus(r.Context(), listingID, status)
	if err != nil {
		writeMappedError(r.Context(), w, "update_listing_status", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

// decodeBody tolerates unknown fields: callers are peer services sending
// their full wire shape, which may carry more than this service reads.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

func writeMappedError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	status, code, msg := mapDomainError(err)
	logHTTPOperationError(ctx, operation, status, code, msg, err)
	writeError(w, status, code, msg)
}

func writeValidationError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	code := "VALIDATION_ERROR"
	msg := err.Error()
	logHTTPOperationError(ctx, operation, http.StatusBadRequest, code, msg, err)
	writeError(w, http.StatusBadRequest, code, msg)
}
