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
	"github.com/homeroot/mesh/services/purchase/internal/application"
)

// Handler is the HTTP adapter entrypoint for the purchase service.
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

func (h *Handler) savePurchase(w http.ResponseWriter, r *http.Request) {
	var req application.SavePurchaseRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "save_purchase", err)
		return
	}

	p := identity.CurrentPrincipal(r.Context())
	res, err := h.service.Save(r.Context(), p, req)
	if err != nil {
		writeMappedError(r.Context(), w, "save_purchase", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) listOfUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		writeValidationError(r.Context(), w, "list_purchases", err)
		return
	}

	p := identity.CurrentPrincipal(r.Context())
	res, err := h.service.ListOfUser(r.Context(), p, userID)
	if err != nil {
		writeMappedError(r.Context(), w, "list_purchases", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

// decodeBody tolerates unknown fields from peer services sending their full
// wire shape.
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
