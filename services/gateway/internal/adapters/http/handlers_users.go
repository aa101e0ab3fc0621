package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/homeroot/mesh/platform/identity"
	"github.com/homeroot/mesh/services/gateway/internal/application"
)

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, "current_user")
	if !ok {
		return
	}

	res, err := h.service.CurrentUser(r.Context(), p)
	if err != nil {
		writeMappedError(r.Context(), w, "current_user", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) changeOwnRole(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, "change_own_role")
	if !ok {
		return
	}

	role, ok := identity.ParseRole(chi.URLParam(r, "role"))
	if !ok {
		writeValidationError(r.Context(), w, "change_own_role", errors.New("unknown role"))
		return
	}

	if err := h.service.ChangeOwnRole(r.Context(), p, role); err != nil {
		writeMappedError(r.Context(), w, "change_own_role", err)
		return
	}
	writeMessage(w, http.StatusOK, "role updated")
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, "list_users")
	if !ok {
		return
	}

	res, err := h.service.ListUsers(r.Context(), p)
	if err != nil {
		writeMappedError(r.Context(), w, "list_users", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, "get_user")
	if !ok {
		return
	}
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		writeValidationError(r.Context(), w, "get_user", err)
		return
	}

	res, err := h.service.GetUser(r.Context(), p, userID)
	if err != nil {
		writeMappedError(r.Context(), w, "get_user", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, "update_user")
	if !ok {
		return
	}
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		writeValidationError(r.Context(), w, "update_user", err)
		return
	}

	var req application.UpdateUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_user", err)
		return
	}

	res, err := h.service.UpdateUser(r.Context(), p, userID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_user", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, "delete_user")
	if !ok {
		return
	}
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		writeValidationError(r.Context(), w, "delete_user", err)
		return
	}

	if err := h.service.DeleteUser(r.Context(), p, userID); err != nil {
		writeMappedError(r.Context(), w, "delete_user", err)
		return
	}
	writeMessage(w, http.StatusOK, "user deleted")
}
