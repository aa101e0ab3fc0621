package http

import (
	"net/http"

	"github.com/homeroot/mesh/services/gateway/internal/application"
)

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req application.SignUpRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "sign_up", err)
		return
	}

	res, err := h.service.SignUp(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "sign_up", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "sign_in", err)
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "sign_in", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}
