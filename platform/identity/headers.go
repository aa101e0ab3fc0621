package identity

import (
	"net/http"
	"strconv"
)

// Identity propagation headers carried on internal service-to-service calls.
// They are advisory context for ownership and audit checks; the security
// boundary on internal calls is the separate peer basic-auth credential.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserRoles = "X-User-Roles"
)

// AttachHeaders adds the propagation headers for p to an outbound request.
// When p is anonymous both headers are omitted entirely; downstream services
// must treat "header absent" as "no identity", which is distinct from
// "header present but empty". The attachment never blocks or fails the call.
func AttachHeaders(h http.Header, p Principal) {
	if p.Anonymous() {
		return
	}
	h.Set(HeaderUserID, strconv.FormatInt(p.ID, 10))
	if len(p.Roles) > 0 {
		h.Set(HeaderUserRoles, JoinRoles(p.Roles))
	}
}

// PrincipalFromHeaders reconstructs the propagated principal on the
// receiving side. A missing or malformed id header yields the anonymous
// principal; unknown role tags are dropped.
func PrincipalFromHeaders(h http.Header) Principal {
	raw := h.Get(HeaderUserID)
	if raw == "" {
		return Principal{}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return Principal{}
	}
	return Principal{
		ID:    id,
		Roles: ParseRoles(h.Get(HeaderUserRoles)),
	}
}
