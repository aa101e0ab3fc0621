package domain

import "errors"

var (
	ErrNotFound        = errors.New("resource not found")
	ErrForbidden       = errors.New("operation not permitted")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidInput    = errors.New("invalid input")
	ErrPeerUnavailable = errors.New("peer service unavailable")
)
