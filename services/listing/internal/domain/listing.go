package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a listing. New listings always start
// AVAILABLE; the purchase service flips them to SOLD.
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusReserved  Status = "RESERVED"
	StatusSold      Status = "SOLD"
)

func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusAvailable:
		return StatusAvailable, nil
	case StatusReserved:
		return StatusReserved, nil
	case StatusSold:
		return StatusSold, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, raw)
	}
}

// Listing is a property offered in the catalog. OwnerID is the id of the
// user who created it, as propagated by the gateway.
type Listing struct {
	ID        int64
	OwnerID   int64
	Name      string
	Address   string
	Picture   string
	Price     float64
	Status    Status
	CreatedAt time.Time
}

func (l Listing) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(l.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	if l.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return nil
}
