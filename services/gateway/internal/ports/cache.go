package ports

import (
	"context"
	"time"
)

// LockoutState tracks failed login attempts for one account.
type LockoutState struct {
	FailedCount int
	LockedUntil *time.Time
}

// LockoutStore counts failed logins and enforces temporary lockouts. Backed
// by Redis in production; state is advisory and may expire.
type LockoutStore interface {
	Get(ctx context.Context, key string) (LockoutState, error)
	RecordFailure(ctx context.Context, key string, now time.Time, threshold int, lockoutWindow time.Duration) (LockoutState, error)
	Clear(ctx context.Context, key string) error
}
