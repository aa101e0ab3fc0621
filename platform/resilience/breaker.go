// Package resilience provides the circuit breaker used around non-critical
// peer reads. The breaker is an explicit decorator composed by the caller,
// never default behavior hidden on a client interface, so the degradation
// policy stays visible and testable on its own.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// State is the per-dependency health state shared by all callers in the
// process.
type State string

const (
	StateClosed   State = "CLOSED"
	StateOpen     State = "OPEN"
	StateHalfOpen State = "HALF_OPEN"
)

// ErrOpen is returned by Allow when the breaker is short-circuiting calls.
var ErrOpen = errors.New("circuit breaker open")

// Config holds the tunables for one breaker. All three are configuration,
// not per-call-site constants.
type Config struct {
	// FailureThreshold is the number of consecutive failures that trips the
	// breaker from CLOSED to OPEN.
	FailureThreshold int
	// CoolDown is how long the breaker stays OPEN before allowing trial
	// calls.
	CoolDown time.Duration
	// HalfOpenTrials is how many concurrent trial calls HALF_OPEN admits.
	HalfOpenTrials int
}

func (c Config) withDefaults() Config {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 5
	}
	if c.CoolDown <= 0 {
		c.CoolDown = 10 * time.Second
	}
	if c.HalfOpenTrials <= 0 {
		c.HalfOpenTrials = 1
	}
	return c
}

// Breaker implements the CLOSED -> OPEN -> HALF_OPEN state machine. A single
// mutex guards the counters; staleness of a few milliseconds in the observed
// state is acceptable since the breaker is a liveness optimization, not a
// correctness-critical resource.
type Breaker struct {
	mu sync.Mutex

	name string
	cfg  Config

	state        State
	failureCount int
	lastFailure  time.Time
	trialsInUse  int
}

// NewBreaker builds a breaker for one named dependency, starting CLOSED.
func NewBreaker(name string, cfg Config) *Breaker {
	return &Breaker{
		name:  name,
		cfg:   cfg.withDefaults(),
		state: StateClosed,
	}
}

// Name identifies the wrapped dependency in logs.
func (b *Breaker) Name() string { return b.name }

// State returns the current state for logging and tests.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Allow decides whether a call may proceed. In OPEN it returns ErrOpen until
// the cool-down elapses, at which point the breaker moves to HALF_OPEN and
// admits up to HalfOpenTrials trial calls. Every admitted call must be
// reported back through Success or Failure, including calls abandoned by the
// caller; an unreported call understates the true failure rate.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if time.Since(b.lastFailure) < b.cfg.CoolDown {
			return ErrOpen
		}
		b.state = StateHalfOpen
		b.trialsInUse = 0
		fallthrough
	case StateHalfOpen:
		if b.trialsInUse >= b.cfg.HalfOpenTrials {
			return ErrOpen
		}
		b.trialsInUse++
		return nil
	default:
		return nil
	}
}

// Success records a completed call, resetting the failure count. A success
// during HALF_OPEN closes the breaker.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failureCount = 0
	if b.state != StateClosed {
		b.state = StateClosed
		b.trialsInUse = 0
	}
}

// Failure records a failed or abandoned call. A failure during HALF_OPEN
// reopens the breaker immediately; in CLOSED the breaker trips once the
// consecutive-failure threshold is reached.
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastFailure = time.Now()
	switch b.state {
	case StateHalfOpen:
		b.state = StateOpen
		b.trialsInUse = 0
	case StateClosed:
		b.failureCount++
		if b.failureCount >= b.cfg.FailureThreshold {
			b.state = StateOpen
		}
	}
}
