package clients

import (
	"sync"
	"time"
)

// State is the position of a circuit breaker.
type State int

const (
	// StateClosed lets every request through and counts consecutive failures.
	StateClosed State = iota

	// StateOpen rejects requests until the cool-down elapses.
	StateOpen

	// StateHalfOpen lets a limited number of probes through.
	StateHalfOpen
)

var stateNames = [...]string{
	StateClosed:   "closed",
	StateOpen:     "open",
	StateHalfOpen: "half-open",
}

// String returns the lowercase name used in logs and metric attributes.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}

	return stateNames[s]
}

// CircuitBreakerConfig configures a CircuitBreaker.
type CircuitBreakerConfig struct {
	// MaxFailures consecutive failures open the circuit.
	MaxFailures int

	// Timeout is the cool-down spent open before probing.
	Timeout time.Duration

	// HalfOpenLimit is both the number of concurrent probes allowed while
	// half-open and the number of probe successes that close the circuit.
	HalfOpenLimit int

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// CircuitBreaker stops calling a downstream that keeps failing.
//
//	closed    --MaxFailures consecutive failures-->  open
//	open      --Timeout elapsed, next Allow-->       half-open
//	half-open --HalfOpenLimit successes-->           closed
//	half-open --any failure-->                       open
type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu       sync.Mutex
	state    State
	failures int
	probes   int // in flight while half-open
	passed   int // successful probes while half-open
	openedAt time.Time
	notify   func(from, to State)
}

// NewCircuitBreaker returns a closed breaker. Non-positive limits are raised to 1.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	cfg.MaxFailures = max(cfg.MaxFailures, 1)
	cfg.HalfOpenLimit = max(cfg.HalfOpenLimit, 1)

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &CircuitBreaker{cfg: cfg}
}

// OnStateChange registers fn to run after every transition. fn runs on the
// goroutine that caused the transition, after the breaker lock is released.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.notify = fn
}

// Allow reports whether a request may proceed. A caller that gets true must
// finish with exactly one of RecordSuccess, RecordFailure or Abandon.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()

	var allowed bool

	from := cb.state

	switch cb.state {
	case StateClosed:
		allowed = true
	case StateOpen:
		if cb.cfg.Now().Sub(cb.openedAt) >= cb.cfg.Timeout {
			cb.moveTo(StateHalfOpen)
			cb.probes = 1
			allowed = true
		}
	case StateHalfOpen:
		if cb.probes < cb.cfg.HalfOpenLimit {
			cb.probes++
			allowed = true
		}
	}

	cb.unlockAndNotify(from)

	return allowed
}

// RecordSuccess reports that an allowed request succeeded.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	from := cb.state

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.probes = max(cb.probes-1, 0)
		cb.passed++

		if cb.passed >= cb.cfg.HalfOpenLimit {
			cb.moveTo(StateClosed)
		}
	}

	cb.unlockAndNotify(from)
}

// RecordFailure reports that an allowed request failed downstream.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	from := cb.state

	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.cfg.MaxFailures {
			cb.moveTo(StateOpen)
		}
	case StateHalfOpen:
		cb.moveTo(StateOpen)
	}

	cb.unlockAndNotify(from)
}

// Abandon releases an allowed request that ended for reasons unrelated to
// the downstream, such as the caller cancelling. Nothing is counted.
func (cb *CircuitBreaker) Abandon() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen {
		cb.probes = max(cb.probes-1, 0)
	}
}

// State returns the current state without advancing it.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// moveTo switches state and resets the per-state counters. Lock held.
func (cb *CircuitBreaker) moveTo(to State) {
	cb.state = to
	cb.failures = 0
	cb.probes = 0
	cb.passed = 0

	if to == StateOpen {
		cb.openedAt = cb.cfg.Now()
	}
}

// unlockAndNotify releases the lock and fires the callback when the state
// differs from the one observed on entry.
func (cb *CircuitBreaker) unlockAndNotify(from State) {
	to, notify := cb.state, cb.notify
	cb.mu.Unlock()

	if notify != nil && from != to {
		notify(from, to)
	}
}
