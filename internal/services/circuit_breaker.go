package services

import (
	"sync"
	"time"
)

// circuitBreakerState represents the state of a circuit breaker
type circuitBreakerState int

const (
	circuitClosed circuitBreakerState = iota
	circuitOpen
	circuitHalfOpen
)

// String returns the state name used in logs
func (s circuitBreakerState) String() string {
	switch s {
	case circuitClosed:
		return "closed"
	case circuitOpen:
		return "open"
	case circuitHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// CircuitBreaker skips upstream calls after a run of consecutive failures.
// A nil *CircuitBreaker always allows execution.
type CircuitBreaker struct {
	mu          sync.Mutex
	state       circuitBreakerState
	failures    int
	lastFailure time.Time
	threshold   int
	timeout     time.Duration
	now         func() time.Time
}

// NewCircuitBreaker returns nil when threshold is not positive, which disables the breaker
func NewCircuitBreaker(threshold int, timeout time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		return nil
	}
	return &CircuitBreaker{
		state:     circuitClosed,
		threshold: threshold,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Allow checks if the circuit breaker allows execution.
// An open breaker moves to half-open once the timeout has elapsed and lets one probe through.
func (cb *CircuitBreaker) Allow() bool {
	if cb == nil {
		return true
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case circuitClosed:
		return true
	case circuitOpen:
		if cb.now().Sub(cb.lastFailure) > cb.timeout {
			cb.state = circuitHalfOpen
			return true
		}
		return false
	case circuitHalfOpen:
		// one probe is already in flight
		return false
	default:
		return false
	}
}

// RecordSuccess records a successful execution
func (cb *CircuitBreaker) RecordSuccess() {
	if cb == nil {
		return
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.state = circuitClosed
}

// RecordFailure records a failed execution
func (cb *CircuitBreaker) RecordFailure() {
	if cb == nil {
		return
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures++
	cb.lastFailure = cb.now()

	if cb.state == circuitHalfOpen || cb.failures >= cb.threshold {
		cb.state = circuitOpen
	}
}

// State reports the current state name
func (cb *CircuitBreaker) State() string {
	if cb == nil {
		return circuitClosed.String()
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state.String()
}
