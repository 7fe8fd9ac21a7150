package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreaker guards an outbound dependency. Consecutive failures
// trip it open; after openTimeout it lets a bounded number of probe
// requests through and closes again once they all succeed.
type CircuitBreaker struct {
	mu sync.Mutex

	failureThreshold int
	openTimeout      time.Duration
	halfOpenMaxReq   int

	state        CircuitState
	failureRun   int
	trippedAt    time.Time
	probesActive int
	probesPassed int
	now          func() time.Time
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) *CircuitBreaker {
	if failureThreshold < 1 {
		failureThreshold = 1
	}
	if openTimeout <= 0 {
		openTimeout = 15 * time.Second
	}
	if halfOpenMaxReq < 1 {
		halfOpenMaxReq = 1
	}

	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		openTimeout:      openTimeout,
		halfOpenMaxReq:   halfOpenMaxReq,
		state:            CircuitStateClosed,
		now:              time.Now,
	}
}

// Allow reports whether a request may proceed. In the half-open state
// it also reserves one of the probe seats.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advanceLocked()

	switch b.state {
	case CircuitStateOpen:
		return ErrCircuitOpen
	case CircuitStateHalfOpen:
		if b.probesActive >= b.halfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.probesActive++
	}
	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failureRun = 0
	case CircuitStateHalfOpen:
		b.releaseProbeLocked()
		b.probesPassed++
		if b.probesPassed >= b.halfOpenMaxReq && b.probesActive == 0 {
			b.resetLocked(CircuitStateClosed)
		}
	}
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failureRun++
		if b.failureRun >= b.failureThreshold {
			b.resetLocked(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		b.releaseProbeLocked()
		b.resetLocked(CircuitStateOpen)
	case CircuitStateOpen:
		// A failure while already open restarts the cooldown.
		b.trippedAt = b.now()
	}
}

func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advanceLocked()
	return b.state
}

// advanceLocked moves open to half-open once the cooldown has elapsed.
func (b *CircuitBreaker) advanceLocked() {
	if b.state != CircuitStateOpen {
		return
	}
	if b.now().Sub(b.trippedAt) >= b.openTimeout {
		b.resetLocked(CircuitStateHalfOpen)
	}
}

func (b *CircuitBreaker) releaseProbeLocked() {
	if b.probesActive > 0 {
		b.probesActive--
	}
}

func (b *CircuitBreaker) resetLocked(to CircuitState) {
	b.state = to
	b.failureRun = 0
	b.probesActive = 0
	b.probesPassed = 0
	if to == CircuitStateOpen {
		b.trippedAt = b.now()
	} else {
		b.trippedAt = time.Time{}
	}
}
