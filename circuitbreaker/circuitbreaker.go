package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// CircuitBreaker stops calling a failing dependency for resetTimeout after
// maxFailures consecutive counted failures. Only errors accepted by the
// classifier count; everything else is passed through and resets the streak.
type CircuitBreaker struct {
	maxFailures     int
	resetTimeout    time.Duration
	isFailure       func(error) bool
	now             func() time.Time
	failureCount    int
	lastFailureTime time.Time
	state           State
	probing         bool
	mu              sync.Mutex
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		isFailure:    func(err error) bool { return err != nil },
		now:          time.Now,
		state:        StateClosed,
	}
}

// WithClassifier sets which errors count towards opening the circuit.
func (cb *CircuitBreaker) WithClassifier(fn func(error) bool) *CircuitBreaker {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.isFailure = fn
	return cb
}

func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := cb.before(); err != nil {
		return err
	}

	err := fn()

	cb.after(err)
	return err
}

func (cb *CircuitBreaker) before() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.lastFailureTime) <= cb.resetTimeout {
			return ErrCircuitOpen
		}
		cb.state = StateHalfOpen
		cb.probing = true
	case StateHalfOpen:
		// one probe at a time
		if cb.probing {
			return ErrCircuitOpen
		}
		cb.probing = true
	}
	return nil
}

func (cb *CircuitBreaker) after(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.probing = false
	if err != nil && cb.isFailure(err) {
		cb.failureCount++
		cb.lastFailureTime = cb.now()
		if cb.state == StateHalfOpen || cb.failureCount >= cb.maxFailures {
			cb.state = StateOpen
		}
		return
	}

	cb.state = StateClosed
	cb.failureCount = 0
}

func (cb *CircuitBreaker) GetState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
