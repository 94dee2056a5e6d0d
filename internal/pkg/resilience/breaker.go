// internal/pkg/resilience/breaker.go
package resilience

import (
	"math"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/pkg/errors"
)

// State of a circuit breaker, in the order exported by the breaker gauge.
type State int32

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

func stateOf(s circuitbreaker.State) State {
	switch s {
	case circuitbreaker.OpenState:
		return StateOpen
	case circuitbreaker.HalfOpenState:
		return StateHalfOpen
	default:
		return StateClosed
	}
}

// CircuitBreaker is a count based breaker over the last WindowSize outcomes,
// driven in standalone mode so the bulkhead and retry stay outside of it.
//
//	CLOSED --failures>=threshold--> OPEN --OpenTimeout--> HALF_OPEN
//	HALF_OPEN --SuccessThreshold ok--> CLOSED ; HALF_OPEN --failure--> OPEN
type CircuitBreaker struct {
	name string
	cb   circuitbreaker.CircuitBreaker[any]

	onStateChange func(name string, from, to State)
}

func NewCircuitBreaker(name string, cfg BreakerConfig) *CircuitBreaker {
	cfg = cfg.withDefaults()
	b := &CircuitBreaker{name: name}
	b.cb = circuitbreaker.Builder[any]().
		WithFailureThresholdRatio(cfg.failureThreshold(), uint(cfg.WindowSize)).
		WithDelay(cfg.OpenTimeout).
		WithSuccessThreshold(uint(cfg.SuccessThreshold)).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			if b.onStateChange != nil {
				b.onStateChange(b.name, stateOf(e.OldState), stateOf(e.NewState))
			}
		}).
		Build()
	return b
}

// failureThreshold turns the configured percentage into a failure count
// within the window.
func (c BreakerConfig) failureThreshold() uint {
	n := math.Ceil(c.FailureRateThreshold * float64(c.WindowSize) / 100)
	return uint(max(n, 1))
}

func (b *CircuitBreaker) State() State {
	return stateOf(b.cb.State())
}

// RemainingDelay is how long the breaker stays open.
func (b *CircuitBreaker) RemainingDelay() time.Duration {
	return b.cb.RemainingDelay()
}

// Allow asks for permission to make a call. On success the caller must report
// the outcome through the returned func.
func (b *CircuitBreaker) Allow() (func(failure bool), error) {
	if !b.cb.TryAcquirePermit() {
		return nil, errors.WithStack(ErrCircuitOpen)
	}
	return func(failure bool) {
		if failure {
			b.cb.RecordFailure()
			return
		}
		b.cb.RecordSuccess()
	}, nil
}
